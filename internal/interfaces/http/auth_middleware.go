package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID   = "user_id"
	LocalClientID = "client_id"
	LocalRole     = "role"

	// LocalScopeClient cliente efectivo de la petición (lo fija ResolveClient).
	LocalScopeClient = "scope_client_id"
)

// AuthMiddleware valida el Bearer Token JWT y carga user_id, client_id y role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalClientID, id.ClientID)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
// Token sin rol: 401 MISSING_ROLE. Rol no permitido: 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// ResolveClient fija el cliente sobre el que opera la petición.
//   - Usuario de cliente: siempre su propio client_id; un ?clientId distinto es 403.
//   - Personal interno (admin, care): ?clientId es obligatorio.
func ResolveClient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		requested := strings.TrimSpace(c.Query("clientId"))

		if id.Role == entity.RoleAdmin || id.Role == entity.RoleCare {
			if requested == "" {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "clientId es requerido"})
			}
			c.Locals(LocalScopeClient, requested)
			return c.Next()
		}

		if id.ClientID == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "usuario sin cliente asignado"})
		}
		if requested != "" && requested != id.ClientID {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene acceso a ese cliente"})
		}
		c.Locals(LocalScopeClient, id.ClientID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetClientID client_id del token; vacío para el personal interno.
func GetClientID(c *fiber.Ctx) string {
	return localString(c, LocalClientID)
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetIdentity identidad completa del token.
func GetIdentity(c *fiber.Ctx) jwt.Identity {
	return jwt.Identity{UserID: GetUserID(c), ClientID: GetClientID(c), Role: GetRole(c)}
}

// ScopeClientID cliente resuelto por ResolveClient.
func ScopeClientID(c *fiber.Ctx) string {
	return localString(c, LocalScopeClient)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
