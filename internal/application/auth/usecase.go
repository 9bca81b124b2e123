package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login, perfil y selector de clientes.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	clientRepo repository.ClientRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, clientRepo repository.ClientRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, clientRepo: clientRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	if user.Role == entity.RoleClient && user.ClientID == "" {
		// usuario de cliente sin cliente asignado: no puede ver nada
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:   user.ID,
		ClientID: user.ClientID,
		Role:     user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := toUserResponse(user)
	return &out, nil
}

// ListClients clientes visibles: todos para el personal interno, solo el propio para un cliente.
func (uc *AuthUseCase) ListClients(ctx context.Context, id jwt.Identity) ([]dto.ClientDTO, error) {
	if id.Role != entity.RoleAdmin && id.Role != entity.RoleCare {
		c, err := uc.clientRepo.GetByID(ctx, id.ClientID)
		if err != nil {
			return nil, fmt.Errorf("auth: cliente: %w", err)
		}
		if c == nil {
			return []dto.ClientDTO{}, nil
		}
		return []dto.ClientDTO{{ID: c.ID, Name: c.Name}}, nil
	}
	clients, err := uc.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth: clientes: %w", err)
	}
	out := make([]dto.ClientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, dto.ClientDTO{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		ClientID: u.ClientID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
	}
}
