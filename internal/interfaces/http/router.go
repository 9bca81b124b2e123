package http

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth      AuthService
	Listing   ListingService
	Analytics AnalyticsService
	Invoices  InvoiceGenerator
	Files     InvoiceFiles
	Export    Exporter
	JWTSecret string
}

// NewApp aplicación Fiber con JSON goccy, recover, log de peticiones, /health y /metrics.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // exportaciones scope=all
		IdleTimeout:  time.Second * 60,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code == fiber.StatusNotFound {
				return c.Status(code).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ruta no encontrada"})
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		},
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.Auth)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.Files)
	listingHandler := NewListingHandler(deps.Listing)
	analyticsHandler := NewAnalyticsHandler(deps.Analytics)
	exportHandler := NewExportHandler(deps.Export)

	// Públicas
	api.Post("/auth/login", authHandler.Login)
	api.Get("/files/:token", invoiceHandler.Download) // el token firmado es la autorización

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/clients", authHandler.Clients)
	protected.Get("/tables/:entity", exportHandler.Table)

	// Facturas: generar es solo admin; los archivos validan el dueño en el caso de uso
	protected.Post("/invoices/generate", RequireRole(entity.RoleAdmin), invoiceHandler.Generate)
	protected.Get("/invoices/:number/files", invoiceHandler.Files)

	// Rutas por cliente: ResolveClient fija el clientId efectivo
	scope := ResolveClient()
	protected.Get("/invoices", scope, listingHandler.Invoices)

	protected.Get("/shipments", scope, listingHandler.Shipments)
	protected.Get("/shipments/undelivered", scope, listingHandler.Undelivered)
	protected.Get("/transactions/:family", scope, listingHandler.Transactions)

	protected.Get("/analytics/shipments", scope, analyticsHandler.Overview)
	protected.Get("/analytics/shipments/:dimension", scope, analyticsHandler.Dimension)
	protected.Get("/analytics/billing", scope, analyticsHandler.Billing)

	protected.Get("/exports/:entity", scope, exportHandler.Export)
}
