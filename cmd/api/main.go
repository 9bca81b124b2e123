package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jhoicas/shipdash-api/internal/application/auth"
	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/application/export"
	"github.com/jhoicas/shipdash-api/internal/application/ingest"
	"github.com/jhoicas/shipdash-api/internal/application/usecase"
	"github.com/jhoicas/shipdash-api/internal/infrastructure/blobstore"
	"github.com/jhoicas/shipdash-api/internal/infrastructure/kafka"
	infrapdf "github.com/jhoicas/shipdash-api/internal/infrastructure/pdf"
	"github.com/jhoicas/shipdash-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/shipdash-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/shipdash-api/internal/interfaces/http"
	"github.com/jhoicas/shipdash-api/pkg/config"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/jhoicas/shipdash-api/pkg/signedurl"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	store, err := blobstore.Open(cfg.Storage.BadgerPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de artefactos")
	}
	defer store.Close()

	signer, err := signedurl.NewSigner(cfg.Storage.SigningSecret, cfg.Storage.SignedURLTTL, cfg.Storage.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("firmador de URLs")
	}

	// Repositorios
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, clientRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	listingUC := usecase.NewListingUseCase(shipmentRepo, transactionRepo, invoiceRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(shipmentRepo, transactionRepo, usecase.AnalyticsConfig{
		CacheSize: cfg.Analytics.CacheSize,
		CacheTTL:  cfg.Analytics.CacheTTL,
		SLAHours:  cfg.Analytics.SLAHours,
	}, log)

	// Facturación: PDF (maroto) + XLSX (excelize) en badger, descargas por URL firmada
	artifacts := billing.NewArtifactRenderer(
		invoiceRepo, shipmentRepo,
		infrapdf.NewMarotoPDFGenerator(), infraxlsx.NewInvoiceWorkbook(),
		store, cfg.Billing.Currency,
	)
	generateInvoiceUC := billing.NewGenerateInvoiceUseCase(txRunner, invoiceRepo, clientRepo, artifacts, billing.Config{
		TaxRate:       cfg.Billing.TaxRate,
		InvoicePrefix: cfg.Billing.InvoicePrefix,
		Currency:      cfg.Billing.Currency,
	}, log)
	invoiceFilesUC := billing.NewInvoiceFilesUseCase(invoiceRepo, clientRepo, artifacts, store, signer)

	exportUC := export.NewUseCase(listingUC, func(out io.Writer, sheet string) (export.RowWriter, error) {
		return infraxlsx.NewTableWriter(out, sheet)
	}, log.Component("export"))

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Shipdash API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("sin especificación OpenAPI, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:      authUC,
		Listing:   listingUC,
		Analytics: analyticsUC,
		Invoices:  generateInvoiceUC,
		Files:     invoiceFilesUC,
		Export:    exportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	var wg sync.WaitGroup

	// Ingesta de eventos de envíos (opcional)
	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka, log.Component("kafka"))
		ingestSvc := ingest.NewService(shipmentRepo, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer consumer.Close()
			if err := consumer.Run(ctx, ingestSvc.Handle); err != nil {
				log.Error().Err(err).Msg("consumidor kafka finalizado")
			}
		}()
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("ingesta kafka habilitada")
	} else {
		log.Info().Msg("KAFKA_BROKERS vacío, ingesta deshabilitada")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	wg.Wait()

	log.Info().Msg("aplicación detenida")
}
