package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/application/usecase"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/jhoicas/shipdash-api/pkg/metrics"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// GenerateInvoiceUseCase genera la factura semanal de envíos de un cliente.
type GenerateInvoiceUseCase struct {
	txRunner  InvoiceTxRunner
	invoices  repository.InvoiceRepository
	clients   repository.ClientRepository
	artifacts *ArtifactRenderer
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewGenerateInvoiceUseCase construye el caso de uso.
func NewGenerateInvoiceUseCase(
	txRunner InvoiceTxRunner,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	artifacts *ArtifactRenderer,
	cfg Config,
	log *logger.Logger,
) *GenerateInvoiceUseCase {
	if cfg.InvoicePrefix == "" {
		cfg.InvoicePrefix = "INV"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GenerateInvoiceUseCase{
		txRunner:  txRunner,
		invoices:  invoices,
		clients:   clients,
		artifacts: artifacts,
		cfg:       cfg,
		log:       log.Component("invoices"),
		now:       time.Now,
	}
}

// Generate factura los envíos sin facturar de la semana [weekStart, weekStart+6].
//
// Dentro de una transacción: bloquea los envíos, calcula totales, toma el siguiente número,
// inserta factura + línea y estampa los envíos. Sin envíos pendientes retorna
// domain.ErrNoUninvoicedShipments y no crea nada. Los archivos PDF/XLSX se generan después
// del commit; si fallan la factura queda sin archivos y se generan al pedir las URLs.
func (uc *GenerateInvoiceUseCase) Generate(ctx context.Context, in dto.GenerateInvoiceRequest) (*dto.InvoiceDTO, error) {
	loc := uc.now().Location()
	start, err := time.ParseInLocation(dateLayout, in.WeekStart, loc)
	if err != nil {
		return nil, fmt.Errorf("weekStart inválido: %w", domain.ErrInvalidInput)
	}
	end := start.AddDate(0, 0, 6)

	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invoice: cliente: %w", err)
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	if dup, err := uc.invoices.ExistsForPeriod(ctx, client.ID, start, end); err == nil && dup {
		uc.log.Warn().Str("client_id", client.ID).Str("week_start", in.WeekStart).
			Msg("ya existe una factura para el período; se factura lo pendiente")
	}

	var inv *entity.Invoice
	var shipments []*entity.Shipment
	err = uc.txRunner.RunInvoice(ctx, func(shipmentRepo repository.ShipmentRepository, invoiceRepo repository.InvoiceRepository) error {
		rows, err := shipmentRepo.ListUninvoicedInRange(ctx, client.ID, start, end)
		if err != nil {
			return fmt.Errorf("listar envíos sin facturar: %w", err)
		}
		if len(rows) == 0 {
			return domain.ErrNoUninvoicedShipments
		}

		subtotal, tax, total := computeTotals(rows, uc.cfg.TaxRate)

		seq, err := invoiceRepo.NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("siguiente número: %w", err)
		}

		inv = &entity.Invoice{
			ID:            uuid.New().String(),
			ClientID:      client.ID,
			Number:        FormatNumber(uc.cfg.InvoicePrefix, seq),
			PeriodStart:   start,
			PeriodEnd:     end,
			ShipmentCount: len(rows),
			Subtotal:      subtotal,
			TaxRate:       uc.cfg.TaxRate,
			Tax:           tax,
			Total:         total,
			CreatedAt:     uc.now(),
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		line := &entity.InvoiceLineItem{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Description: fmt.Sprintf("Shipping charges %s to %s", start.Format(dateLayout), end.Format(dateLayout)),
			Quantity:    len(rows),
			Amount:      subtotal,
		}
		if err := invoiceRepo.CreateLineItem(ctx, line); err != nil {
			return err
		}

		ids := make([]string, len(rows))
		for i, s := range rows {
			ids[i] = s.ID
		}
		n, err := shipmentRepo.AssignInvoice(ctx, inv.ID, ids)
		if err != nil {
			return fmt.Errorf("asignar factura: %w", err)
		}
		if int(n) != len(ids) {
			return fmt.Errorf("asignar factura: %d de %d envíos: %w", n, len(ids), domain.ErrConflict)
		}
		for _, s := range rows {
			s.InvoiceID = inv.ID
		}
		shipments = rows
		return nil
	})
	if err != nil {
		metrics.RecordInvoice("rejected")
		return nil, err
	}
	metrics.RecordInvoice("created")
	uc.log.Info().Str("number", inv.Number).Str("client_id", client.ID).
		Int("shipments", inv.ShipmentCount).Str("total", inv.Total.StringFixed(2)).Msg("factura generada")

	if uc.artifacts != nil {
		if err := uc.artifacts.Render(ctx, inv, client, shipments); err != nil {
			uc.log.Error().Err(err).Str("number", inv.Number).Msg("no se pudieron generar los archivos de la factura")
		}
	}

	out := usecase.InvoiceToDTO(inv)
	return &out, nil
}

// computeTotals subtotal = suma de costos no nulos; impuesto redondeado a centavos.
func computeTotals(rows []*entity.Shipment, rate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	for _, s := range rows {
		if s.Cost.Valid {
			subtotal = subtotal.Add(s.Cost.Decimal)
		}
	}
	tax = subtotal.Mul(rate).Round(2)
	return subtotal, tax, subtotal.Add(tax)
}

// FormatNumber INV-000042.
func FormatNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}
