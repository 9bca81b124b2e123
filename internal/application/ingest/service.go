package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/geo"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/jhoicas/shipdash-api/pkg/metrics"
)

// Resultados registrados en métricas.
const (
	resultApplied  = "applied"
	resultRejected = "rejected"
	resultError    = "error"
)

// errRejected marca eventos que no se reintentan: se registran y se confirman.
var errRejected = errors.New("evento rechazado")

// Service aplica eventos sobre el repositorio de envíos.
type Service struct {
	shipments repository.ShipmentRepository
	validate  *validator.Validate
	log       *logger.Logger
	now       func() time.Time
}

// NewService construye el servicio de ingesta.
func NewService(shipments repository.ShipmentRepository, log *logger.Logger) *Service {
	return &Service{
		shipments: shipments,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
	}
}

// Handle procesa un mensaje. Devuelve nil cuando el mensaje puede confirmarse (aplicado o
// rechazado por contenido); devuelve error solo ante fallas de infraestructura, para reintentar.
func (s *Service) Handle(ctx context.Context, key, value []byte) error {
	eventType, err := s.apply(ctx, value)
	switch {
	case err == nil:
		metrics.RecordIngest(eventType, resultApplied)
		return nil
	case errors.Is(err, errRejected), errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConflict):
		metrics.RecordIngest(eventType, resultRejected)
		s.log.Warn().Err(err).Str("event", eventType).Bytes("key", key).Msg("evento descartado")
		return nil
	default:
		metrics.RecordIngest(eventType, resultError)
		return err
	}
}

func (s *Service) apply(ctx context.Context, value []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return "invalid", fmt.Errorf("%w: json: %v", errRejected, err)
	}
	if err := s.validate.Struct(env); err != nil {
		return "invalid", fmt.Errorf("%w: %v", errRejected, err)
	}

	switch env.Event {
	case EventShipmentCreated:
		var p ShipmentCreated
		if err := s.decode(env.Payload, &p); err != nil {
			return env.Event, err
		}
		return env.Event, s.created(ctx, p)
	case EventShipmentStatusChanged:
		var p StatusChanged
		if err := s.decode(env.Payload, &p); err != nil {
			return env.Event, err
		}
		return env.Event, s.statusChanged(ctx, p)
	default:
		return "unknown", fmt.Errorf("%w: tipo %q", errRejected, env.Event)
	}
}

func (s *Service) decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: payload: %v", errRejected, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errRejected, err)
	}
	return nil
}

// created inserta o actualiza por ShipmentID. Un reenvío no puede retroceder el estado
// de un envío ya existente, y un envío entregado, cancelado o facturado no se reescribe.
func (s *Service) created(ctx context.Context, p ShipmentCreated) error {
	st := status.ShipmentProcessing
	if p.Status != "" {
		parsed, ok := status.ParseShipment(p.Status)
		if !ok {
			return fmt.Errorf("%w: estado %q", errRejected, p.Status)
		}
		st = parsed
	}

	sh := &entity.Shipment{
		ClientID:        p.ClientID,
		OrderID:         p.OrderID,
		ShipmentID:      p.ShipmentID,
		TrackingNumber:  p.TrackingNumber,
		Carrier:         p.Carrier,
		CarrierService:  p.CarrierService,
		Channel:         p.Channel,
		Status:          st,
		Zone:            p.Zone,
		DestinationCity: p.DestinationCity,
		OriginFC:        p.OriginFC,
		OrderReceivedAt: p.OrderReceivedAt,
		LabelCreatedAt:  p.LabelCreatedAt,
		InTransitAt:     p.InTransitAt,
		DeliveredAt:     p.DeliveredAt,
	}
	if p.DestinationState != "" {
		sh.DestinationState = geo.NormalizeState(p.DestinationState)
	}
	if p.Cost != nil {
		sh.Cost = decimal.NewNullDecimal(*p.Cost)
	}

	existing, err := s.shipments.GetByExternalID(ctx, p.ShipmentID)
	if err != nil {
		return fmt.Errorf("buscar envío %s: %w", p.ShipmentID, err)
	}
	if existing != nil {
		if existing.ClientID != p.ClientID {
			return fmt.Errorf("%w: envío %s pertenece a otro cliente", errRejected, p.ShipmentID)
		}
		if existing.Status.Terminal() || existing.Invoiced() {
			return fmt.Errorf("%w: envío %s cerrado (%s, factura %q)", errRejected, p.ShipmentID, existing.Status, existing.InvoiceID)
		}
		sh.ID = existing.ID
		sh.CreatedAt = existing.CreatedAt
		if sh.Status != existing.Status && !status.CanTransition(existing.Status, sh.Status) {
			sh.Status = existing.Status
		}
	}

	if err := s.shipments.Upsert(ctx, sh); err != nil {
		return fmt.Errorf("guardar envío %s: %w", p.ShipmentID, err)
	}
	s.log.Debug().Str("shipment_id", sh.ShipmentID).Str("status", sh.Status.String()).Msg("envío registrado")
	return nil
}

// statusChanged valida la transición y estampa la marca de tiempo del hito alcanzado.
func (s *Service) statusChanged(ctx context.Context, p StatusChanged) error {
	to, ok := status.ParseShipment(p.Status)
	if !ok {
		return fmt.Errorf("%w: estado %q", errRejected, p.Status)
	}
	sh, err := s.shipments.GetByExternalID(ctx, p.ShipmentID)
	if err != nil {
		return fmt.Errorf("buscar envío %s: %w", p.ShipmentID, err)
	}
	if sh == nil {
		return fmt.Errorf("%w: envío %s: %v", errRejected, p.ShipmentID, domain.ErrNotFound)
	}
	if sh.Status == to {
		return nil
	}
	if !status.CanTransition(sh.Status, to) {
		return fmt.Errorf("%w: %s -> %s: %v", errRejected, sh.Status, to, domain.ErrInvalidTransition)
	}

	at := p.OccurredAt
	if at.IsZero() {
		at = s.now()
	}
	stamp(sh, to, at)

	if err := s.shipments.UpdateStatus(ctx, sh); err != nil {
		return fmt.Errorf("actualizar envío %s: %w", p.ShipmentID, err)
	}
	return nil
}

// stamp aplica el nuevo estado y completa la marca del hito si aún no existe:
// labeled -> LabelCreatedAt, in_transit -> InTransitAt, delivered -> DeliveredAt.
func stamp(sh *entity.Shipment, to status.Shipment, at time.Time) {
	sh.Status = to
	switch to {
	case status.ShipmentLabeled:
		if sh.LabelCreatedAt == nil {
			sh.LabelCreatedAt = &at
		}
	case status.ShipmentInTransit:
		if sh.InTransitAt == nil {
			sh.InTransitAt = &at
		}
	case status.ShipmentDelivered:
		if sh.DeliveredAt == nil {
			sh.DeliveredAt = &at
		}
	}
}
