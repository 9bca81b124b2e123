package entity

import (
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/shopspring/decimal"
)

// Shipment representa un paquete saliente desde la recepción de la orden hasta la entrega.
type Shipment struct {
	ID               string
	ClientID         string
	OrderID          string
	ShipmentID       string // id externo del sistema de fulfillment
	TrackingNumber   string
	Carrier          string
	CarrierService   string
	Channel          string
	Status           status.Shipment
	Cost             decimal.NullDecimal // nulo = aún no tarifado
	Zone             int                 // 1-8; 0 = desconocida
	DestinationState string              // código de dos letras
	DestinationCity  string
	OriginFC         string
	OrderReceivedAt  time.Time
	LabelCreatedAt   *time.Time
	InTransitAt      *time.Time
	DeliveredAt      *time.Time
	InvoiceID        string // vacío hasta facturar
	CreditID         string // vacío hasta vincular un crédito/reclamo
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TransitDays días entre el despacho (InTransitAt o LabelCreatedAt) y la entrega.
// ok=false si falta alguno de los extremos o la entrega es anterior al despacho.
func (s *Shipment) TransitDays() (float64, bool) {
	if s.DeliveredAt == nil {
		return 0, false
	}
	start := s.InTransitAt
	if start == nil {
		start = s.LabelCreatedAt
	}
	if start == nil || s.DeliveredAt.Before(*start) {
		return 0, false
	}
	return s.DeliveredAt.Sub(*start).Hours() / 24, true
}

// FulfillmentHours horas entre la recepción de la orden y la creación de la etiqueta.
func (s *Shipment) FulfillmentHours() (float64, bool) {
	if s.LabelCreatedAt == nil || s.OrderReceivedAt.IsZero() || s.LabelCreatedAt.Before(s.OrderReceivedAt) {
		return 0, false
	}
	return s.LabelCreatedAt.Sub(s.OrderReceivedAt).Hours(), true
}

// ShippedAt momento de despacho: InTransitAt o, en su defecto, LabelCreatedAt.
func (s *Shipment) ShippedAt() *time.Time {
	if s.InTransitAt != nil {
		return s.InTransitAt
	}
	return s.LabelCreatedAt
}

// Claim elegibilidad de reclamo a la fecha now.
func (s *Shipment) Claim(now time.Time) status.Claim {
	return status.ClaimFor(status.ClaimFacts{
		Status:       s.Status,
		ShippedAt:    s.ShippedAt(),
		DeliveredAt:  s.DeliveredAt,
		CreditLinked: s.CreditID != "",
	}, now)
}

// Invoiced indica si el envío ya fue incluido en una factura.
func (s *Shipment) Invoiced() bool {
	return s.InvoiceID != ""
}
