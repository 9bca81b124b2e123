// Package ingest aplica los eventos de envíos publicados por el sistema de fulfillment.
package ingest

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Tipos de evento aceptados.
const (
	EventShipmentCreated       = "shipment.created"
	EventShipmentStatusChanged = "shipment.status_changed"
)

// Envelope forma común de los mensajes: {"event": "...", "payload": {...}}.
type Envelope struct {
	Event   string          `json:"event" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// ShipmentCreated alta (o reenvío) de un envío.
type ShipmentCreated struct {
	ClientID         string           `json:"clientId" validate:"required"`
	OrderID          string           `json:"orderId" validate:"required"`
	ShipmentID       string           `json:"shipmentId" validate:"required"`
	TrackingNumber   string           `json:"trackingNumber"`
	Carrier          string           `json:"carrier"`
	CarrierService   string           `json:"carrierService"`
	Channel          string           `json:"channel"`
	Status           string           `json:"status"`
	Cost             *decimal.Decimal `json:"cost"`
	Zone             int              `json:"zone" validate:"min=0,max=8"`
	DestinationState string           `json:"destinationState"`
	DestinationCity  string           `json:"destinationCity"`
	OriginFC         string           `json:"originFc"`
	OrderReceivedAt  time.Time        `json:"orderReceivedAt" validate:"required"`
	LabelCreatedAt   *time.Time       `json:"labelCreatedAt"`
	InTransitAt      *time.Time       `json:"inTransitAt"`
	DeliveredAt      *time.Time       `json:"deliveredAt"`
}

// StatusChanged cambio de estado informado por la transportadora.
type StatusChanged struct {
	ShipmentID string    `json:"shipmentId" validate:"required"`
	Status     string    `json:"status" validate:"required"`
	OccurredAt time.Time `json:"occurredAt"`
}
