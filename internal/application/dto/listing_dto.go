package dto

import (
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// Los filtros de selección múltiple llegan unidos por comas ("delivered,in_transit").

// ShipmentListRequest parámetros para GET /api/shipments y /api/shipments/undelivered.
type ShipmentListRequest struct {
	Limit         int    `query:"limit" validate:"min=0,max=500"` // 0 = 50
	Offset        int    `query:"offset" validate:"min=0"`
	StartDate     string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Status        string `query:"status" validate:"max=300"`
	Carrier       string `query:"carrier" validate:"max=300"`
	Channel       string `query:"channel" validate:"max=300"`
	Age           string `query:"age" validate:"max=40"` // 0-2,3-5,6-10,11+
	Search        string `query:"search" validate:"max=100"`
	SortField     string `query:"sortField" validate:"omitempty,max=40"`
	SortDirection string `query:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// TransactionListRequest parámetros para GET /api/transactions/:family.
type TransactionListRequest struct {
	Limit         int    `query:"limit" validate:"min=0,max=500"`
	Offset        int    `query:"offset" validate:"min=0"`
	StartDate     string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Status        string `query:"status" validate:"max=100"`
	Type          string `query:"type" validate:"max=300"`
	Search        string `query:"search" validate:"max=100"`
	SortField     string `query:"sortField" validate:"omitempty,max=40"`
	SortDirection string `query:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// InvoiceListRequest parámetros para GET /api/invoices.
type InvoiceListRequest struct {
	Limit         int    `query:"limit" validate:"min=0,max=500"`
	Offset        int    `query:"offset" validate:"min=0"`
	SortField     string `query:"sortField" validate:"omitempty,max=40"`
	SortDirection string `query:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// ── Filas ─────────────────────────────────────────────────────────────────────

// ShipmentDTO fila de la tabla de envíos.
type ShipmentDTO struct {
	ID               string              `json:"id"`
	OrderID          string              `json:"orderId"`
	ShipmentID       string              `json:"shipmentId"`
	TrackingNumber   string              `json:"trackingNumber"`
	Carrier          string              `json:"carrier"`
	CarrierService   string              `json:"carrierService"`
	Channel          string              `json:"channel"`
	Status           string              `json:"status"`
	StatusBadge      status.Badge        `json:"statusBadge"`
	Claim            string              `json:"claim"`
	ClaimBadge       status.Badge        `json:"claimBadge"`
	Cost             decimal.NullDecimal `json:"cost"`
	Zone             int                 `json:"zone,omitempty"`
	DestinationState string              `json:"destinationState"`
	DestinationCity  string              `json:"destinationCity"`
	OriginFC         string              `json:"originFc"`
	OrderReceivedAt  time.Time           `json:"orderReceivedAt"`
	LabelCreatedAt   *time.Time          `json:"labelCreatedAt"`
	InTransitAt      *time.Time          `json:"inTransitAt"`
	DeliveredAt      *time.Time          `json:"deliveredAt"`
	TransitDays      *float64            `json:"transitDays"`
	AgeDays          *int                `json:"ageDays,omitempty"` // solo no entregados
	InvoiceID        string              `json:"invoiceId,omitempty"`
}

// TransactionDTO fila de una tabla de transacciones de facturación.
type TransactionDTO struct {
	ID                string          `json:"id"`
	Family            string          `json:"family"`
	ReferenceID       string          `json:"referenceId"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	FulfillmentCenter string          `json:"fulfillmentCenter"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionDate   time.Time       `json:"transactionDate"`
	InvoiceID         string          `json:"invoiceId,omitempty"`
	Status            string          `json:"status"`
	StatusBadge       status.Badge    `json:"statusBadge"`
}
