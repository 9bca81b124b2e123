package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateInvoiceRequest body para POST /api/invoices/generate.
type GenerateInvoiceRequest struct {
	WeekStart string `json:"weekStart" validate:"required,datetime=2006-01-02"`
	ClientID  string `json:"clientId" validate:"required,max=64"`
}

// InvoiceDTO factura en respuestas.
type InvoiceDTO struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"clientId"`
	Number        string          `json:"number"`
	PeriodStart   string          `json:"periodStart"`
	PeriodEnd     string          `json:"periodEnd"`
	ShipmentCount int             `json:"shipmentCount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	HasFiles      bool            `json:"hasFiles"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// InvoiceFilesDTO URLs firmadas de los artefactos de una factura.
type InvoiceFilesDTO struct {
	Number    string    `json:"number"`
	PDFURL    string    `json:"pdfUrl"`
	XLSXURL   string    `json:"xlsxUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
