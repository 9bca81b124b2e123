package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura semanal de envíos de un cliente.
type Invoice struct {
	ID            string
	ClientID      string
	Number        string // INV-000001, secuencial
	PeriodStart   time.Time
	PeriodEnd     time.Time // inclusivo
	ShipmentCount int
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PDFKey        string // clave en el blob store; vacío hasta renderizar
	XLSXKey       string
	CreatedAt     time.Time
}

// HasArtifacts indica si ya se generaron los archivos PDF y XLSX.
func (i *Invoice) HasArtifacts() bool {
	return i.PDFKey != "" && i.XLSXKey != ""
}

// InvoiceLineItem línea de la factura (una por factura: "Shipping charges").
type InvoiceLineItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    int
	Amount      decimal.Decimal
}
