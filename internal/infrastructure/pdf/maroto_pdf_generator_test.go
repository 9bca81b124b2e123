package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
)

func sampleDocument() billing.InvoiceDocument {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	label := start.Add(10 * time.Hour)
	inv := &entity.Invoice{
		ID: "inv-1", ClientID: "c1", Number: "INV-000042",
		PeriodStart: start, PeriodEnd: start.AddDate(0, 0, 6), ShipmentCount: 2,
		Subtotal:  decimal.RequireFromString("1234.50"),
		TaxRate:   decimal.RequireFromString("0.0825"),
		Tax:       decimal.RequireFromString("101.85"),
		Total:     decimal.RequireFromString("1336.35"),
		CreatedAt: start.AddDate(0, 0, 7),
	}
	return billing.InvoiceDocument{
		Invoice: inv,
		Client:  &entity.Client{ID: "c1", Name: "Acme Corp"},
		Lines: []*entity.InvoiceLineItem{
			{ID: "li-1", InvoiceID: "inv-1", Description: "Shipping charges 2024-03-04 to 2024-03-10", Quantity: 2, Amount: inv.Subtotal},
		},
		Shipments: []*entity.Shipment{
			{ID: "s1", OrderID: "ORD-1", TrackingNumber: "1Z999", Carrier: "UPS", Status: status.ShipmentDelivered,
				Cost: decimal.NewNullDecimal(decimal.RequireFromString("1200.00")), LabelCreatedAt: &label},
			{ID: "s2", OrderID: "ORD-2", Carrier: "USPS", Status: status.ShipmentInTransit,
				Cost: decimal.NewNullDecimal(decimal.RequireFromString("34.50"))},
		},
		Currency: "USD",
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()

	out, err := g.GenerateInvoicePDF(context.Background(), sampleDocument())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateInvoicePDF_SinDetalle(t *testing.T) {
	doc := sampleDocument()
	doc.Shipments = nil

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_DocumentoIncompleto(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), billing.InvoiceDocument{})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	p := message.NewPrinter(language.AmericanEnglish)

	assert.Equal(t, "$1,234.50", FormatMoney(p, "USD", decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.00", FormatMoney(p, "", decimal.Zero))
	assert.Equal(t, "-$10.01", FormatMoney(p, "USD", decimal.RequireFromString("-10.005")))
	assert.Equal(t, "CAD 1,000,000.00", FormatMoney(p, "CAD", decimal.NewFromInt(1000000)))
}
