package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
)

func invoiceDoc() billing.InvoiceDocument {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	label := start.Add(30 * time.Hour)
	return billing.InvoiceDocument{
		Invoice: &entity.Invoice{
			ID: "inv-1", Number: "INV-000007", PeriodStart: start, PeriodEnd: start.AddDate(0, 0, 6),
			ShipmentCount: 2,
			Subtotal:      decimal.RequireFromString("30.55"),
			TaxRate:       decimal.RequireFromString("0.0825"),
			Tax:           decimal.RequireFromString("2.52"),
			Total:         decimal.RequireFromString("33.07"),
		},
		Client: &entity.Client{ID: "c1", Name: "Acme"},
		Shipments: []*entity.Shipment{
			{OrderID: "ORD-1", ShipmentID: "EXT-1", Carrier: "UPS", DestinationCity: "Austin", DestinationState: "TX",
				Zone: 5, Status: status.ShipmentDelivered, OrderReceivedAt: start, LabelCreatedAt: &label,
				Cost: decimal.NewNullDecimal(decimal.RequireFromString("30.55"))},
			{OrderID: "ORD-2", ShipmentID: "EXT-2", Carrier: "USPS", Status: status.ShipmentInTransit, OrderReceivedAt: start},
		},
		Currency: "USD",
	}
}

func TestGenerateInvoiceXLSX(t *testing.T) {
	out, err := NewInvoiceWorkbook().GenerateInvoiceXLSX(context.Background(), invoiceDoc())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, ShipmentsSheet}, f.GetSheetList())

	number, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "INV-000007", number)
	total, err := f.GetCellValue(SummarySheet, "B10", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "33.07", total)

	rows, err := f.GetRows(ShipmentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "cabecera + una fila por envío")
	assert.Equal(t, shipmentHeaders, rows[0])
	assert.Equal(t, "ORD-1", rows[1][0])
	assert.Equal(t, "Austin, TX", rows[1][9])
	assert.Equal(t, "2024-03-05 06:00", rows[1][7])

	cost, err := f.GetCellValue(ShipmentsSheet, "M3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Empty(t, cost, "sin tarifa la celda queda vacía")
}

func TestTableWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewTableWriter(&buf, "Shipments")
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader([]string{"Order", "Carrier"}))
	require.NoError(t, w.WriteRow([]string{"ORD-1", "UPS"}))
	require.NoError(t, w.WriteRow([]string{"ORD-2", "-"}))
	require.NoError(t, w.Close())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Shipments")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Order", "Carrier"}, {"ORD-1", "UPS"}, {"ORD-2", "-"}}, rows)
}

func TestTableWriter_CabeceraTardia(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewTableWriter(&buf, "X")
	require.NoError(t, err)
	require.NoError(t, w.WriteRow([]string{"a"}))
	assert.Error(t, w.WriteHeader([]string{"h"}))
	require.NoError(t, w.Close())
}
