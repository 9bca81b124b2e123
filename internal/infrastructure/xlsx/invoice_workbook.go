// Package xlsx genera libros Excel con excelize: el detalle de la factura (una fila por envío)
// y las exportaciones tabulares.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

const (
	SummarySheet   = "Summary"
	ShipmentsSheet = "Shipments"

	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04"
	moneyFmt   = 4 // #,##0.00
)

var shipmentHeaders = []string{
	"Order ID", "Shipment ID", "Tracking Number", "Carrier", "Service", "Channel",
	"Order Date", "Ship Date", "Delivered", "Destination", "Zone", "Status", "Cost",
}

// InvoiceWorkbook implementa billing.InvoiceXLSXGenerator.
type InvoiceWorkbook struct{}

var _ billing.InvoiceXLSXGenerator = (*InvoiceWorkbook)(nil)

// NewInvoiceWorkbook construye el generador.
func NewInvoiceWorkbook() *InvoiceWorkbook { return &InvoiceWorkbook{} }

// GenerateInvoiceXLSX hoja Summary con la cabecera y totales; hoja Shipments con el detalle.
func (g *InvoiceWorkbook) GenerateInvoiceXLSX(ctx context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Client == nil {
		return nil, fmt.Errorf("xlsx: factura o cliente nulo")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeSummary(f, doc, bold, money); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ShipmentsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja envíos: %w", err)
	}
	if err := writeShipments(f, doc.Shipments, bold, money); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, doc billing.InvoiceDocument, bold, money int) error {
	inv := doc.Invoice
	rows := [][2]any{
		{"Invoice", inv.Number},
		{"Client", doc.Client.Name},
		{"Period start", inv.PeriodStart.Format(dateLayout)},
		{"Period end", inv.PeriodEnd.Format(dateLayout)},
		{"Shipments", inv.ShipmentCount},
		{"Currency", doc.Currency},
		{"Subtotal", inv.Subtotal.InexactFloat64()},
		{"Tax rate", inv.TaxRate.InexactFloat64()},
		{"Tax", inv.Tax.InexactFloat64()},
		{"Total", inv.Total.InexactFloat64()},
	}
	for i, r := range rows {
		n := i + 1
		if err := f.SetCellValue(SummarySheet, cell(1, n), r[0]); err != nil {
			return fmt.Errorf("xlsx: resumen: %w", err)
		}
		if err := f.SetCellValue(SummarySheet, cell(2, n), r[1]); err != nil {
			return fmt.Errorf("xlsx: resumen: %w", err)
		}
	}
	last := len(rows)
	if err := f.SetCellStyle(SummarySheet, "A1", cell(1, last), bold); err != nil {
		return fmt.Errorf("xlsx: resumen: %w", err)
	}
	// Subtotal, Tax y Total en formato moneda; la tasa queda como fracción.
	for _, n := range []int{7, 9, 10} {
		if err := f.SetCellStyle(SummarySheet, cell(2, n), cell(2, n), money); err != nil {
			return fmt.Errorf("xlsx: resumen: %w", err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 22)
}

func writeShipments(f *excelize.File, shipments []*entity.Shipment, bold, money int) error {
	sw, err := f.NewStreamWriter(ShipmentsSheet)
	if err != nil {
		return fmt.Errorf("xlsx: stream envíos: %w", err)
	}
	if err := sw.SetColWidth(1, len(shipmentHeaders), 16); err != nil {
		return fmt.Errorf("xlsx: ancho columnas: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("xlsx: panes: %w", err)
	}

	header := make([]any, len(shipmentHeaders))
	for i, h := range shipmentHeaders {
		header[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx: cabecera: %w", err)
	}

	for i, s := range shipments {
		var cost any = ""
		if s.Cost.Valid {
			cost = excelize.Cell{StyleID: money, Value: s.Cost.Decimal.InexactFloat64()}
		}
		var zone any = ""
		if s.Zone > 0 {
			zone = s.Zone
		}
		values := []any{
			s.OrderID, s.ShipmentID, s.TrackingNumber, s.Carrier, s.CarrierService, s.Channel,
			s.OrderReceivedAt.Format(timeLayout), formatTime(s.ShippedAt()), formatTime(s.DeliveredAt),
			destination(s), zone, s.Status.String(), cost,
		}
		if err := sw.SetRow(cell(1, i+2), values); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush envíos: %w", err)
	}
	return nil
}

func destination(s *entity.Shipment) string {
	switch {
	case s.DestinationCity != "" && s.DestinationState != "":
		return s.DestinationCity + ", " + s.DestinationState
	case s.DestinationState != "":
		return s.DestinationState
	default:
		return s.DestinationCity
	}
}

// cell nombre de celda (col y fila desde 1). Las coordenadas son siempre válidas aquí.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
