// Package pdf genera la representación PDF de las facturas semanales de envíos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cliente + período   │  N° Factura + Fecha emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant. | Importe                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto (tasa) / TOTAL                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Tracking | Transportadora | Estado | Costo         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeader  = &props.Color{Red: 0, Green: 70, Blue: 127}
)

const dateLayout = "Jan 2, 2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.AmericanEnglish)}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Client == nil {
		return nil, fmt.Errorf("pdf: factura o cliente nulo")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+doc.Invoice.Number, true).
		WithAuthor(doc.Client.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(lineTableHeaderRow())
	for _, r := range g.lineRows(doc) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc))

	if len(doc.Shipments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitleRow(fmt.Sprintf("SHIPMENT DETAIL (%d)", len(doc.Shipments))))
		m.AddRows(shipmentTableHeaderRow())
		for _, r := range g.shipmentRows(doc) {
			m.AddRows(r)
		}
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: cliente + período (izq) y N° factura + fecha (der).
func (g *MarotoPDFGenerator) headerRow(doc billing.InvoiceDocument) core.Row {
	inv := doc.Invoice
	period := inv.PeriodStart.Format(dateLayout) + " - " + inv.PeriodEnd.Format(dateLayout)

	return row.New(20).Add(
		col.New(7).Add(
			text.New(doc.Client.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Billing period: "+period, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(g.printer.Sprintf("Shipments: %d", inv.ShipmentCount), props.Text{
				Size: 9, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Issued: "+inv.CreatedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorWhite, Top: 2, Left: 1, Right: 1,
	}))
}

// lineTableHeaderRow: cabecera de la tabla de líneas.
func lineTableHeaderRow() core.Row {
	return row.New(8).Add(
		headerCell("Description", 7, align.Left),
		headerCell("Qty", 2, align.Center),
		headerCell("Amount", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func (g *MarotoPDFGenerator) lineRows(doc billing.InvoiceDocument) []core.Row {
	result := make([]core.Row, 0, len(doc.Lines))
	for _, li := range doc.Lines {
		result = append(result, row.New(7).Add(
			col.New(7).Add(text.New(li.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.printer.Sprintf("%d", li.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(g.money(doc.Currency, li.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoPDFGenerator) totalsRow(doc billing.InvoiceDocument) core.Row {
	inv := doc.Invoice
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}
	rate := inv.TaxRate.Mul(decimal.NewFromInt(100)).StringFixedBank(2)

	return row.New(20).Add(
		col.New(5),
		col.New(4).Add(
			label("Subtotal:"),
			text.New("Tax ("+rate+"%):", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 12,
			}),
		),
		col.New(3).Add(
			value(g.money(doc.Currency, inv.Subtotal), 0),
			value(g.money(doc.Currency, inv.Tax), 6),
			grand(g.money(doc.Currency, inv.Total), 12),
		),
	)
}

func shipmentTableHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Order", 2, align.Left),
		headerCell("Tracking", 3, align.Left),
		headerCell("Carrier", 2, align.Left),
		headerCell("Ship date", 2, align.Left),
		headerCell("Status", 1, align.Left),
		headerCell("Cost", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func (g *MarotoPDFGenerator) shipmentRows(doc billing.InvoiceDocument) []core.Row {
	small := props.Text{Size: 7, Top: 1, Left: 1}
	result := make([]core.Row, 0, len(doc.Shipments))
	for _, s := range doc.Shipments {
		result = append(result, row.New(5).Add(
			col.New(2).Add(text.New(nonEmpty(s.OrderID, "-"), small)),
			col.New(3).Add(text.New(nonEmpty(s.TrackingNumber, "-"), small)),
			col.New(2).Add(text.New(nonEmpty(s.Carrier, "-"), small)),
			col.New(2).Add(text.New(shipDate(s), small)),
			col.New(1).Add(text.New(s.Status.String(), small)),
			col.New(2).Add(text.New(g.cost(doc.Currency, s), props.Text{Size: 7, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shipDate(s *entity.Shipment) string {
	if t := s.ShippedAt(); t != nil {
		return t.Format("01/02/2006")
	}
	return "-"
}

func (g *MarotoPDFGenerator) cost(currency string, s *entity.Shipment) string {
	if !s.Cost.Valid {
		return "-"
	}
	return g.money(currency, s.Cost.Decimal)
}

// money formatea con separador de miles y dos decimales: 1234.5 → "$1,234.50".
func (g *MarotoPDFGenerator) money(currency string, d decimal.Decimal) string {
	return FormatMoney(g.printer, currency, d)
}

// FormatMoney formatea un importe con el símbolo de la moneda.
func FormatMoney(p *message.Printer, currency string, d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Round(2)
	return sign + currencySymbol(currency) + p.Sprintf("%.2f", whole.InexactFloat64())
}

func currencySymbol(code string) string {
	if code == "" || code == "USD" {
		return "$"
	}
	return code + " "
}
