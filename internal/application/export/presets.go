// Package export tablas predefinidas (columnas y renderers de celda) y su exportación a CSV/XLSX.
package export

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/pkg/table"
)

// Entidades exportables además de las familias de transacciones.
const (
	EntityShipments   = "shipments"
	EntityUndelivered = "undelivered"
	EntityInvoices    = "invoices"
)

const (
	timeLayout = "2006-01-02 15:04"
	dayLayout  = "2006-01-02"
)

var pageSizes = []int{25, 50, 100, 250, 500}

// Preset configuración de tabla y renderers de una entidad.
type Preset[T any] struct {
	Config    table.Config
	Renderers table.Renderers[T]
}

// ── Envíos ────────────────────────────────────────────────────────────────────

func shipmentColumns() []table.Column {
	return []table.Column{
		{ID: "orderId", Header: "Order ID", Width: 1.2, DefaultVisible: true, Sortable: true},
		{ID: "shipmentId", Header: "Shipment ID", Width: 1.2, HideBelow: table.BreakpointLG},
		{ID: "trackingNumber", Header: "Tracking #", Width: 1.6, DefaultVisible: true, Sortable: true},
		{ID: "carrier", Header: "Carrier", Width: 1, DefaultVisible: true, Sortable: true},
		{ID: "carrierService", Header: "Service", Width: 1.2, HideBelow: table.BreakpointXL},
		{ID: "channel", Header: "Channel", Width: 1, HideBelow: table.BreakpointLG},
		{ID: "status", Header: "Status", Width: 1, DefaultVisible: true, Sortable: true},
		{ID: "claim", Header: "Claim", Width: 1, HideBelow: table.BreakpointMD},
		{ID: "cost", Header: "Cost", Width: 0.8, DefaultVisible: true, Sortable: true},
		{ID: "zone", Header: "Zone", Width: 0.5, Sortable: true, HideBelow: table.BreakpointLG},
		{ID: "destination", Header: "Destination", Width: 1.4, DefaultVisible: true, Sortable: true,
			SortField: "destinationState", HideBelow: table.BreakpointMD},
		{ID: "originFc", Header: "Fulfillment center", Width: 1, HideBelow: table.BreakpointXL},
		{ID: "orderReceivedAt", Header: "Order date", Width: 1.2, DefaultVisible: true, Sortable: true},
		{ID: "labelCreatedAt", Header: "Label created", Width: 1.2, Sortable: true, HideBelow: table.BreakpointLG},
		{ID: "deliveredAt", Header: "Delivered", Width: 1.2, Sortable: true, HideBelow: table.BreakpointLG},
		{ID: "transitDays", Header: "Transit days", Width: 0.8, HideBelow: table.BreakpointXL},
		{ID: "invoiceId", Header: "Invoice", Width: 1},
	}
}

func shipmentRenderers() table.Renderers[dto.ShipmentDTO] {
	return table.Renderers[dto.ShipmentDTO]{
		"orderId":        func(s dto.ShipmentDTO) table.Content { return text(s.OrderID) },
		"shipmentId":     func(s dto.ShipmentDTO) table.Content { return text(s.ShipmentID) },
		"trackingNumber": func(s dto.ShipmentDTO) table.Content { return copyable(s.TrackingNumber) },
		"carrier":        func(s dto.ShipmentDTO) table.Content { return text(s.Carrier) },
		"carrierService": func(s dto.ShipmentDTO) table.Content { return text(s.CarrierService) },
		"channel":        func(s dto.ShipmentDTO) table.Content { return text(s.Channel) },
		"status":         func(s dto.ShipmentDTO) table.Content { return text(s.StatusBadge.Label) },
		"claim":          func(s dto.ShipmentDTO) table.Content { return text(s.ClaimBadge.Label) },
		"cost": func(s dto.ShipmentDTO) table.Content {
			if !s.Cost.Valid {
				return table.Content{}
			}
			return text(money(s.Cost.Decimal))
		},
		"zone": func(s dto.ShipmentDTO) table.Content {
			if s.Zone <= 0 {
				return table.Content{}
			}
			return text(strconv.Itoa(s.Zone))
		},
		"destination":     func(s dto.ShipmentDTO) table.Content { return text(destination(s.DestinationCity, s.DestinationState)) },
		"originFc":        func(s dto.ShipmentDTO) table.Content { return text(s.OriginFC) },
		"orderReceivedAt": func(s dto.ShipmentDTO) table.Content { return text(s.OrderReceivedAt.Format(timeLayout)) },
		"labelCreatedAt":  func(s dto.ShipmentDTO) table.Content { return timestamp(s.LabelCreatedAt) },
		"deliveredAt":     func(s dto.ShipmentDTO) table.Content { return timestamp(s.DeliveredAt) },
		"transitDays": func(s dto.ShipmentDTO) table.Content {
			if s.TransitDays == nil {
				return table.Content{}
			}
			return text(strconv.FormatFloat(*s.TransitDays, 'f', 1, 64))
		},
		"invoiceId": func(s dto.ShipmentDTO) table.Content { return text(s.InvoiceID) },
	}
}

// ShipmentsTable tabla de envíos.
func ShipmentsTable() Preset[dto.ShipmentDTO] {
	return Preset[dto.ShipmentDTO]{
		Config: table.Config{
			Entity:          EntityShipments,
			Columns:         shipmentColumns(),
			DefaultSort:     table.Sort{ColumnID: "orderReceivedAt", Direction: table.Desc},
			DefaultPageSize: 50,
			PageSizes:       pageSizes,
			Prefix:          &table.Prefix{Header: "", WidthPx: 32},
		},
		Renderers: shipmentRenderers(),
	}
}

// UndeliveredTable envíos despachados sin entregar, con antigüedad; los más viejos primero.
func UndeliveredTable() Preset[dto.ShipmentDTO] {
	cols := []table.Column{
		{ID: "ageDays", Header: "Age (days)", Width: 0.7, DefaultVisible: true, Sortable: true, SortField: "labelCreatedAt"},
	}
	for _, c := range shipmentColumns() {
		switch c.ID {
		case "deliveredAt", "transitDays", "invoiceId":
			continue
		case "labelCreatedAt", "claim":
			c.DefaultVisible = true
		}
		cols = append(cols, c)
	}
	renderers := shipmentRenderers()
	renderers["ageDays"] = func(s dto.ShipmentDTO) table.Content {
		if s.AgeDays == nil {
			return table.Content{}
		}
		return text(strconv.Itoa(*s.AgeDays))
	}
	return Preset[dto.ShipmentDTO]{
		Config: table.Config{
			Entity:          EntityUndelivered,
			Columns:         cols,
			DefaultSort:     table.Sort{ColumnID: "labelCreatedAt", Direction: table.Asc},
			DefaultPageSize: 50,
			PageSizes:       pageSizes,
			Prefix:          &table.Prefix{Header: "", WidthPx: 32},
		},
		Renderers: renderers,
	}
}

// ── Transacciones ─────────────────────────────────────────────────────────────

var referenceHeaders = map[entity.Family]string{
	entity.FamilyAdditionalServices: "Order ID",
	entity.FamilyReceiving:          "ASN",
	entity.FamilyStorage:            "Location",
	entity.FamilyCredits:            "Reference",
	entity.FamilyReturns:            "RMA",
}

// TransactionsTable tabla de una familia de transacciones.
func TransactionsTable(fam entity.Family) Preset[dto.TransactionDTO] {
	ref := referenceHeaders[fam]
	if ref == "" {
		ref = "Reference"
	}
	typeHeader := "Fee type"
	if fam == entity.FamilyCredits {
		typeHeader = "Credit reason"
	}
	return Preset[dto.TransactionDTO]{
		Config: table.Config{
			Entity: string(fam),
			Columns: []table.Column{
				{ID: "transactionDate", Header: "Date", Width: 1, DefaultVisible: true, Sortable: true},
				{ID: "referenceId", Header: ref, Width: 1.2, DefaultVisible: true, Sortable: true},
				{ID: "category", Header: typeHeader, Width: 1.2, DefaultVisible: true, Sortable: true},
				{ID: "description", Header: "Description", Width: 2, DefaultVisible: true, HideBelow: table.BreakpointMD},
				{ID: "fulfillmentCenter", Header: "Fulfillment center", Width: 1, HideBelow: table.BreakpointLG},
				{ID: "amount", Header: "Amount", Width: 0.8, DefaultVisible: true, Sortable: true},
				{ID: "status", Header: "Status", Width: 0.8, DefaultVisible: true, Sortable: true},
				{ID: "invoiceId", Header: "Invoice", Width: 1},
			},
			DefaultSort:     table.Sort{ColumnID: "transactionDate", Direction: table.Desc},
			DefaultPageSize: 50,
			PageSizes:       pageSizes,
		},
		Renderers: table.Renderers[dto.TransactionDTO]{
			"transactionDate":   func(t dto.TransactionDTO) table.Content { return text(t.TransactionDate.Format(dayLayout)) },
			"referenceId":       func(t dto.TransactionDTO) table.Content { return copyable(t.ReferenceID) },
			"category":          func(t dto.TransactionDTO) table.Content { return text(t.Category) },
			"description":       func(t dto.TransactionDTO) table.Content { return text(t.Description) },
			"fulfillmentCenter": func(t dto.TransactionDTO) table.Content { return text(t.FulfillmentCenter) },
			"amount":            func(t dto.TransactionDTO) table.Content { return text(money(t.Amount)) },
			"status":            func(t dto.TransactionDTO) table.Content { return text(t.StatusBadge.Label) },
			"invoiceId":         func(t dto.TransactionDTO) table.Content { return text(t.InvoiceID) },
		},
	}
}

// ── Facturas ──────────────────────────────────────────────────────────────────

// InvoicesTable tabla de facturas.
func InvoicesTable() Preset[dto.InvoiceDTO] {
	return Preset[dto.InvoiceDTO]{
		Config: table.Config{
			Entity: EntityInvoices,
			Columns: []table.Column{
				{ID: "number", Header: "Invoice #", Width: 1, DefaultVisible: true, Sortable: true},
				{ID: "period", Header: "Period", Width: 1.6, DefaultVisible: true, Sortable: true, SortField: "periodStart"},
				{ID: "shipmentCount", Header: "Shipments", Width: 0.7, DefaultVisible: true},
				{ID: "subtotal", Header: "Subtotal", Width: 0.9, HideBelow: table.BreakpointMD},
				{ID: "tax", Header: "Tax", Width: 0.7, HideBelow: table.BreakpointMD},
				{ID: "total", Header: "Total", Width: 0.9, DefaultVisible: true, Sortable: true},
				{ID: "createdAt", Header: "Issued", Width: 1.1, DefaultVisible: true, Sortable: true},
			},
			DefaultSort:     table.Sort{ColumnID: "createdAt", Direction: table.Desc},
			DefaultPageSize: 25,
			PageSizes:       pageSizes,
		},
		Renderers: table.Renderers[dto.InvoiceDTO]{
			"number":        func(i dto.InvoiceDTO) table.Content { return copyable(i.Number) },
			"period":        func(i dto.InvoiceDTO) table.Content { return text(i.PeriodStart + " - " + i.PeriodEnd) },
			"shipmentCount": func(i dto.InvoiceDTO) table.Content { return text(strconv.Itoa(i.ShipmentCount)) },
			"subtotal":      func(i dto.InvoiceDTO) table.Content { return text(money(i.Subtotal)) },
			"tax":           func(i dto.InvoiceDTO) table.Content { return text(money(i.Tax)) },
			"total":         func(i dto.InvoiceDTO) table.Content { return text(money(i.Total)) },
			"createdAt":     func(i dto.InvoiceDTO) table.Content { return text(i.CreatedAt.Format(timeLayout)) },
		},
	}
}

// ConfigFor configuración de tabla por nombre de entidad (incluye las familias).
func ConfigFor(name string) (table.Config, bool) {
	switch name {
	case EntityShipments:
		return ShipmentsTable().Config, true
	case EntityUndelivered:
		return UndeliveredTable().Config, true
	case EntityInvoices:
		return InvoicesTable().Config, true
	}
	if fam, ok := entity.ParseFamily(name); ok {
		return TransactionsTable(fam).Config, true
	}
	return table.Config{}, false
}

// ── helpers ───────────────────────────────────────────────────────────────────

func text(s string) table.Content { return table.Content{Text: s} }

// copyable celda con botón de copiar.
func copyable(s string) table.Content {
	return table.Content{Text: s, Interactive: s != ""}
}

func timestamp(t *time.Time) table.Content {
	if t == nil {
		return table.Content{}
	}
	return text(t.Format(timeLayout))
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func destination(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case state != "":
		return state
	default:
		return city
	}
}
