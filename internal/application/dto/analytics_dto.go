package dto

import (
	"github.com/jhoicas/shipdash-api/internal/application/aggregate"
	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// AnalyticsRequest parámetros comunes de /api/analytics/*.
type AnalyticsRequest struct {
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"` // por defecto primer día del mes actual
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`   // por defecto hoy
	Carrier   string `query:"carrier" validate:"max=300"`
	Channel   string `query:"channel" validate:"max=300"`
	Status    string `query:"status" validate:"max=300"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// ShipmentOverviewDTO panel completo de analítica de envíos.
type ShipmentOverviewDTO struct {
	Period             PeriodDTO                            `json:"period"`
	Costs              aggregate.CostTotals                 `json:"costs"`
	ByCarrier          []aggregate.CarrierSummary           `json:"byCarrier"`
	ByState            []aggregate.StateSummary             `json:"byState"`
	ByZone             []aggregate.ZoneSummary              `json:"byZone"`
	ByHour             []aggregate.HourSummary              `json:"byHour"`
	ByWeekday          []aggregate.DayOfWeekSummary         `json:"byWeekday"`
	Daily              []aggregate.DailyPoint               `json:"daily"`
	Transit            []aggregate.TransitStats             `json:"transit"`
	FulfillmentCenters []aggregate.FulfillmentCenterSummary `json:"fulfillmentCenters"`
}

// DimensionDTO una sola dimensión: Rows es el slice de filas de aggregate.
type DimensionDTO struct {
	Period    PeriodDTO `json:"period"`
	Dimension string    `json:"dimension"`
	Rows      any       `json:"rows"`
}

// FamilyTotalDTO total de una familia de facturación.
type FamilyTotalDTO struct {
	Family string          `json:"family"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// BillingBreakdownDTO desglose de facturación: envíos + familias de cargos.
type BillingBreakdownDTO struct {
	Period       PeriodDTO                   `json:"period"`
	ShippingCost decimal.Decimal             `json:"shippingCost"`
	Families     []FamilyTotalDTO            `json:"families"`
	Categories   []aggregate.CategorySummary `json:"categories"`
	GrandTotal   decimal.Decimal             `json:"grandTotal"`
}
