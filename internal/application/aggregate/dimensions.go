package aggregate

import (
	"sort"
	"strings"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/geo"
	"github.com/shopspring/decimal"
)

// UnknownCarrier agrupa envíos sin carrier.
const UnknownCarrier = "Unknown"

// CarrierSummary fila por carrier.
type CarrierSummary struct {
	Carrier        string              `json:"carrier"`
	OrderCount     int                 `json:"orderCount"`
	Percent        float64             `json:"percent"`
	TotalCost      decimal.Decimal     `json:"totalCost"`
	AvgCost        decimal.NullDecimal `json:"avgCost"`
	AvgTransitDays *float64            `json:"avgTransitDays"`
	DeliveredCount int                 `json:"deliveredCount"`
}

// StateSummary fila del mapa de desempeño por estado.
type StateSummary struct {
	State          string              `json:"state"`
	StateName      string              `json:"stateName"`
	OrderCount     int                 `json:"orderCount"`
	Percent        float64             `json:"percent"`
	TotalCost      decimal.Decimal     `json:"totalCost"`
	AvgCost        decimal.NullDecimal `json:"avgCost"`
	AvgTransitDays *float64            `json:"avgTransitDays"`
}

// ZoneSummary fila por zona (0 = desconocida).
type ZoneSummary struct {
	Zone           int                 `json:"zone"`
	OrderCount     int                 `json:"orderCount"`
	Percent        float64             `json:"percent"`
	TotalCost      decimal.Decimal     `json:"totalCost"`
	AvgCost        decimal.NullDecimal `json:"avgCost"`
	AvgTransitDays *float64            `json:"avgTransitDays"`
}

// CostTotals totales de costo del período.
type CostTotals struct {
	OrderCount  int                 `json:"orderCount"`
	CostedCount int                 `json:"costedCount"`
	TotalCost   decimal.Decimal     `json:"totalCost"`
	AvgCost     decimal.NullDecimal `json:"avgCost"`
}

// ByCarrier agrupa por carrier, ordenado por cantidad desc y nombre.
func ByCarrier(records []*entity.Shipment, r Range) []CarrierSummary {
	filtered := FilterShipments(records, r)
	groups, order := group(filtered, func(s *entity.Shipment) string {
		if c := strings.TrimSpace(s.Carrier); c != "" {
			return c
		}
		return UnknownCarrier
	})

	out := make([]CarrierSummary, 0, len(order))
	for _, k := range order {
		a := groups[k]
		out = append(out, CarrierSummary{
			Carrier:        k,
			OrderCount:     a.count,
			Percent:        percent(a.count, len(filtered)),
			TotalCost:      a.costSum,
			AvgCost:        a.avgCost(),
			AvgTransitDays: a.avgTransit(),
			DeliveredCount: a.delivered,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].Carrier < out[j].Carrier
	})
	return out
}

// ByState agrupa por estado de destino normalizado; destinos inválidos van a geo.UnknownState.
func ByState(records []*entity.Shipment, r Range) []StateSummary {
	filtered := FilterShipments(records, r)
	groups, order := group(filtered, func(s *entity.Shipment) string {
		return geo.NormalizeState(s.DestinationState)
	})

	out := make([]StateSummary, 0, len(order))
	for _, k := range order {
		a := groups[k]
		out = append(out, StateSummary{
			State:          k,
			StateName:      geo.StateName(k),
			OrderCount:     a.count,
			Percent:        percent(a.count, len(filtered)),
			TotalCost:      a.costSum,
			AvgCost:        a.avgCost(),
			AvgTransitDays: a.avgTransit(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].State < out[j].State
	})
	return out
}

// ByZone agrupa por zona 1-8; fuera de rango cuenta como 0. Orden ascendente por zona.
func ByZone(records []*entity.Shipment, r Range) []ZoneSummary {
	filtered := FilterShipments(records, r)
	groups, order := group(filtered, func(s *entity.Shipment) int {
		if s.Zone >= 1 && s.Zone <= 8 {
			return s.Zone
		}
		return 0
	})

	out := make([]ZoneSummary, 0, len(order))
	for _, k := range order {
		a := groups[k]
		out = append(out, ZoneSummary{
			Zone:           k,
			OrderCount:     a.count,
			Percent:        percent(a.count, len(filtered)),
			TotalCost:      a.costSum,
			AvgCost:        a.avgCost(),
			AvgTransitDays: a.avgTransit(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zone < out[j].Zone })
	return out
}

// Costs totales de costo; CostedCount cuenta solo los envíos tarifados.
func Costs(records []*entity.Shipment, r Range) CostTotals {
	a := &acc{}
	for _, s := range FilterShipments(records, r) {
		a.add(s)
	}
	return CostTotals{
		OrderCount:  a.count,
		CostedCount: a.costN,
		TotalCost:   a.costSum,
		AvgCost:     a.avgCost(),
	}
}
