package aggregate

import (
	"sort"
	"strings"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

// UnknownFC agrupa envíos sin centro de origen.
const UnknownFC = "Unknown"

// FulfillmentCenterSummary desempeño de un centro de fulfillment contra el SLA de despacho.
type FulfillmentCenterSummary struct {
	FC                  string   `json:"fc"`
	OrderCount          int      `json:"orderCount"`
	Percent             float64  `json:"percent"`
	ShippedCount        int      `json:"shippedCount"` // con etiqueta creada
	OnTimeCount         int      `json:"onTimeCount"`
	OnTimePercent       float64  `json:"onTimePercent"` // sobre ShippedCount
	AvgFulfillmentHours *float64 `json:"avgFulfillmentHours"`
}

// ByFulfillmentCenter a tiempo = etiqueta creada dentro de slaHours desde la recepción.
func ByFulfillmentCenter(records []*entity.Shipment, r Range, slaHours int) []FulfillmentCenterSummary {
	filtered := FilterShipments(records, r)

	type fcAcc struct {
		count, shipped, onTime int
		hoursSum               float64
	}
	groups := make(map[string]*fcAcc)
	for _, s := range filtered {
		fc := strings.TrimSpace(s.OriginFC)
		if fc == "" {
			fc = UnknownFC
		}
		a, ok := groups[fc]
		if !ok {
			a = &fcAcc{}
			groups[fc] = a
		}
		a.count++
		if h, ok := s.FulfillmentHours(); ok {
			a.shipped++
			a.hoursSum += h
			if h <= float64(slaHours) {
				a.onTime++
			}
		}
	}

	out := make([]FulfillmentCenterSummary, 0, len(groups))
	for fc, a := range groups {
		row := FulfillmentCenterSummary{
			FC:            fc,
			OrderCount:    a.count,
			Percent:       percent(a.count, len(filtered)),
			ShippedCount:  a.shipped,
			OnTimeCount:   a.onTime,
			OnTimePercent: percent(a.onTime, a.shipped),
		}
		if a.shipped > 0 {
			avg := a.hoursSum / float64(a.shipped)
			row.AvgFulfillmentHours = &avg
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].FC < out[j].FC
	})
	return out
}
