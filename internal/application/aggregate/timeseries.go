package aggregate

import (
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/shopspring/decimal"
)

// HourSummary órdenes recibidas por hora del día (0-23).
type HourSummary struct {
	Hour       int     `json:"hour"`
	OrderCount int     `json:"orderCount"`
	Percent    float64 `json:"percent"`
}

// DayOfWeekSummary órdenes por día de la semana (lunes primero).
type DayOfWeekSummary struct {
	Day        string              `json:"day"`
	DayIndex   int                 `json:"dayIndex"` // 0 = lunes
	OrderCount int                 `json:"orderCount"`
	Percent    float64             `json:"percent"`
	AvgCost    decimal.NullDecimal `json:"avgCost"`
}

// DailyPoint punto de la serie diaria.
type DailyPoint struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	OrderCount     int             `json:"orderCount"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	DeliveredCount int             `json:"deliveredCount"`
}

var weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// mondayIndex lunes=0 ... domingo=6.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// ByHourOfDay siempre 24 filas cuando hay datos; la hora se toma en la zona del rango.
func ByHourOfDay(records []*entity.Shipment, r Range) []HourSummary {
	filtered := FilterShipments(records, r)
	if len(filtered) == 0 {
		return []HourSummary{}
	}
	var counts [24]int
	loc := r.From.Location()
	for _, s := range filtered {
		counts[s.OrderReceivedAt.In(loc).Hour()]++
	}
	out := make([]HourSummary, 24)
	for h := range out {
		out[h] = HourSummary{Hour: h, OrderCount: counts[h], Percent: percent(counts[h], len(filtered))}
	}
	return out
}

// ByDayOfWeek siempre 7 filas cuando hay datos, de lunes a domingo.
func ByDayOfWeek(records []*entity.Shipment, r Range) []DayOfWeekSummary {
	filtered := FilterShipments(records, r)
	if len(filtered) == 0 {
		return []DayOfWeekSummary{}
	}
	var days [7]acc
	loc := r.From.Location()
	for _, s := range filtered {
		days[mondayIndex(s.OrderReceivedAt.In(loc).Weekday())].add(s)
	}
	out := make([]DayOfWeekSummary, 7)
	for i := range out {
		out[i] = DayOfWeekSummary{
			Day:        weekdays[i],
			DayIndex:   i,
			OrderCount: days[i].count,
			Percent:    percent(days[i].count, len(filtered)),
			AvgCost:    days[i].avgCost(),
		}
	}
	return out
}

// DailySeries un punto por día del rango, con huecos en cero. Vacío si ningún registro cae en el rango.
func DailySeries(records []*entity.Shipment, r Range) []DailyPoint {
	filtered := FilterShipments(records, r)
	if len(filtered) == 0 {
		return []DailyPoint{}
	}
	loc := r.From.Location()
	byDay := make(map[string]*DailyPoint)
	for _, s := range filtered {
		key := s.OrderReceivedAt.In(loc).Format(time.DateOnly)
		p, ok := byDay[key]
		if !ok {
			p = &DailyPoint{Date: key}
			byDay[key] = p
		}
		p.OrderCount++
		if s.Cost.Valid {
			p.TotalCost = p.TotalCost.Add(s.Cost.Decimal)
		}
		if s.Status == status.ShipmentDelivered {
			p.DeliveredCount++
		}
	}

	days := r.Days()
	out := make([]DailyPoint, 0, len(days))
	for _, d := range days {
		key := d.Format(time.DateOnly)
		if p, ok := byDay[key]; ok {
			out = append(out, *p)
			continue
		}
		out = append(out, DailyPoint{Date: key, TotalCost: decimal.Zero})
	}
	return out
}
