// Package aggregate reduce registros planos de envíos y transacciones a filas resumen
// agrupadas (carrier, estado, zona, hora, día, categoría) para gráficos y tablas.
//
// Todas las funciones son puras: filtran por rango (días calendario inclusivos), agrupan,
// reducen y ordenan. Una entrada vacía produce un slice vacío no nil; los valores nulos
// se excluyen de los promedios. Cada llamada devuelve slices nuevos.
package aggregate

import (
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

// Range rango de días calendario, inclusivo en ambos extremos.
// La zona horaria de From define el "día" de cada registro.
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange normaliza ambos extremos al inicio de su día en loc (UTC si es nil).
func NewRange(from, to time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.UTC
	}
	return Range{From: startOfDay(from.In(loc)), To: startOfDay(to.In(loc))}
}

// Contains compara solo la fecha calendario de t contra [From, To].
func (r Range) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	d := startOfDay(t.In(r.From.Location()))
	return !d.Before(startOfDay(r.From)) && !d.After(startOfDay(r.To))
}

// Days cada día calendario del rango, en orden. Vacío si To < From.
func (r Range) Days() []time.Time {
	from, to := startOfDay(r.From), startOfDay(r.To)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FilterShipments envíos cuya fecha de orden cae en el rango.
func FilterShipments(records []*entity.Shipment, r Range) []*entity.Shipment {
	out := make([]*entity.Shipment, 0, len(records))
	for _, s := range records {
		if s != nil && r.Contains(s.OrderReceivedAt) {
			out = append(out, s)
		}
	}
	return out
}

// FilterTransactions transacciones cuya fecha cae en el rango.
func FilterTransactions(txs []*entity.BillingTransaction, r Range) []*entity.BillingTransaction {
	out := make([]*entity.BillingTransaction, 0, len(txs))
	for _, t := range txs {
		if t != nil && r.Contains(t.TransactionDate) {
			out = append(out, t)
		}
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
