package aggregate

import (
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/shopspring/decimal"
)

// acc acumulador común de los agrupamientos de envíos.
type acc struct {
	count      int
	costSum    decimal.Decimal
	costN      int
	transitSum float64
	transitN   int
	delivered  int
}

func (a *acc) add(s *entity.Shipment) {
	a.count++
	if s.Cost.Valid {
		a.costSum = a.costSum.Add(s.Cost.Decimal)
		a.costN++
	}
	if days, ok := s.TransitDays(); ok {
		a.transitSum += days
		a.transitN++
	}
	if s.Status == status.ShipmentDelivered {
		a.delivered++
	}
}

// avgCost promedio de los costos no nulos, redondeado a 2 decimales; nulo si no hay ninguno.
func (a *acc) avgCost() decimal.NullDecimal {
	if a.costN == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.costSum.Div(decimal.NewFromInt(int64(a.costN))).Round(2))
}

func (a *acc) avgTransit() *float64 {
	if a.transitN == 0 {
		return nil
	}
	v := a.transitSum / float64(a.transitN)
	return &v
}

// group agrupa envíos ya filtrados por key, preservando el orden de primera aparición.
func group[K comparable](records []*entity.Shipment, key func(*entity.Shipment) K) (map[K]*acc, []K) {
	groups := make(map[K]*acc)
	var order []K
	for _, s := range records {
		k := key(s)
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
			order = append(order, k)
		}
		a.add(s)
	}
	return groups, order
}
