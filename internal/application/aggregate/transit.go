package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

// TransitStats distribución de días de tránsito de un carrier (box plot).
type TransitStats struct {
	Carrier string  `json:"carrier"`
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
}

// Percentile percentil por rango más cercano sobre valores ya ordenados:
// rank = ceil(p/100 * n); p <= 0 devuelve el primero. Slice vacío devuelve 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank > n {
		rank = n
	}
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// TransitDistribution estadísticos por carrier; carriers sin tránsito medible se omiten.
// Orden: cantidad desc, luego nombre.
func TransitDistribution(records []*entity.Shipment, r Range) []TransitStats {
	values := make(map[string][]float64)
	for _, s := range FilterShipments(records, r) {
		days, ok := s.TransitDays()
		if !ok {
			continue
		}
		carrier := strings.TrimSpace(s.Carrier)
		if carrier == "" {
			carrier = UnknownCarrier
		}
		values[carrier] = append(values[carrier], days)
	}

	out := make([]TransitStats, 0, len(values))
	for carrier, v := range values {
		sort.Float64s(v)
		var sum float64
		for _, d := range v {
			sum += d
		}
		out = append(out, TransitStats{
			Carrier: carrier,
			Count:   len(v),
			Min:     v[0],
			Q1:      Percentile(v, 25),
			Median:  Percentile(v, 50),
			Q3:      Percentile(v, 75),
			Max:     v[len(v)-1],
			Avg:     sum / float64(len(v)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Carrier < out[j].Carrier
	})
	return out
}
