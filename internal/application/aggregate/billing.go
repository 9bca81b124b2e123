package aggregate

import (
	"sort"
	"strings"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Uncategorized categoría de transacciones sin tipo.
const Uncategorized = "Uncategorized"

// CategorySummary total por familia y categoría de cargo.
type CategorySummary struct {
	Family      entity.Family   `json:"family"`
	Category    string          `json:"category"`
	Count       int             `json:"count"`
	Percent     float64         `json:"percent"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func familyOrder(f entity.Family) int {
	for i, known := range entity.Families {
		if f == known {
			return i
		}
	}
	return len(entity.Families)
}

// ByBillingCategory agrupa por (familia, categoría). Orden: familia, monto desc, categoría.
// Los créditos suman con su signo negativo.
func ByBillingCategory(txs []*entity.BillingTransaction, r Range) []CategorySummary {
	filtered := FilterTransactions(txs, r)

	type key struct {
		family   entity.Family
		category string
	}
	groups := make(map[key]*CategorySummary)
	for _, t := range filtered {
		cat := strings.TrimSpace(t.Category)
		if cat == "" {
			cat = Uncategorized
		}
		k := key{t.Family, cat}
		row, ok := groups[k]
		if !ok {
			row = &CategorySummary{Family: t.Family, Category: cat}
			groups[k] = row
		}
		row.Count++
		row.TotalAmount = row.TotalAmount.Add(t.Amount)
	}

	out := make([]CategorySummary, 0, len(groups))
	for _, row := range groups {
		row.Percent = percent(row.Count, len(filtered))
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		fi, fj := familyOrder(out[i].Family), familyOrder(out[j].Family)
		if fi != fj {
			return fi < fj
		}
		if c := out[i].TotalAmount.Cmp(out[j].TotalAmount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
