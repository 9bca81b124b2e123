package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/shipdash-api/internal/application/aggregate"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
)

const (
	dateLayout       = "2006-01-02"
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// parsePeriod convierte "YYYY-MM-DD" opcionales en un rango de días inclusivo.
// Por defecto: primer día del mes actual hasta hoy.
func parsePeriod(startStr, endStr string, now time.Time) (aggregate.Range, error) {
	loc := now.Location()
	end := now
	if endStr != "" {
		t, err := time.ParseInLocation(dateLayout, endStr, loc)
		if err != nil {
			return aggregate.Range{}, fmt.Errorf("endDate inválido: %w", domain.ErrInvalidInput)
		}
		end = t
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	if startStr != "" {
		t, err := time.ParseInLocation(dateLayout, startStr, loc)
		if err != nil {
			return aggregate.Range{}, fmt.Errorf("startDate inválido: %w", domain.ErrInvalidInput)
		}
		start = t
	}

	r := aggregate.NewRange(start, end, loc)
	if r.From.After(r.To) {
		return aggregate.Range{}, fmt.Errorf("startDate no puede ser posterior a endDate: %w", domain.ErrInvalidInput)
	}
	return r, nil
}

// parseOptionalDates como parsePeriod pero sin valores por defecto (listados).
func parseOptionalDates(startStr, endStr string, loc *time.Location) (from, to *time.Time, err error) {
	if startStr != "" {
		t, err := time.ParseInLocation(dateLayout, startStr, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("startDate inválido: %w", domain.ErrInvalidInput)
		}
		from = &t
	}
	if endStr != "" {
		t, err := time.ParseInLocation(dateLayout, endStr, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("endDate inválido: %w", domain.ErrInvalidInput)
		}
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("startDate no puede ser posterior a endDate: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}

// splitList "a, b,,c" -> [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolvePage aplica límites: 0 => 50, máximo 500.
func resolvePage(limit, offset int) repository.Page {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

// resolveSort valida el campo contra la lista blanca; vacío => def.
func resolveSort(allowed []string, field, direction string, def repository.Sort) (repository.Sort, error) {
	if field == "" {
		if direction != "" {
			def.Desc = direction == "desc"
		}
		return def, nil
	}
	if !repository.SortAllowed(allowed, field) {
		return repository.Sort{}, fmt.Errorf("sortField %q no permitido: %w", field, domain.ErrInvalidInput)
	}
	// Sin dirección explícita se ordena descendente, igual que un clic en una columna nueva.
	return repository.Sort{Field: field, Desc: direction != "asc"}, nil
}
