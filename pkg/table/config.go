// Package table modelo genérico de tabla dirigido por configuración: columnas con ancho,
// visibilidad, orden y ocultamiento responsivo; paginación y orden delegados al servidor.
package table

import (
	"errors"
	"fmt"
)

// Placeholder contenido de una celda sin renderer.
const Placeholder = "-"

// Breakpoint ancho mínimo de viewport (px) para mostrar una columna.
type Breakpoint int

const (
	BreakpointNone Breakpoint = 0
	BreakpointSM   Breakpoint = 640
	BreakpointMD   Breakpoint = 768
	BreakpointLG   Breakpoint = 1024
	BreakpointXL   Breakpoint = 1280
)

// Direction dirección de orden.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection acepta "asc"/"desc"; cualquier otro valor es inválido.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	}
	return "", fmt.Errorf("dirección de orden inválida: %q", s)
}

// Sort columna y dirección activas.
type Sort struct {
	ColumnID  string
	Direction Direction
}

// Column definición declarativa de una columna.
type Column struct {
	ID             string
	Header         string
	Width          float64 // relativo; se normaliza a porcentaje entre las visibles
	DefaultVisible bool
	Sortable       bool
	HideBelow      Breakpoint
	SortField      string // campo enviado al servidor; vacío = ID
}

// Field campo de orden que entiende la API.
func (c Column) Field() string {
	if c.SortField != "" {
		return c.SortField
	}
	return c.ID
}

// Prefix columna fija fuera de la configuración normal (p.ej. badge por fila).
type Prefix struct {
	Header  string
	WidthPx int
}

// Config tabla completa.
type Config struct {
	Entity          string
	Columns         []Column
	DefaultSort     Sort
	DefaultPageSize int
	PageSizes       []int
	Prefix          *Prefix
}

// Column busca una columna por id.
func (c Config) Column(id string) (Column, bool) {
	for _, col := range c.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// IDs ids de las columnas en el orden configurado.
func (c Config) IDs() []string {
	ids := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		ids[i] = col.ID
	}
	return ids
}

func (c Config) pageSizeAllowed(size int) bool {
	if len(c.PageSizes) == 0 {
		return size > 0
	}
	for _, s := range c.PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Validate ids únicos y no vacíos, anchos positivos, orden por defecto sobre columna ordenable
// y tamaño de página por defecto permitido.
func Validate(cfg Config) error {
	if len(cfg.Columns) == 0 {
		return errors.New("table: sin columnas")
	}
	seen := make(map[string]bool, len(cfg.Columns))
	for _, col := range cfg.Columns {
		if col.ID == "" {
			return errors.New("table: columna sin id")
		}
		if seen[col.ID] {
			return fmt.Errorf("table: columna duplicada %q", col.ID)
		}
		seen[col.ID] = true
		if col.Width <= 0 {
			return fmt.Errorf("table: ancho inválido en %q", col.ID)
		}
	}
	if cfg.DefaultSort.ColumnID != "" {
		col, ok := cfg.Column(cfg.DefaultSort.ColumnID)
		if !ok || !col.Sortable {
			return fmt.Errorf("table: orden por defecto sobre columna no ordenable %q", cfg.DefaultSort.ColumnID)
		}
		if _, err := ParseDirection(string(cfg.DefaultSort.Direction)); err != nil {
			return fmt.Errorf("table: %w", err)
		}
	}
	if cfg.DefaultPageSize <= 0 || !cfg.pageSizeAllowed(cfg.DefaultPageSize) {
		return fmt.Errorf("table: tamaño de página por defecto inválido %d", cfg.DefaultPageSize)
	}
	if cfg.Prefix != nil && cfg.Prefix.WidthPx <= 0 {
		return errors.New("table: columna prefijo sin ancho")
	}
	return nil
}
