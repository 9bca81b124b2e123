package table

import (
	"errors"
	"fmt"
)

// State estado de interacción de la tabla: orden de columnas, ocultas, orden y página.
type State struct {
	Order     []string
	Hidden    map[string]bool
	Sort      Sort
	PageIndex int
	PageSize  int
}

// NewState estado inicial según la configuración.
func NewState(cfg Config) State {
	hidden := make(map[string]bool)
	for _, col := range cfg.Columns {
		if !col.DefaultVisible {
			hidden[col.ID] = true
		}
	}
	return State{
		Order:    cfg.IDs(),
		Hidden:   hidden,
		Sort:     cfg.DefaultSort,
		PageSize: cfg.DefaultPageSize,
	}
}

// ToggleSort clic en la cabecera. Columna no ordenable: sin cambios y false.
// Columna nueva: descendente. Misma columna: invierte la dirección. Vuelve a la página 0.
func (s *State) ToggleSort(cfg Config, columnID string) (Sort, bool) {
	col, ok := cfg.Column(columnID)
	if !ok || !col.Sortable {
		return s.Sort, false
	}
	if s.Sort.ColumnID == columnID {
		if s.Sort.Direction == Desc {
			s.Sort.Direction = Asc
		} else {
			s.Sort.Direction = Desc
		}
	} else {
		s.Sort = Sort{ColumnID: columnID, Direction: Desc}
	}
	s.PageIndex = 0
	return s.Sort, true
}

// SortField campo y dirección para la API. ok=false si no hay orden activo.
func (s State) SortField(cfg Config) (field string, dir Direction, ok bool) {
	col, found := cfg.Column(s.Sort.ColumnID)
	if !found {
		return "", "", false
	}
	return col.Field(), s.Sort.Direction, true
}

// Reorder aplica el nuevo orden emitido por drag-and-drop; debe ser una permutación
// exacta de las columnas configuradas.
func (s *State) Reorder(cfg Config, order []string) error {
	if len(order) != len(cfg.Columns) {
		return fmt.Errorf("table: se esperaban %d columnas, llegaron %d", len(cfg.Columns), len(order))
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := cfg.Column(id); !ok {
			return fmt.Errorf("table: columna desconocida %q", id)
		}
		if seen[id] {
			return fmt.Errorf("table: columna repetida %q", id)
		}
		seen[id] = true
	}
	s.Order = append([]string(nil), order...)
	return nil
}

// SetHidden muestra u oculta una columna.
func (s *State) SetHidden(cfg Config, columnID string, hidden bool) error {
	if _, ok := cfg.Column(columnID); !ok {
		return fmt.Errorf("table: columna desconocida %q", columnID)
	}
	if s.Hidden == nil {
		s.Hidden = make(map[string]bool)
	}
	if hidden {
		s.Hidden[columnID] = true
	} else {
		delete(s.Hidden, columnID)
	}
	return nil
}

// SetPage cambia de página y devuelve la ventana (offset, limit) a pedir al servidor.
// Un cambio de tamaño vuelve a la página 0.
func (s *State) SetPage(cfg Config, index, size int) (offset, limit int, err error) {
	if index < 0 {
		return 0, 0, errors.New("table: índice de página negativo")
	}
	if !cfg.pageSizeAllowed(size) {
		return 0, 0, fmt.Errorf("table: tamaño de página no permitido %d", size)
	}
	if size != s.PageSize {
		index = 0
	}
	s.PageIndex, s.PageSize = index, size
	return s.Window()
}

// Window ventana de la página actual.
func (s State) Window() (offset, limit int, err error) {
	if s.PageSize <= 0 {
		return 0, 0, errors.New("table: tamaño de página no inicializado")
	}
	return s.PageIndex * s.PageSize, s.PageSize, nil
}

// PageCount páginas totales para totalCount filas.
func (s State) PageCount(totalCount int) int {
	if s.PageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + s.PageSize - 1) / s.PageSize
}

// VisibleColumns columnas en el orden del estado, no ocultas y permitidas por el viewport.
// viewportWidth <= 0 ignora los breakpoints.
func VisibleColumns(cfg Config, s State, viewportWidth int) []Column {
	order := s.Order
	if len(order) == 0 {
		order = cfg.IDs()
	}
	out := make([]Column, 0, len(order))
	for _, id := range order {
		col, ok := cfg.Column(id)
		if !ok || s.Hidden[id] {
			continue
		}
		if viewportWidth > 0 && viewportWidth < int(col.HideBelow) {
			continue
		}
		out = append(out, col)
	}
	return out
}
