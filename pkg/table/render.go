package table

// DefaultSkeletonRows filas esqueleto mientras carga.
const DefaultSkeletonRows = 10

// Content salida de un renderer de celda.
// Interactive marca controles propios (p.ej. botón copiar): la celda detiene la propagación
// para que el clic no dispare el clic de la fila.
type Content struct {
	Text        string `json:"text"`
	Interactive bool   `json:"interactive,omitempty"`
}

// Renderers función de render por id de columna.
type Renderers[T any] map[string]func(row T) Content

// Options opciones de render.
type Options[T any] struct {
	Loading       bool
	SkeletonRows  int // 0 = DefaultSkeletonRows
	RowClickable  bool
	ViewportWidth int
	Prefix        func(row T) Content // requerido si la configuración declara Prefix
	RowKey        func(row T) string
}

// HeaderCell cabecera de una columna visible.
type HeaderCell struct {
	ColumnID     string    `json:"columnId"`
	Header       string    `json:"header"`
	WidthPercent float64   `json:"widthPercent"`
	Sortable     bool      `json:"sortable"`
	SortActive   Direction `json:"sortActive,omitempty"`
}

// Cell celda renderizada.
type Cell struct {
	ColumnID        string `json:"columnId"`
	Text            string `json:"text"`
	Placeholder     bool   `json:"placeholder,omitempty"`
	Interactive     bool   `json:"interactive,omitempty"`
	StopPropagation bool   `json:"stopPropagation,omitempty"`
}

// Row fila renderizada (o esqueleto).
type Row struct {
	Key       string `json:"key,omitempty"`
	Skeleton  bool   `json:"skeleton,omitempty"`
	Clickable bool   `json:"clickable,omitempty"`
	Prefix    *Cell  `json:"prefix,omitempty"`
	Cells     []Cell `json:"cells"`
}

// View tabla lista para presentar.
type View struct {
	Prefix  *Prefix      `json:"prefix,omitempty"`
	Headers []HeaderCell `json:"headers"`
	Rows    []Row        `json:"rows"`
	Empty   bool         `json:"empty"` // sin datos y sin carga en curso
}

// Render arma cabeceras y filas según la configuración y el estado.
// Con Loading se devuelven filas esqueleto de ancho completo en lugar de datos.
func Render[T any](cfg Config, s State, rows []T, renderers Renderers[T], opts Options[T]) View {
	cols := VisibleColumns(cfg, s, opts.ViewportWidth)

	var total float64
	for _, c := range cols {
		total += c.Width
	}
	headers := make([]HeaderCell, len(cols))
	for i, c := range cols {
		h := HeaderCell{ColumnID: c.ID, Header: c.Header, Sortable: c.Sortable}
		if total > 0 {
			h.WidthPercent = c.Width / total * 100
		}
		if c.Sortable && s.Sort.ColumnID == c.ID {
			h.SortActive = s.Sort.Direction
		}
		headers[i] = h
	}

	view := View{Prefix: cfg.Prefix, Headers: headers}

	if opts.Loading {
		n := opts.SkeletonRows
		if n <= 0 {
			n = DefaultSkeletonRows
		}
		view.Rows = make([]Row, n)
		for i := range view.Rows {
			cells := make([]Cell, len(cols))
			for j, c := range cols {
				cells[j] = Cell{ColumnID: c.ID}
			}
			view.Rows[i] = Row{Skeleton: true, Cells: cells}
			if cfg.Prefix != nil {
				view.Rows[i].Prefix = &Cell{}
			}
		}
		return view
	}

	view.Rows = make([]Row, 0, len(rows))
	for _, r := range rows {
		row := Row{Clickable: opts.RowClickable, Cells: make([]Cell, len(cols))}
		if opts.RowKey != nil {
			row.Key = opts.RowKey(r)
		}
		if cfg.Prefix != nil {
			p := Cell{Text: Placeholder, Placeholder: true}
			if opts.Prefix != nil {
				p = toCell("", opts.Prefix(r))
			}
			row.Prefix = &p
		}
		for j, c := range cols {
			fn, ok := renderers[c.ID]
			if !ok || fn == nil {
				row.Cells[j] = Cell{ColumnID: c.ID, Text: Placeholder, Placeholder: true}
				continue
			}
			row.Cells[j] = toCell(c.ID, fn(r))
		}
		view.Rows = append(view.Rows, row)
	}
	view.Empty = len(view.Rows) == 0
	return view
}

func toCell(columnID string, c Content) Cell {
	cell := Cell{ColumnID: columnID, Text: c.Text, Interactive: c.Interactive, StopPropagation: c.Interactive}
	if cell.Text == "" {
		cell.Text = Placeholder
		cell.Placeholder = true
	}
	return cell
}
