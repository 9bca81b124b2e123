package dto

// ExportRequest parámetros de GET /api/exports/:entity (más los filtros del listado).
type ExportRequest struct {
	Format  string `query:"format" validate:"omitempty,oneof=csv xlsx"` // por defecto csv
	Scope   string `query:"scope" validate:"omitempty,oneof=page all"`  // por defecto page
	Columns string `query:"columns" validate:"max=500"`                 // ids separados por coma; vacío = visibles por defecto
}

// TableColumnDTO columna de una tabla predefinida.
type TableColumnDTO struct {
	ID             string  `json:"id"`
	Header         string  `json:"header"`
	Width          float64 `json:"width"`
	DefaultVisible bool    `json:"defaultVisible"`
	Sortable       bool    `json:"sortable"`
	HideBelow      int     `json:"hideBelow,omitempty"` // px
	SortField      string  `json:"sortField"`
}

// TableConfigDTO configuración de tabla para GET /api/tables/:entity.
type TableConfigDTO struct {
	Entity          string           `json:"entity"`
	Columns         []TableColumnDTO `json:"columns"`
	DefaultSort     string           `json:"defaultSort"`
	DefaultSortDir  string           `json:"defaultSortDirection"`
	DefaultPageSize int              `json:"defaultPageSize"`
	PageSizes       []int            `json:"pageSizes"`
	PrefixWidthPx   int              `json:"prefixWidthPx,omitempty"`
}
