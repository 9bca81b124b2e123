package dto

// ListResponse envelope de los listados paginados: { data, totalCount, carriers? }.
type ListResponse[T any] struct {
	Data       []T      `json:"data"`
	TotalCount int      `json:"totalCount"`
	Carriers   []string `json:"carriers,omitempty"` // solo listados de envíos
}

// PeriodDTO rango de fechas efectivo (YYYY-MM-DD, inclusivo).
type PeriodDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
