package client

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/shipdash-api/pkg/table"
)

// ErrSuperseded la respuesta llegó cuando ya había una petición más nueva; no se aplicó.
var ErrSuperseded = errors.New("client: petición reemplazada por otra más reciente")

// Result último resultado aplicado.
type Result[T any] struct {
	Rows       []T
	TotalCount int
	Carriers   []string
	PageCount  int
	Loading    bool
	Err        error
	Generation uint64
}

// Fetcher estado de paginación, filtros y orden de una tabla contra un endpoint de listado.
// Cada Fetch abre una generación nueva y cancela la anterior; solo se aplica la respuesta
// de la generación vigente.
type Fetcher[T any] struct {
	client *Client
	path   string
	cfg    table.Config

	mu      sync.Mutex
	state   table.State
	filters ListQuery
	gen     uint64
	cancel  context.CancelFunc
	result  Result[T]
}

// NewFetcher filters son los filtros iniciales; su Limit/Offset/Sort se ignoran
// porque los fija el estado de la tabla.
func NewFetcher[T any](c *Client, path string, cfg table.Config, filters ListQuery) *Fetcher[T] {
	return &Fetcher[T]{
		client:  c,
		path:    path,
		cfg:     cfg,
		state:   table.NewState(cfg),
		filters: filters,
		result:  Result[T]{Rows: []T{}},
	}
}

// State copia del estado de la tabla.
func (f *Fetcher[T]) State() table.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result último resultado aplicado.
func (f *Fetcher[T]) Result() Result[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// SetFilters reemplaza los filtros y vuelve a la página 0.
func (f *Fetcher[T]) SetFilters(q ListQuery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = q
	f.state.PageIndex = 0
}

// ToggleSort clic en la cabecera de columnID.
func (f *Fetcher[T]) ToggleSort(columnID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.state.ToggleSort(f.cfg, columnID)
	return ok
}

// SetPage cambia de página o de tamaño de página.
func (f *Fetcher[T]) SetPage(index, size int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, _, err := f.state.SetPage(f.cfg, index, size)
	return err
}

// Query petición que corresponde al estado actual.
func (f *Fetcher[T]) Query() (ListQuery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryLocked()
}

func (f *Fetcher[T]) queryLocked() (ListQuery, error) {
	q := f.filters
	offset, limit, err := f.state.Window()
	if err != nil {
		return ListQuery{}, err
	}
	q.Offset, q.Limit = offset, limit
	q.SortField, q.SortDirection = "", ""
	if field, dir, ok := f.state.SortField(f.cfg); ok {
		q.SortField, q.SortDirection = field, string(dir)
	}
	return q, nil
}

// Fetch pide la página actual. Si mientras tanto empezó otra generación devuelve
// ErrSuperseded y no toca el resultado.
func (f *Fetcher[T]) Fetch(ctx context.Context) (Result[T], error) {
	f.mu.Lock()
	q, err := f.queryLocked()
	if err != nil {
		f.mu.Unlock()
		return Result[T]{}, err
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.result.Loading = true
	f.mu.Unlock()

	page, err := ListPage[T](reqCtx, f.client, f.path, q)

	f.mu.Lock()
	defer f.mu.Unlock()
	cancel()
	if gen != f.gen {
		return f.result, ErrSuperseded
	}
	f.cancel = nil
	f.result.Loading = false
	f.result.Generation = gen
	if err != nil {
		f.result.Err = err
		return f.result, err
	}
	f.result = Result[T]{
		Rows:       page.Data,
		TotalCount: page.TotalCount,
		Carriers:   page.Carriers,
		PageCount:  f.state.PageCount(page.TotalCount),
		Generation: gen,
	}
	return f.result, nil
}
