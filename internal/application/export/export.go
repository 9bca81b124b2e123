package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/jhoicas/shipdash-api/pkg/metrics"
	"github.com/jhoicas/shipdash-api/pkg/table"
)

// Formatos y alcances.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ScopePage = "page"
	ScopeAll  = "all"

	// BatchSize filas por consulta al exportar todo el resultado.
	BatchSize = 500
)

// Lister listados paginados (lo implementa usecase.ListingUseCase).
type Lister interface {
	ListShipments(ctx context.Context, clientID string, req dto.ShipmentListRequest, undelivered bool) (*dto.ListResponse[dto.ShipmentDTO], error)
	ListTransactions(ctx context.Context, clientID, family string, req dto.TransactionListRequest) (*dto.ListResponse[dto.TransactionDTO], error)
	ListInvoices(ctx context.Context, clientID string, req dto.InvoiceListRequest) (*dto.ListResponse[dto.InvoiceDTO], error)
}

// RowWriter destino tabular (CSV o XLSX). Close vuelca lo pendiente.
type RowWriter interface {
	WriteHeader(headers []string) error
	WriteRow(values []string) error
	Close() error
}

// XLSXFactory abre un RowWriter Excel sobre out con una hoja llamada sheet.
type XLSXFactory func(out io.Writer, sheet string) (RowWriter, error)

// Progress avance de una exportación: filas escritas sobre el total conocido.
type Progress func(done, total int)

// Request exportación pedida. Solo se usa el filtro de la entidad correspondiente.
type Request struct {
	Entity       string
	Format       string
	Scope        string
	Columns      string
	Shipments    dto.ShipmentListRequest
	Transactions dto.TransactionListRequest
	Invoices     dto.InvoiceListRequest
}

// Result metadatos del archivo generado.
type Result struct {
	Filename    string
	ContentType string
	Rows        int
}

// UseCase exporta los listados con las columnas de las tablas predefinidas.
type UseCase struct {
	lister Lister
	xlsx   XLSXFactory
	log    *logger.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(lister Lister, xlsx XLSXFactory, log *logger.Logger) *UseCase {
	return &UseCase{lister: lister, xlsx: xlsx, log: log, now: time.Now}
}

// Prepare valida la petición y devuelve los metadatos del archivo sin consultar datos,
// para que el handler fije las cabeceras antes de escribir el cuerpo.
func (uc *UseCase) Prepare(req Request) (Result, error) {
	format, _, err := normalize(req)
	if err != nil {
		return Result{}, err
	}
	if _, ok := ConfigFor(req.Entity); !ok {
		return Result{}, fmt.Errorf("entidad %q no exportable: %w", req.Entity, domain.ErrInvalidInput)
	}
	ct := "text/csv; charset=utf-8"
	if format == FormatXLSX {
		ct = contentTypeXLSX
	}
	name := fmt.Sprintf("%s-%s.%s", req.Entity, uc.now().Format("20060102-150405"), format)
	return Result{Filename: name, ContentType: ct}, nil
}

// Export escribe el archivo en out. progress puede ser nil.
func (uc *UseCase) Export(ctx context.Context, clientID string, req Request, out io.Writer, progress Progress) (Result, error) {
	res, err := uc.Prepare(req)
	if err != nil {
		return Result{}, err
	}
	format, scope, _ := normalize(req)

	w, err := uc.writer(out, format, req.Entity)
	if err != nil {
		return Result{}, err
	}
	if progress == nil {
		progress = func(done, total int) {
			uc.log.Debug().Str("entity", req.Entity).Int("done", done).Int("total", total).Msg("exportación en curso")
		}
	}
	columns := splitColumns(req.Columns)

	var n int
	switch req.Entity {
	case EntityShipments, EntityUndelivered:
		undelivered := req.Entity == EntityUndelivered
		preset := ShipmentsTable()
		if undelivered {
			preset = UndeliveredTable()
		}
		base := req.Shipments
		n, err = run(ctx, preset, columns, scope, base.Limit, base.Offset, w, progress,
			func(ctx context.Context, limit, offset int) ([]dto.ShipmentDTO, int, error) {
				r := base
				r.Limit, r.Offset = limit, offset
				resp, err := uc.lister.ListShipments(ctx, clientID, r, undelivered)
				if err != nil {
					return nil, 0, err
				}
				return resp.Data, resp.TotalCount, nil
			})
	case EntityInvoices:
		base := req.Invoices
		n, err = run(ctx, InvoicesTable(), columns, scope, base.Limit, base.Offset, w, progress,
			func(ctx context.Context, limit, offset int) ([]dto.InvoiceDTO, int, error) {
				r := base
				r.Limit, r.Offset = limit, offset
				resp, err := uc.lister.ListInvoices(ctx, clientID, r)
				if err != nil {
					return nil, 0, err
				}
				return resp.Data, resp.TotalCount, nil
			})
	default:
		fam, _ := entity.ParseFamily(req.Entity)
		base := req.Transactions
		n, err = run(ctx, TransactionsTable(fam), columns, scope, base.Limit, base.Offset, w, progress,
			func(ctx context.Context, limit, offset int) ([]dto.TransactionDTO, int, error) {
				r := base
				r.Limit, r.Offset = limit, offset
				resp, err := uc.lister.ListTransactions(ctx, clientID, string(fam), r)
				if err != nil {
					return nil, 0, err
				}
				return resp.Data, resp.TotalCount, nil
			})
	}
	if err != nil {
		_ = w.Close()
		return Result{}, err
	}
	if err := w.Close(); err != nil {
		return Result{}, fmt.Errorf("export: cerrar archivo: %w", err)
	}

	metrics.RecordExport(req.Entity, format, n)
	uc.log.Info().Str("entity", req.Entity).Str("format", format).Str("scope", scope).Int("rows", n).Msg("exportación completada")
	res.Rows = n
	return res, nil
}

func (uc *UseCase) writer(out io.Writer, format, sheet string) (RowWriter, error) {
	if format == FormatXLSX {
		if uc.xlsx == nil {
			return nil, fmt.Errorf("export: xlsx no configurado: %w", domain.ErrInvalidInput)
		}
		return uc.xlsx(out, sheet)
	}
	return newCSVWriter(out), nil
}

type fetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, int, error)

// run escribe cabecera y filas. scope=page exporta la ventana pedida; scope=all recorre
// el resultado completo en lotes de BatchSize desde el offset 0.
func run[T any](
	ctx context.Context,
	preset Preset[T],
	columns []string,
	scope string,
	limit, offset int,
	w RowWriter,
	progress Progress,
	fetch fetchFunc[T],
) (int, error) {
	state := stateFor(preset.Config, columns)
	header := table.Render(preset.Config, state, []T(nil), preset.Renderers, table.Options[T]{})
	titles := make([]string, len(header.Headers))
	for i, h := range header.Headers {
		titles[i] = h.Header
	}
	if err := w.WriteHeader(titles); err != nil {
		return 0, fmt.Errorf("export: cabecera: %w", err)
	}

	written := 0
	writeRows := func(rows []T) error {
		view := table.Render(preset.Config, state, rows, preset.Renderers, table.Options[T]{})
		for _, r := range view.Rows {
			values := make([]string, len(r.Cells))
			for i, c := range r.Cells {
				values[i] = c.Text
			}
			if err := w.WriteRow(values); err != nil {
				return fmt.Errorf("export: fila %d: %w", written+1, err)
			}
			written++
		}
		return nil
	}

	if scope == ScopePage {
		rows, total, err := fetch(ctx, limit, offset)
		if err != nil {
			return 0, err
		}
		if err := writeRows(rows); err != nil {
			return 0, err
		}
		progress(written, total)
		return written, nil
	}

	for off := 0; ; off += BatchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		rows, total, err := fetch(ctx, BatchSize, off)
		if err != nil {
			return written, err
		}
		if err := writeRows(rows); err != nil {
			return written, err
		}
		progress(written, total)
		if len(rows) < BatchSize || off+len(rows) >= total {
			return written, nil
		}
	}
}

// stateFor columnas pedidas en ese orden; ids desconocidos se ignoran. Sin ninguna válida
// se usan las visibles por defecto.
func stateFor(cfg table.Config, ids []string) table.State {
	state := table.NewState(cfg)
	var selected []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if _, ok := cfg.Column(id); ok && !seen[id] {
			selected = append(selected, id)
			seen[id] = true
		}
	}
	if len(selected) == 0 {
		return state
	}
	order := append([]string(nil), selected...)
	for _, id := range cfg.IDs() {
		if !seen[id] {
			order = append(order, id)
		}
	}
	_ = state.Reorder(cfg, order)
	for _, id := range cfg.IDs() {
		_ = state.SetHidden(cfg, id, !seen[id])
	}
	return state
}

func normalize(req Request) (format, scope string, err error) {
	format = strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return "", "", fmt.Errorf("formato %q no soportado: %w", req.Format, domain.ErrInvalidInput)
	}
	scope = strings.ToLower(strings.TrimSpace(req.Scope))
	if scope == "" {
		scope = ScopePage
	}
	if scope != ScopePage && scope != ScopeAll {
		return "", "", fmt.Errorf("alcance %q no soportado: %w", req.Scope, domain.ErrInvalidInput)
	}
	return format, scope, nil
}

func splitColumns(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// csvWriter RowWriter sobre encoding/csv.
type csvWriter struct {
	w *csv.Writer
}

func newCSVWriter(out io.Writer) *csvWriter {
	return &csvWriter{w: csv.NewWriter(out)}
}

func (c *csvWriter) WriteHeader(headers []string) error { return c.w.Write(headers) }
func (c *csvWriter) WriteRow(values []string) error     { return c.w.Write(values) }

func (c *csvWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}
