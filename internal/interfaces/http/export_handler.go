package http

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/application/export"
	"github.com/jhoicas/shipdash-api/internal/domain"
)

// Exporter lo que el handler usa de *export.UseCase.
type Exporter interface {
	Export(ctx context.Context, clientID string, req export.Request, out io.Writer, progress export.Progress) (export.Result, error)
}

// ExportHandler exportación CSV/XLSX de los listados y configuración de sus tablas.
type ExportHandler struct {
	uc Exporter
}

// NewExportHandler construye el handler.
func NewExportHandler(uc Exporter) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar un listado
// @Description  scope=page exporta la página pedida (limit/offset); scope=all recorre todo el resultado en lotes. Acepta los mismos filtros que el listado de la entidad.
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        entity   path   string  true   "shipments | undelivered | invoices | <familia de transacciones>"
// @Param        format   query  string  false  "csv | xlsx"
// @Param        scope    query  string  false  "page | all"
// @Param        columns  query  string  false  "ids de columna separados por coma"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/exports/{entity} [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	var q dto.ExportRequest
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	req := export.Request{Entity: c.Params("entity"), Format: q.Format, Scope: q.Scope, Columns: q.Columns}

	var filters any
	switch req.Entity {
	case export.EntityShipments, export.EntityUndelivered:
		filters = &req.Shipments
	case export.EntityInvoices:
		filters = &req.Invoices
	default:
		filters = &req.Transactions
	}
	if err := bindQuery(c, filters); err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	res, err := h.uc.Export(c.Context(), ScopeClientID(c), req, &buf, nil)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Set("X-Export-Rows", fmt.Sprint(res.Rows))
	return c.Send(buf.Bytes())
}

// Table godoc
// @Summary      Configuración de columnas de una tabla predefinida
// @Tags         exports
// @Security     Bearer
// @Produce      json
// @Param        entity  path  string  true  "shipments | undelivered | invoices | <familia>"
// @Success      200  {object}  dto.TableConfigDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tables/{entity} [get]
func (h *ExportHandler) Table(c *fiber.Ctx) error {
	cfg, ok := export.ConfigFor(c.Params("entity"))
	if !ok {
		return respondError(c, domain.ErrNotFound)
	}
	out := dto.TableConfigDTO{
		Entity:          cfg.Entity,
		Columns:         make([]dto.TableColumnDTO, 0, len(cfg.Columns)),
		DefaultSort:     cfg.DefaultSort.ColumnID,
		DefaultSortDir:  string(cfg.DefaultSort.Direction),
		DefaultPageSize: cfg.DefaultPageSize,
		PageSizes:       cfg.PageSizes,
	}
	if cfg.Prefix != nil {
		out.PrefixWidthPx = cfg.Prefix.WidthPx
	}
	for _, col := range cfg.Columns {
		out.Columns = append(out.Columns, dto.TableColumnDTO{
			ID:             col.ID,
			Header:         col.Header,
			Width:          col.Width,
			DefaultVisible: col.DefaultVisible,
			Sortable:       col.Sortable,
			HideBelow:      int(col.HideBelow),
			SortField:      col.Field(),
		})
	}
	return c.JSON(out)
}
