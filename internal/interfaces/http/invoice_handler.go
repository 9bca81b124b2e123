package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/pkg/jwt"
)

// InvoiceGenerator lo que el handler usa de *billing.GenerateInvoiceUseCase.
type InvoiceGenerator interface {
	Generate(ctx context.Context, in dto.GenerateInvoiceRequest) (*dto.InvoiceDTO, error)
}

// InvoiceFiles lo que el handler usa de *billing.InvoiceFilesUseCase.
type InvoiceFiles interface {
	Files(ctx context.Context, who jwt.Identity, number string) (*dto.InvoiceFilesDTO, error)
	Open(ctx context.Context, token string) (billing.Artifact, string, error)
}

// InvoiceHandler generación de facturas y descarga de sus archivos.
type InvoiceHandler struct {
	generator InvoiceGenerator
	files     InvoiceFiles
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(generator InvoiceGenerator, files InvoiceFiles) *InvoiceHandler {
	return &InvoiceHandler{generator: generator, files: files}
}

// Generate godoc
// @Summary      Generar la factura semanal de un cliente (solo admin)
// @Description  Factura los envíos sin facturar de [weekStart, weekStart+6]. Sin envíos pendientes responde 400 NO_UNINVOICED_SHIPMENTS y no crea la factura.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateInvoiceRequest  true  "weekStart, clientId"
// @Success      201   {object}  dto.InvoiceDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/generate [post]
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.generator.Generate(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Files godoc
// @Summary      URLs firmadas del PDF y el XLSX de una factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura (INV-000001)"
// @Success      200  {object}  dto.InvoiceFilesDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/files [get]
func (h *InvoiceHandler) Files(c *fiber.Ctx) error {
	out, err := h.files.Files(c.Context(), GetIdentity(c), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descarga de un archivo por URL firmada (público, protegido por el token)
// @Tags         invoices
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        token  path  string  true  "Token de la URL firmada"
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/files/{token} [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	a, filename, err := h.files.Open(c.Context(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, a.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.Send(a.Data)
}
