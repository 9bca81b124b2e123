package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
)

// ListingService lo que el handler usa de *usecase.ListingUseCase.
type ListingService interface {
	ListShipments(ctx context.Context, clientID string, req dto.ShipmentListRequest, undelivered bool) (*dto.ListResponse[dto.ShipmentDTO], error)
	ListTransactions(ctx context.Context, clientID, family string, req dto.TransactionListRequest) (*dto.ListResponse[dto.TransactionDTO], error)
	ListInvoices(ctx context.Context, clientID string, req dto.InvoiceListRequest) (*dto.ListResponse[dto.InvoiceDTO], error)
}

// ListingHandler listados paginados. El cliente llega resuelto por ResolveClient.
type ListingHandler struct {
	uc ListingService
}

// NewListingHandler construye el handler.
func NewListingHandler(uc ListingService) *ListingHandler {
	return &ListingHandler{uc: uc}
}

// Shipments godoc
// @Summary      Envíos paginados
// @Description  Filtros de selección múltiple separados por coma. carriers trae las opciones del filtro.
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        clientId       query  string  false  "Cliente (obligatorio para admin/care)"
// @Param        limit          query  int     false  "1-500, default 50"
// @Param        offset         query  int     false  "Desplazamiento"
// @Param        startDate      query  string  false  "YYYY-MM-DD inclusivo"
// @Param        endDate        query  string  false  "YYYY-MM-DD inclusivo"
// @Param        status         query  string  false  "delivered,in_transit,..."
// @Param        carrier        query  string  false  "UPS,FedEx,..."
// @Param        channel        query  string  false  "Canal de venta"
// @Param        search         query  string  false  "Orden, tracking o shipment id"
// @Param        sortField      query  string  false  "Campo de orden (lista blanca)"
// @Param        sortDirection  query  string  false  "asc | desc"
// @Success      200  {object}  dto.ListResponse[dto.ShipmentDTO]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/shipments [get]
func (h *ListingHandler) Shipments(c *fiber.Ctx) error {
	return h.shipments(c, false)
}

// Undelivered godoc
// @Summary      Envíos despachados sin entregar, con antigüedad
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        age  query  string  false  "0-2,3-5,6-10,11+"
// @Success      200  {object}  dto.ListResponse[dto.ShipmentDTO]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/shipments/undelivered [get]
func (h *ListingHandler) Undelivered(c *fiber.Ctx) error {
	return h.shipments(c, true)
}

func (h *ListingHandler) shipments(c *fiber.Ctx, undelivered bool) error {
	var req dto.ShipmentListRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListShipments(c.Context(), ScopeClientID(c), req, undelivered)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Transacciones de facturación de una familia
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        family  path   string  true   "additional_services | receiving | storage | credits | returns"
// @Param        type    query  string  false  "Categorías separadas por coma"
// @Param        status  query  string  false  "pending,invoiced,credited"
// @Success      200  {object}  dto.ListResponse[dto.TransactionDTO]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/{family} [get]
func (h *ListingHandler) Transactions(c *fiber.Ctx) error {
	var req dto.TransactionListRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListTransactions(c.Context(), ScopeClientID(c), c.Params("family"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Invoices godoc
// @Summary      Facturas del cliente
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.InvoiceDTO]
// @Router       /api/invoices [get]
func (h *ListingHandler) Invoices(c *fiber.Ctx) error {
	var req dto.InvoiceListRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListInvoices(c.Context(), ScopeClientID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
