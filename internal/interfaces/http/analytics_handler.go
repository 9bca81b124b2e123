package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
)

// AnalyticsService lo que el handler usa de *usecase.AnalyticsUseCase.
type AnalyticsService interface {
	ShipmentOverview(ctx context.Context, clientID string, req dto.AnalyticsRequest) (*dto.ShipmentOverviewDTO, error)
	ShipmentDimension(ctx context.Context, clientID, dimension string, req dto.AnalyticsRequest) (*dto.DimensionDTO, error)
	BillingBreakdown(ctx context.Context, clientID string, req dto.AnalyticsRequest) (*dto.BillingBreakdownDTO, error)
}

// AnalyticsHandler maneja los endpoints de analítica de envíos y facturación.
type AnalyticsHandler struct {
	uc AnalyticsService
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Overview godoc
// @Summary      Panel de envíos del período
// @Description  Costos, distribución por carrier, estado, zona, hora y día de la semana, serie diaria, tiempos de tránsito y desempeño por centro de fulfillment.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        clientId   query  string  false  "Cliente (obligatorio para admin/care)"
// @Param        startDate  query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        endDate    query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Param        carrier    query  string  false  "Carriers separados por coma"
// @Success      200  {object}  dto.ShipmentOverviewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/shipments [get]
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	var req dto.AnalyticsRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ShipmentOverview(c.Context(), ScopeClientID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Dimension godoc
// @Summary      Una dimensión del panel de envíos
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        dimension  path  string  true  "carrier | state | zone | hour | weekday | daily | transit | fc"
// @Success      200  {object}  dto.DimensionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/shipments/{dimension} [get]
func (h *AnalyticsHandler) Dimension(c *fiber.Ctx) error {
	var req dto.AnalyticsRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ShipmentDimension(c.Context(), ScopeClientID(c), c.Params("dimension"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Billing godoc
// @Summary      Desglose de facturación por familia y categoría
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BillingBreakdownDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/billing [get]
func (h *AnalyticsHandler) Billing(c *fiber.Ctx) error {
	var req dto.AnalyticsRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.BillingBreakdown(c.Context(), ScopeClientID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
