package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blockbyjamez/stockroom-api/internal/application/analytics"
	"github.com/blockbyjamez/stockroom-api/internal/application/dto"
)

// DashboardHandler agregados del tablero de inicio.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del tablero (catálogo, stock total, actividad del día)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	s, err := h.uc.Summary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.DashboardSummaryResponse{
		ProductCount:  s.ProductCount,
		TotalStock:    s.TotalStock,
		TodayTxnCount: s.TodayTxnCount,
		TodayStockIn:  s.TodayStockIn,
		TodayStockOut: s.TodayStockOut,
	})
}
