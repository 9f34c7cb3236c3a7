package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/application/dto"
)

// LogHandler consulta de la bitácora de acciones (solo admin).
type LogHandler struct {
	trail *audit.Trail
}

// NewLogHandler construye el handler.
func NewLogHandler(trail *audit.Trail) *LogHandler {
	return &LogHandler{trail: trail}
}

// List godoc
// @Summary      Listar bitácora (últimas 100 entradas, más recientes primero)
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de entradas (por defecto 100)"
// @Success      200    {array}  dto.LogEntryResponse
// @Router       /api/logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	entries, err := h.trail.List(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LogEntryResponse{
			ID:        e.ID,
			Username:  e.Username,
			Action:    e.Action,
			Details:   e.Details,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(out)
}
