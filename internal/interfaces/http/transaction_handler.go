package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/blockbyjamez/stockroom-api/internal/application/dto"
	"github.com/blockbyjamez/stockroom-api/internal/application/inventory"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
)

// TransactionHandler maneja los movimientos del ledger de stock.
type TransactionHandler struct {
	uc *inventory.LedgerUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *inventory.LedgerUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento de stock (entrada o salida)
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "Movimiento"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.ApplyMovement(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Note:      in.Note,
		Operator:  GetUsername(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, type (in|out) y quantity > 0 son requeridos"})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para la salida"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transaction_id": id})
}

// List godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	movements, err := h.uc.ListMovements(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.TransactionResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.TransactionResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			ProductName: m.ProductName,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Timestamp:   m.Timestamp,
			Note:        m.Note,
			Operator:    m.Operator,
		})
	}
	return c.JSON(out)
}
