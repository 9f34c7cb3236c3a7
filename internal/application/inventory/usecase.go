package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

// LedgerUseCase aplica movimientos de stock de forma transaccional con bloqueo
// de fila (SELECT FOR UPDATE) y Commit/Rollback. Cada movimiento confirmado
// corresponde 1:1 con un ajuste de stock; nunca queda estado parcial.
type LedgerUseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository // lecturas fuera de tx
	trail     *audit.Trail
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, movements repository.MovementRepository, trail *audit.Trail) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movements: movements, trail: trail}
}

// MovementInput entrada para aplicar un movimiento de stock.
type MovementInput struct {
	ProductID string
	Type      string // in | out
	Quantity  int    // > 0
	Operator  string
	Note      string
}

// ApplyMovement inicia una transacción, bloquea la fila del producto
// (SELECT FOR UPDATE), verifica la regla de no-negatividad para salidas,
// ajusta el stock e inserta el movimiento. Commit si todo ok, Rollback si algo
// falla. Reintentar la llamada completa es seguro: el alcance es todo-o-nada.
//
// La entrada de bitácora se escribe después del commit y es best-effort: su
// fallo nunca revierte el movimiento ni cambia la respuesta al llamador.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (string, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return "", domain.ErrInvalidInput
	}
	if in.Type != entity.MovementIn && in.Type != entity.MovementOut {
		return "", domain.ErrInvalidInput
	}

	movementID := uuid.New().String()
	var productName string

	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error {
		// Bloquea la fila del producto: llamadas concurrentes sobre el mismo
		// producto se serializan aquí; productos distintos no contienden.
		product, err := products.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		productName = product.Name

		newStock := product.Stock
		if in.Type == entity.MovementIn {
			newStock += in.Quantity
		} else {
			if product.Stock < in.Quantity {
				return domain.ErrInsufficientStock
			}
			newStock -= in.Quantity
		}

		if err := products.UpdateStock(product.ID, newStock); err != nil {
			return err
		}
		return movements.Create(&entity.StockMovement{
			ID:        movementID,
			ProductID: in.ProductID,
			Type:      in.Type,
			Quantity:  in.Quantity,
			Note:      in.Note,
			Operator:  in.Operator,
		})
	})
	if err != nil {
		return "", err
	}

	uc.trail.Record(in.Operator, "add_transaction", map[string]any{
		"product_id":   in.ProductID,
		"type":         in.Type,
		"quantity":     in.Quantity,
		"product_name": productName,
	})
	return movementID, nil
}

// ListMovements devuelve todos los movimientos con el nombre del producto,
// ordenados por timestamp descendente. Lectura pura, sin bloqueo.
func (uc *LedgerUseCase) ListMovements(ctx context.Context) ([]*entity.StockMovement, error) {
	_ = ctx
	return uc.movements.ListWithProduct()
}
