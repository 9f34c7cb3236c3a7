package inventory

import (
	"context"

	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger de stock:
// o se aplican el ajuste y el movimiento, o ninguno de los dos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error) error
}
