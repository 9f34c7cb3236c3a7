package repository

import "github.com/blockbyjamez/stockroom-api/internal/domain/entity"

// MovementRepository puerto de persistencia para movimientos de stock
// (tabla transactions). Los movimientos son inmutables: solo insert y lectura.
type MovementRepository interface {
	Create(m *entity.StockMovement) error
	// ListWithProduct devuelve todos los movimientos con el nombre del
	// producto (join), ordenados por timestamp descendente.
	ListWithProduct() ([]*entity.StockMovement, error)
}
