package repository

import "github.com/blockbyjamez/stockroom-api/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
// GetForUpdate y UpdateStock solo tienen sentido dentro de una transacción
// (repos atados a la tx vía TxRunner); el resto es usable con el pool.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List() ([]*entity.Product, error)
	// Update actualiza los campos de catálogo. No toca stock: el stock solo
	// cambia a través del ledger de movimientos.
	Update(p *entity.Product) error
	Delete(id string) error

	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStock fija el stock del producto (dentro de la misma tx del lock).
	UpdateStock(id string, stock int) error
}
