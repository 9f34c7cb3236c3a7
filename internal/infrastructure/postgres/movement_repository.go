package postgres

import (
	"context"
	"fmt"

	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL
// (tabla transactions; usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. El timestamp lo asigna el servidor de BD
// (now() de la transacción que confirma el movimiento).
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO transactions (id, product_id, type, quantity, note, operator, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Note, m.Operator,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListWithProduct devuelve todos los movimientos con el nombre del producto,
// ordenados por timestamp descendente.
func (r *MovementRepo) ListWithProduct() ([]*entity.StockMovement, error) {
	query := `
		SELECT t.id, t.product_id, t.type, t.quantity, t.timestamp,
		       COALESCE(t.note, ''), COALESCE(t.operator, ''), p.name
		FROM transactions t
		JOIN products p ON t.product_id = p.id
		ORDER BY t.timestamp DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Timestamp,
			&m.Note, &m.Operator, &m.ProductName); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
