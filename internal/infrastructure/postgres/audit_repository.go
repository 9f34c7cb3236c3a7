package postgres

import (
	"context"
	"fmt"

	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL (tabla logs).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de bitácora.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Insert persiste una entrada; el timestamp lo asigna el servidor de BD.
func (r *AuditRepo) Insert(e *entity.AuditEntry) error {
	query := `
		INSERT INTO logs (username, action, details, timestamp)
		VALUES ($1, $2, $3, now())`
	var details any
	if len(e.Details) > 0 {
		details = []byte(e.Details)
	}
	_, err := r.q.Exec(context.Background(), query, e.Username, e.Action, details)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// List devuelve las últimas entradas, más recientes primero; empates de
// timestamp se resuelven por orden de inserción (id secuencial).
func (r *AuditRepo) List(limit int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, username, action, COALESCE(details, 'null'::jsonb), timestamp
		FROM logs
		ORDER BY timestamp DESC, id DESC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
