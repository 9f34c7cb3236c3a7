package repository

import "github.com/blockbyjamez/stockroom-api/internal/domain/entity"

// AuditRepository puerto de persistencia para la bitácora (tabla logs).
// Append-only: insert y lectura, nunca update ni delete.
type AuditRepository interface {
	Insert(e *entity.AuditEntry) error
	// List devuelve las últimas entradas por timestamp descendente
	// (empates resueltos por orden de inserción).
	List(limit int) ([]*entity.AuditEntry, error)
}
