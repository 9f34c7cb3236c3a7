package audit

import (
	"encoding/json"
	"fmt"

	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
	"github.com/blockbyjamez/stockroom-api/pkg/logger"
)

// Trail escribe la bitácora de acciones (tabla logs). La escritura es
// best-effort: un fallo al registrar nunca altera el resultado de la
// operación que acompaña.
type Trail struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewTrail construye la bitácora.
func NewTrail(repo repository.AuditRepository, log *logger.Logger) *Trail {
	return &Trail{repo: repo, log: log}
}

// Append persiste una entrada y devuelve el resultado best-effort.
// Los llamadores normales usan Record; Append existe para quien quiera
// observar el fallo sin propagarlo.
func (t *Trail) Append(username, action string, details any) error {
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("serializar detalles de bitácora: %w", err)
		}
		raw = b
	}
	entry := &entity.AuditEntry{
		Username: username,
		Action:   action,
		Details:  raw,
	}
	if err := t.repo.Insert(entry); err != nil {
		return fmt.Errorf("insertar entrada de bitácora: %w", err)
	}
	return nil
}

// Record registra una entrada tragándose cualquier fallo: solo lo deja en el log
// del proceso. Es la forma estándar de acompañar una operación ya confirmada.
func (t *Trail) Record(username, action string, details any) {
	if err := t.Append(username, action, details); err != nil {
		t.log.Error().Err(err).
			Str("username", username).
			Str("action", action).
			Msg("fallo al escribir bitácora (ignorado)")
	}
}

// List devuelve las últimas entradas, más recientes primero.
func (t *Trail) List(limit int) ([]*entity.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return t.repo.List(limit)
}
