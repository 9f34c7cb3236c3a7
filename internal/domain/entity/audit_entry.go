package entity

import (
	"encoding/json"
	"time"
)

// AuditEntry es un registro de la bitácora de acciones (tabla logs).
// Append-only: nunca se actualiza ni se borra. El ID secuencial desempata
// entradas con el mismo timestamp por orden de inserción.
type AuditEntry struct {
	ID        int64
	Username  string
	Action    string
	Details   json.RawMessage
	Timestamp time.Time
}
