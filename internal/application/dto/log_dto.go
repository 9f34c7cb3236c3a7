package dto

import (
	"encoding/json"
	"time"
)

// LogEntryResponse entrada de la bitácora de acciones.
type LogEntryResponse struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details"`
	Timestamp time.Time       `json:"timestamp"`
}
