package dto

import "time"

// CreateTransactionRequest registro de un movimiento de stock.
type CreateTransactionRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // in | out
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// TransactionResponse movimiento con el nombre del producto.
type TransactionResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
	Note        string    `json:"note,omitempty"`
	Operator    string    `json:"operator"`
}
