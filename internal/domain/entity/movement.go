package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement es un movimiento de entrada o salida de stock.
// Inmutable una vez creado; cada movimiento confirmado corresponde 1:1 con un
// ajuste de stock del producto.
type StockMovement struct {
	ID        string
	ProductID string
	Type      string // in | out
	Quantity  int    // siempre > 0
	Timestamp time.Time
	Note      string
	Operator  string

	ProductName string // join con products en listados, no se persiste aquí
}
