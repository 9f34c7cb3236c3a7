package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo.
// Stock solo se modifica a través del ledger de movimientos (transactions);
// el resto de campos vía CRUD de catálogo.
type Product struct {
	ID          string
	Name        string
	Stock       int // invariante: nunca negativo en estado confirmado
	Price       decimal.Decimal
	Category    string
	Description string
	Image       string
}
