package dto

import "github.com/shopspring/decimal"

// ProductRequest alta o edición de un producto del catálogo.
// Stock solo se respeta en el alta; en ediciones el stock vigente se preserva.
type ProductRequest struct {
	Name        string          `json:"name"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}
