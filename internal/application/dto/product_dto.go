package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest alta o edición de un producto.
type ProductRequest struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	TaxRate     decimal.Decimal  `json:"tax_rate"`
	Unit        string           `json:"unit"`
	IsActive    *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string           `json:"id"`
	SKU         string           `json:"sku,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	TaxRate     decimal.Decimal  `json:"tax_rate"`
	Unit        string           `json:"unit,omitempty"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination Pagination        `json:"pagination"`
}
