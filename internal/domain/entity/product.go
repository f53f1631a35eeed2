package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product ítem del catálogo que referencian las líneas de cotizaciones y facturas.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	UnitPrice   decimal.Decimal     // precio de venta
	CostPrice   decimal.NullDecimal // opcional
	TaxRate     decimal.Decimal     // porcentaje, ej. 19 = 19%
	Unit        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Margin margen unitario; cero si no hay costo registrado.
func (p *Product) Margin() decimal.Decimal {
	if !p.CostPrice.Valid {
		return decimal.Zero
	}
	return p.UnitPrice.Sub(p.CostPrice.Decimal)
}
