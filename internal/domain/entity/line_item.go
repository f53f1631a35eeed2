package entity

import "github.com/shopspring/decimal"

// LineItem línea de una cotización o factura. LineTotal es derivado (ver domain/sales).
type LineItem struct {
	ID              string
	DocumentID      string // quotation_id o invoice_id según la tabla
	ProductID       string // vacío para líneas libres
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	LineTotal       decimal.Decimal
	Position        int
}

// Totals cabecera monetaria de un documento.
type Totals struct {
	Subtotal       decimal.Decimal // suma de netos (después de descuento, antes de impuesto)
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}
