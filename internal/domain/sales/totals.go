// Package sales contiene el cálculo puro de totales y numeración de documentos comerciales.
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// LineAmounts desglose de una línea.
type LineAmounts struct {
	Gross    decimal.Decimal // cantidad x precio
	Discount decimal.Decimal
	Net      decimal.Decimal // gross - discount
	Tax      decimal.Decimal
	Total    decimal.Decimal // net + tax
}

// ComputeLine calcula el desglose de una línea. Redondeo a 2 decimales por componente.
func ComputeLine(item entity.LineItem) LineAmounts {
	gross := item.Quantity.Mul(item.UnitPrice).Round(2)
	discount := gross.Mul(item.DiscountPercent).Div(hundred).Round(2)
	net := gross.Sub(discount)
	tax := net.Mul(item.TaxPercent).Div(hundred).Round(2)
	return LineAmounts{
		Gross:    gross,
		Discount: discount,
		Net:      net,
		Tax:      tax,
		Total:    net.Add(tax),
	}
}

// Recompute recalcula LineTotal de cada línea (in place) y devuelve los totales de cabecera.
// Subtotal es la suma de netos; Total = Subtotal + TaxAmount = suma de LineTotal.
func Recompute(items []entity.LineItem) entity.Totals {
	t := entity.Totals{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		Total:          decimal.Zero,
	}
	for i := range items {
		a := ComputeLine(items[i])
		items[i].LineTotal = a.Total
		items[i].Position = i + 1
		t.Subtotal = t.Subtotal.Add(a.Net)
		t.DiscountAmount = t.DiscountAmount.Add(a.Discount)
		t.TaxAmount = t.TaxAmount.Add(a.Tax)
		t.Total = t.Total.Add(a.Total)
	}
	return t
}

// Consistent indica si los totales de cabecera coinciden con la suma de las líneas.
func Consistent(t entity.Totals, items []entity.LineItem) bool {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(ComputeLine(it).Total)
	}
	return sum.Equal(t.Total)
}

// ValidateItems verifica cantidades y porcentajes de las líneas.
func ValidateItems(items []entity.LineItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return false
		}
		if it.DiscountPercent.IsNegative() || it.DiscountPercent.GreaterThan(hundred) {
			return false
		}
		if it.TaxPercent.IsNegative() || it.TaxPercent.GreaterThan(hundred) {
			return false
		}
	}
	return true
}
