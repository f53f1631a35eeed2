package sales

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(qty, price, disc, tax string) entity.LineItem {
	return entity.LineItem{
		Quantity:        d(qty),
		UnitPrice:       d(price),
		DiscountPercent: d(disc),
		TaxPercent:      d(tax),
	}
}

func TestRecompute_SinImpuestoNiDescuento(t *testing.T) {
	items := []entity.LineItem{line("2", "10", "0", "0"), line("1", "5", "0", "0")}

	totals := Recompute(items)

	assert.True(t, totals.Subtotal.Equal(d("25")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.Equal(d("25")))
	assert.True(t, items[0].LineTotal.Equal(d("20")))
	assert.True(t, items[1].LineTotal.Equal(d("5")))
	assert.Equal(t, 1, items[0].Position)
	assert.Equal(t, 2, items[1].Position)
}

func TestRecompute_ConDescuentoEImpuesto(t *testing.T) {
	// 3 x 100 = 300; -10% = 270; +19% = 51.30; total 321.30
	items := []entity.LineItem{line("3", "100", "10", "19")}

	totals := Recompute(items)

	assert.True(t, totals.Subtotal.Equal(d("270")))
	assert.True(t, totals.DiscountAmount.Equal(d("30")))
	assert.True(t, totals.TaxAmount.Equal(d("51.3")))
	assert.True(t, totals.Total.Equal(d("321.3")))
}

func TestConsistent_DetectaCabeceraDesactualizada(t *testing.T) {
	items := []entity.LineItem{line("2", "10", "0", "0"), line("1", "5", "0", "0")}
	totals := Recompute(items)
	require.True(t, Consistent(totals, items))

	items[0].Quantity = d("3")
	assert.False(t, Consistent(totals, items), "cambiar una línea sin recalcular deja la cabecera inconsistente")
}

func TestValidateItems(t *testing.T) {
	cases := []struct {
		name  string
		items []entity.LineItem
		ok    bool
	}{
		{"vacío", nil, false},
		{"válido", []entity.LineItem{line("1", "5", "0", "19")}, true},
		{"cantidad cero", []entity.LineItem{line("0", "5", "0", "0")}, false},
		{"precio negativo", []entity.LineItem{line("1", "-5", "0", "0")}, false},
		{"descuento > 100", []entity.LineItem{line("1", "5", "101", "0")}, false},
		{"impuesto negativo", []entity.LineItem{line("1", "5", "0", "-1")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, ValidateItems(tc.items))
		})
	}
}

func TestDocumentNumber_Formato(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^QT-20261018-[0-9A-F]{8}$`)

	a := DocumentNumber(QuotationPrefix, now)
	b := DocumentNumber(QuotationPrefix, now)

	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^INV-20261018-`, DocumentNumber(InvoicePrefix, now))
}
