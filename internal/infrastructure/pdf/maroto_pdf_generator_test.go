package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

func TestGenerate_CotizacionProducePDF(t *testing.T) {
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	doc := billing.Document{
		Kind:      billing.KindQuotation,
		Number:    "QT-20260301-0A1B2C3D",
		Subject:   "Licencias",
		Status:    "draft",
		IssueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   &due,
		Company:   &entity.Company{Name: "Acme"},
		Customer:  &entity.Customer{FirstName: "Ana", LastName: "Pérez"},
		Items: []entity.LineItem{{
			Description: "Licencia", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100),
			TaxPercent: decimal.NewFromInt(19), LineTotal: decimal.NewFromInt(238),
		}},
		Totals: entity.Totals{Subtotal: decimal.NewFromInt(200), TaxAmount: decimal.NewFromInt(38), Total: decimal.NewFromInt(238)},
		Notes:  "Pago a 30 días",
	}

	out, err := NewMarotoPDFGenerator().Generate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_SinClienteFalla(t *testing.T) {
	_, err := NewMarotoPDFGenerator().Generate(context.Background(), billing.Document{
		Kind: billing.KindInvoice, Company: &entity.Company{Name: "Acme"},
	})
	assert.Error(t, err)
}

func TestMoney_FormatoLocal(t *testing.T) {
	g := NewMarotoPDFGenerator()
	s := g.money(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasPrefix(s, "$"), s)
	assert.True(t, strings.HasSuffix(s, "50"), s)
}
