package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/sales"
)

// CopyPrefix prefijo del asunto de un documento duplicado.
const CopyPrefix = "Copy of "

// buildItems resuelve las líneas de la request contra el catálogo de la empresa.
// Sin unit_price o tax_percent se usan los del producto.
func buildItems(ctx context.Context, s repository.Store, companyID, documentID string, reqs []dto.LineItemRequest) ([]entity.LineItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una línea", domain.ErrInvalidInput)
	}
	items := make([]entity.LineItem, 0, len(reqs))
	for i, r := range reqs {
		it := entity.LineItem{
			ID:              uuid.New().String(),
			DocumentID:      documentID,
			ProductID:       r.ProductID,
			Description:     strings.TrimSpace(r.Description),
			Quantity:        r.Quantity,
			DiscountPercent: r.DiscountPercent,
			UnitPrice:       decimal.Zero,
			TaxPercent:      decimal.Zero,
			Position:        i + 1,
		}
		if r.ProductID != "" {
			p, err := s.Products.GetByID(ctx, companyID, r.ProductID)
			if err != nil {
				return nil, fmt.Errorf("línea %d: producto: %w", i+1, err)
			}
			if p == nil {
				return nil, fmt.Errorf("%w: línea %d: producto %s no existe", domain.ErrInvalidInput, i+1, r.ProductID)
			}
			if it.Description == "" {
				it.Description = p.Name
			}
			it.UnitPrice = p.UnitPrice
			it.TaxPercent = p.TaxRate
		} else if r.UnitPrice == nil || it.Description == "" {
			return nil, fmt.Errorf("%w: línea %d: sin producto se requieren description y unit_price", domain.ErrInvalidInput, i+1)
		}
		if r.UnitPrice != nil {
			it.UnitPrice = *r.UnitPrice
		}
		if r.TaxPercent != nil {
			it.TaxPercent = *r.TaxPercent
		}
		items = append(items, it)
	}
	if !sales.ValidateItems(items) {
		return nil, fmt.Errorf("%w: cantidades, precios o porcentajes fuera de rango", domain.ErrInvalidInput)
	}
	return items, nil
}

// cloneItems copia las líneas con ids nuevos para otro documento. LineTotal se conserva.
func cloneItems(items []entity.LineItem, documentID string) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, it := range items {
		it.ID = uuid.New().String()
		it.DocumentID = documentID
		out[i] = it
	}
	return out
}

func checkCustomer(ctx context.Context, s repository.Store, companyID, customerID string) (*entity.Customer, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer_id es requerido", domain.ErrInvalidInput)
	}
	c, err := s.Customers.GetByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: el cliente no pertenece a la empresa", domain.ErrInvalidInput)
	}
	return c, nil
}
