package sales

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
)

// SearchLimit resultados por tipo de entidad.
const SearchLimit = 10

// SearchUseCase búsqueda global dentro de la empresa.
type SearchUseCase struct {
	store repository.Store
}

// NewSearchUseCase construye el caso de uso.
func NewSearchUseCase(store repository.Store) *SearchUseCase {
	return &SearchUseCase{store: store}
}

// Search busca q en leads, clientes, productos, cotizaciones y facturas.
// Leads y clientes coinciden por nombre, email o empresa; productos por nombre,
// descripción o SKU; documentos por asunto o número.
func (uc *SearchUseCase) Search(ctx context.Context, scope tenant.Scope, q string) (*dto.SearchResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: q es requerido", domain.ErrInvalidInput)
	}
	var (
		leads      []*entity.Lead
		customers  []*entity.Customer
		products   []*entity.Product
		quotations []*entity.Quotation
		invoices   []*entity.Invoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		leads, _, err = uc.store.Leads.List(gctx, scope.CompanyID, repository.LeadFilter{Search: q, Limit: SearchLimit})
		return err
	})
	g.Go(func() (err error) {
		customers, _, err = uc.store.Customers.List(gctx, scope.CompanyID, q, SearchLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		products, _, err = uc.store.Products.List(gctx, scope.CompanyID, q, SearchLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		quotations, err = uc.store.Quotations.Search(gctx, scope.CompanyID, q, SearchLimit)
		return err
	})
	g.Go(func() (err error) {
		invoices, err = uc.store.Invoices.Search(gctx, scope.CompanyID, q, SearchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("búsqueda: %w", err)
	}

	out := &dto.SearchResponse{
		Query:      q,
		Leads:      make([]dto.LeadResponse, 0, len(leads)),
		Customers:  make([]dto.CustomerResponse, 0, len(customers)),
		Products:   make([]dto.ProductResponse, 0, len(products)),
		Quotations: make([]dto.QuotationResponse, 0, len(quotations)),
		Invoices:   make([]dto.InvoiceResponse, 0, len(invoices)),
	}
	for _, l := range leads {
		out.Leads = append(out.Leads, dto.ToLeadResponse(l))
	}
	for _, c := range customers {
		out.Customers = append(out.Customers, dto.ToCustomerResponse(c))
	}
	for _, p := range products {
		out.Products = append(out.Products, dto.ToProductResponse(p))
	}
	for _, qt := range quotations {
		out.Quotations = append(out.Quotations, dto.ToQuotationResponse(qt))
	}
	for _, inv := range invoices {
		out.Invoices = append(out.Invoices, dto.ToInvoiceResponse(inv))
	}
	return out, nil
}
