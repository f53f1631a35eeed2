package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
)

// PDFUseCase genera el PDF de cotizaciones y facturas.
type PDFUseCase struct {
	store     repository.Store
	generator DocumentPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(store repository.Store, generator DocumentPDFGenerator) *PDFUseCase {
	return &PDFUseCase{store: store, generator: generator}
}

// QuotationPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) QuotationPDF(ctx context.Context, scope tenant.Scope, id string) ([]byte, string, error) {
	// ── 1. Cargar cotización ──────────────────────────────────────────────────
	q, err := uc.store.Quotations.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cotización: %w", err)
	}
	if q == nil {
		return nil, "", fmt.Errorf("cotización %s: %w", id, domain.ErrNotFound)
	}

	// ── 2. Empresa y cliente ──────────────────────────────────────────────────
	doc, err := uc.parties(ctx, scope.CompanyID, q.CustomerID)
	if err != nil {
		return nil, "", err
	}
	doc.Kind = KindQuotation
	doc.Number = q.Number
	doc.Subject = q.Subject
	doc.Status = string(q.Status)
	doc.IssueDate = q.CreatedAt
	doc.DueDate = q.ValidUntil
	doc.Items = q.Items
	doc.Totals = q.Totals
	doc.Notes = q.Notes

	// ── 3. Generar ────────────────────────────────────────────────────────────
	pdf, err := uc.generator.Generate(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("cotizacion_%s.pdf", q.Number), nil
}

// InvoicePDF devuelve los bytes del PDF de la factura y el nombre de archivo sugerido.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, scope tenant.Scope, id string) ([]byte, string, error) {
	inv, err := uc.store.Invoices.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
	}
	doc, err := uc.parties(ctx, scope.CompanyID, inv.CustomerID)
	if err != nil {
		return nil, "", err
	}
	doc.Kind = KindInvoice
	doc.Number = inv.Number
	doc.Subject = inv.Subject
	doc.Status = string(inv.Status)
	doc.IssueDate = inv.IssueDate
	doc.DueDate = inv.DueDate
	doc.Items = inv.Items
	doc.Totals = inv.Totals
	doc.Notes = inv.Notes

	pdf, err := uc.generator.Generate(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}

func (uc *PDFUseCase) parties(ctx context.Context, companyID, customerID string) (Document, error) {
	company, err := uc.store.Companies.GetByID(ctx, companyID)
	if err != nil || company == nil {
		return Document{}, fmt.Errorf("pdf: obtener empresa: %w", errOrNotFound(err))
	}
	customer, err := uc.store.Customers.GetByID(ctx, companyID, customerID)
	if err != nil || customer == nil {
		return Document{}, fmt.Errorf("pdf: obtener cliente: %w", errOrNotFound(err))
	}
	return Document{Company: company, Customer: customer}, nil
}

func errOrNotFound(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrNotFound
}
