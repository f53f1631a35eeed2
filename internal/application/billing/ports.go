package billing

import (
	"context"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// DocumentKind tipo de documento comercial a renderizar.
type DocumentKind string

const (
	KindQuotation DocumentKind = "quotation"
	KindInvoice   DocumentKind = "invoice"
)

// Document datos de una cotización o factura listos para el PDF.
type Document struct {
	Kind      DocumentKind
	Number    string
	Subject   string
	Status    string
	IssueDate time.Time
	// DueDate vencimiento de la factura o validez de la cotización.
	DueDate  *time.Time
	Company  *entity.Company
	Customer *entity.Customer
	Items    []entity.LineItem
	Totals   entity.Totals
	Notes    string
}

// StorageMeter mide los bytes almacenados por una empresa.
type StorageMeter interface {
	CompanyBytes(ctx context.Context, companyID string) (int64, error)
}

// DocumentPDFGenerator puerto de salida para la representación en PDF.
type DocumentPDFGenerator interface {
	Generate(ctx context.Context, doc Document) ([]byte, error)
}
