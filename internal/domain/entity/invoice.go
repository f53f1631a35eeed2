package entity

import (
	"fmt"
	"time"
)

// InvoiceStatus estado de cobro de una factura.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// ParseInvoiceStatus convierte el string recibido en un estado válido.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	st := InvoiceStatus(s)
	switch st {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return st, nil
	}
	return "", fmt.Errorf("estado de factura desconocido: %q", s)
}

// CanMarkPaid indica si la factura admite registrar el pago.
func (s InvoiceStatus) CanMarkPaid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoiceOverdue:
		return true
	case InvoicePaid, InvoiceCancelled:
		return false
	}
	return false
}

// Invoice cabecera de factura con sus líneas.
// Solo las facturas paid cuentan como ingreso en el dashboard.
type Invoice struct {
	ID          string
	CompanyID   string
	CustomerID  string
	QuotationID string // vacío si no viene de una cotización
	Number      string // INV-YYYYMMDD-XXXXXXXX
	Subject     string
	Status      InvoiceStatus
	IssueDate   time.Time
	DueDate     *time.Time
	PaidAt      *time.Time
	Totals
	Notes     string
	CreatedBy string
	Items     []LineItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
