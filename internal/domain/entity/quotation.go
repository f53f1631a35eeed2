package entity

import (
	"fmt"
	"time"
)

// QuotationStatus estado de una cotización.
type QuotationStatus string

const (
	QuotationDraft     QuotationStatus = "draft"
	QuotationSent      QuotationStatus = "sent"
	QuotationAccepted  QuotationStatus = "accepted"
	QuotationRejected  QuotationStatus = "rejected"
	QuotationConverted QuotationStatus = "converted"
)

// ParseQuotationStatus convierte el string recibido en un estado válido.
func ParseQuotationStatus(s string) (QuotationStatus, error) {
	st := QuotationStatus(s)
	switch st {
	case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected, QuotationConverted:
		return st, nil
	}
	return "", fmt.Errorf("estado de cotización desconocido: %q", s)
}

// CanTransitionTo indica si se puede pasar a next mediante cambio de estado manual.
// converted solo se alcanza convirtiendo y es terminal.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	switch s {
	case QuotationConverted:
		return false
	case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected:
		switch next {
		case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected:
			return true
		case QuotationConverted:
			return false
		}
	}
	return false
}

// CanConvert indica si la cotización puede convertirse en factura.
func (s QuotationStatus) CanConvert() bool {
	switch s {
	case QuotationDraft, QuotationSent, QuotationAccepted:
		return true
	case QuotationRejected, QuotationConverted:
		return false
	}
	return false
}

// Quotation cabecera de cotización con sus líneas.
type Quotation struct {
	ID         string
	CompanyID  string
	CustomerID string
	Number     string // QT-YYYYMMDD-XXXXXXXX
	Subject    string
	Status     QuotationStatus
	ValidUntil *time.Time
	// Totals se copian tal cual al duplicar o convertir.
	Totals
	Notes              string
	ConvertedInvoiceID string
	CreatedBy          string
	Items              []LineItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
