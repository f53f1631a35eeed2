package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de entrada. Sin unit_price/tax_percent se toman del producto.
type LineItemRequest struct {
	ProductID       string           `json:"product_id"`
	Description     string           `json:"description"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
}

// LineItemResponse línea de salida.
type LineItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// TotalsResponse cabecera monetaria.
type TotalsResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// CreateQuotationRequest alta de cotización.
type CreateQuotationRequest struct {
	CustomerID string            `json:"customer_id"`
	Subject    string            `json:"subject"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      string            `json:"notes"`
	Items      []LineItemRequest `json:"items"`
}

// UpdateQuotationRequest edición de cabecera. Items vacío conserva las líneas actuales.
type UpdateQuotationRequest struct {
	CustomerID string            `json:"customer_id"`
	Subject    string            `json:"subject"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      string            `json:"notes"`
	Items      []LineItemRequest `json:"items"`
}

// UpdateStatusRequest cambio de estado de un documento.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// QuotationResponse salida de una cotización.
type QuotationResponse struct {
	ID                 string             `json:"id"`
	Number             string             `json:"quotation_number"`
	CustomerID         string             `json:"customer_id"`
	Subject            string             `json:"subject"`
	Status             string             `json:"status"`
	ValidUntil         *time.Time         `json:"valid_until,omitempty"`
	Totals             TotalsResponse     `json:"totals"`
	Notes              string             `json:"notes,omitempty"`
	ConvertedInvoiceID string             `json:"converted_invoice_id,omitempty"`
	Items              []LineItemResponse `json:"items,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// QuotationListResponse página de cotizaciones.
type QuotationListResponse struct {
	Quotations []QuotationResponse `json:"quotations"`
	Pagination Pagination          `json:"pagination"`
}

// CreateInvoiceRequest alta directa de factura.
type CreateInvoiceRequest struct {
	CustomerID string            `json:"customer_id"`
	Subject    string            `json:"subject"`
	DueDate    *time.Time        `json:"due_date"`
	Notes      string            `json:"notes"`
	Items      []LineItemRequest `json:"items"`
}

// UpdateInvoiceRequest edición de cabecera; cliente, líneas y totales no cambian.
type UpdateInvoiceRequest struct {
	Subject string     `json:"subject"`
	DueDate *time.Time `json:"due_date"`
	Notes   string     `json:"notes"`
}

// MarkPaidRequest registro del pago; sin paid_at se usa la hora actual.
type MarkPaidRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID          string             `json:"id"`
	Number      string             `json:"invoice_number"`
	CustomerID  string             `json:"customer_id"`
	QuotationID string             `json:"quotation_id,omitempty"`
	Subject     string             `json:"subject"`
	Status      string             `json:"status"`
	IssueDate   time.Time          `json:"issue_date"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	PaidAt      *time.Time         `json:"paid_at,omitempty"`
	Totals      TotalsResponse     `json:"totals"`
	Notes       string             `json:"notes,omitempty"`
	Items       []LineItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	Pagination Pagination        `json:"pagination"`
}

// ConvertQuotationResponse resultado de convertir una cotización.
type ConvertQuotationResponse struct {
	Quotation QuotationResponse `json:"quotation"`
	Invoice   InvoiceResponse   `json:"invoice"`
}

// SubscriptionResponse suscripción vigente y cupos del plan.
type SubscriptionResponse struct {
	ID                 string    `json:"id"`
	Plan               string    `json:"plan"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
	MaxUsers           int       `json:"max_users"`
	MaxStorageGB       int       `json:"max_storage_gb"`
}

// UsageMetric consumo frente al cupo del plan. Percent es 0 con cupo ilimitado (-1).
type UsageMetric struct {
	Current float64 `json:"current"`
	Limit   float64 `json:"limit"`
	Percent float64 `json:"percentage"`
}

// UsageResponse uso de la empresa: usuarios y almacenamiento en GB.
type UsageResponse struct {
	Plan    string      `json:"plan"`
	Users   UsageMetric `json:"users"`
	Storage UsageMetric `json:"storage_gb"`
}

// UpgradeSubscriptionRequest plan destino.
type UpgradeSubscriptionRequest struct {
	Plan string `json:"plan"`
}

// SendQuotationRequest envío de la cotización por correo con el PDF adjunto.
type SendQuotationRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendQuotationResponse cotización enviada; Warning informa si el correo falló.
type SendQuotationResponse struct {
	Quotation QuotationResponse `json:"quotation"`
	Warning   string            `json:"warning,omitempty"`
}
