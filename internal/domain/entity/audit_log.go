package entity

import "time"

// Acciones auditadas.
const (
	AuditUserLogin            = "user_login"
	AuditTokenRefreshed       = "token_refreshed"
	AuditCompanyRegistered    = "company_registered"
	AuditCompanyUpdated       = "company_updated"
	AuditUserCreated          = "user_created"
	AuditUserUpdated          = "user_updated"
	AuditUserDeactivated      = "user_deactivated"
	AuditLeadCreated          = "lead_created"
	AuditLeadUpdated          = "lead_updated"
	AuditLeadDeleted          = "lead_deleted"
	AuditLeadStatusUpdated    = "lead_status_updated"
	AuditLeadAssigned         = "lead_assigned"
	AuditLeadConverted        = "lead_converted"
	AuditActivityAdded        = "activity_added"
	AuditCustomerCreated      = "customer_created"
	AuditCustomerUpdated      = "customer_updated"
	AuditCustomerDeleted      = "customer_deleted"
	AuditProductCreated       = "product_created"
	AuditProductUpdated       = "product_updated"
	AuditQuotationCreated     = "quotation_created"
	AuditQuotationStatus      = "quotation_status_updated"
	AuditQuotationRecomputed  = "quotation_recomputed"
	AuditQuotationDuplicated  = "quotation_duplicated"
	AuditQuotationConverted   = "quotation_converted"
	AuditQuotationSent        = "quotation_sent"
	AuditQuotationUpdated     = "quotation_updated"
	AuditQuotationDeleted     = "quotation_deleted"
	AuditInvoiceCreated       = "invoice_created"
	AuditInvoicePaid          = "invoice_paid"
	AuditInvoiceDuplicated    = "invoice_duplicated"
	AuditInvoiceUpdated       = "invoice_updated"
	AuditTaskCreated          = "task_created"
	AuditTaskCompleted        = "task_completed"
	AuditSubscriptionUpgraded = "subscription_upgraded"
	AuditSubscriptionCanceled = "subscription_canceled"
)

// AuditLog fila append-only; la aplicación nunca la modifica ni la borra.
type AuditLog struct {
	ID           string
	CompanyID    string
	UserID       string // vacío para acciones del sistema
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}
