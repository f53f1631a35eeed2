package repository

import "context"

// Store agrupa los repositorios atados a una misma conexión (pool o transacción).
type Store struct {
	Companies     CompanyRepository
	Users         UserRepository
	Leads         LeadRepository
	Customers     CustomerRepository
	Products      ProductRepository
	Quotations    QuotationRepository
	Invoices      InvoiceRepository
	Tasks         TaskRepository
	Activities    ActivityRepository
	Subscriptions SubscriptionRepository
	AuditLogs     AuditLogRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback si no.
// Cada operación lógica (entidad + su fila de auditoría) corre en un solo WithinTx.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(s Store) error) error
}
