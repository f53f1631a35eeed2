package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// Beginner abre transacciones; lo cumplen *pgxpool.Pool y pgxmock.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db Beginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// WithinTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(s repository.Store) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewStore arma todos los repositorios sobre q (pool o tx).
func NewStore(q Querier) repository.Store {
	return repository.Store{
		Companies:     NewCompanyRepository(q),
		Users:         NewUserRepository(q),
		Leads:         NewLeadRepository(q),
		Customers:     NewCustomerRepository(q),
		Products:      NewProductRepository(q),
		Quotations:    NewQuotationRepository(q),
		Invoices:      NewInvoiceRepository(q),
		Tasks:         NewTaskRepository(q),
		Activities:    NewActivityRepository(q),
		Subscriptions: NewSubscriptionRepository(q),
		AuditLogs:     NewAuditLogRepository(q),
	}
}
