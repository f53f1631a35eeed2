package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, customer_id, quotation_id, invoice_number, subject, status, issue_date, due_date, paid_at,
	subtotal, discount_amount, tax_amount, total, notes, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var quotationID, notes, createdBy *string
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.CustomerID, &quotationID, &inv.Number, &inv.Subject, &inv.Status,
		&inv.IssueDate, &inv.DueDate, &inv.PaidAt, &inv.Subtotal, &inv.DiscountAmount, &inv.TaxAmount, &inv.Total,
		&notes, &createdBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.QuotationID, inv.Notes, inv.CreatedBy = deref(quotationID), deref(notes), deref(createdBy)
	return &inv, nil
}

// Create persiste cabecera y líneas de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.CustomerID, nullIfEmpty(inv.QuotationID), inv.Number, inv.Subject, string(inv.Status),
		inv.IssueDate, inv.DueDate, inv.PaidAt, inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.Total,
		nullIfEmpty(inv.Notes), nullIfEmpty(inv.CreatedBy), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return invoiceItems.insert(ctx, r.q, inv.CompanyID, inv.ID, inv.Items)
}

// GetByID obtiene una factura completa (con líneas).
func (r *InvoiceRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	if !validUUID(id) {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv.Items, err = invoiceItems.list(ctx, r.q, companyID, id); err != nil {
		return nil, err
	}
	return inv, nil
}

// List cabeceras sin líneas. status vacío no filtra.
func (r *InvoiceRepo) List(ctx context.Context, companyID string, status entity.InvoiceStatus, limit, offset int) ([]*entity.Invoice, int, error) {
	where := " WHERE company_id = $1"
	args := []any{companyID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, string(status))
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM invoices%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// Update persiste estado, fechas y totales. Las líneas de una factura no se editan.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		   SET subject = $3, status = $4, due_date = $5, paid_at = $6, subtotal = $7, discount_amount = $8,
		       tax_amount = $9, total = $10, notes = $11, updated_at = $12
		 WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		inv.CompanyID, inv.ID, inv.Subject, string(inv.Status), inv.DueDate, inv.PaidAt, inv.Subtotal,
		inv.DiscountAmount, inv.TaxAmount, inv.Total, nullIfEmpty(inv.Notes), inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search cabeceras por asunto o número.
func (r *InvoiceRepo) Search(ctx context.Context, companyID, term string, limit int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		 WHERE company_id = $1 AND (subject ILIKE $2 OR invoice_number ILIKE $2)
		 ORDER BY created_at DESC LIMIT $3`, companyID, likePattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
