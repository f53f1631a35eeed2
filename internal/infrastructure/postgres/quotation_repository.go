package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación de QuotationRepository. Cabecera y líneas deben escribirse en la misma tx.
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador.
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationColumns = `id, company_id, customer_id, quotation_number, subject, status, valid_until,
	subtotal, discount_amount, tax_amount, total, notes, converted_invoice_id, created_by, created_at, updated_at`

func scanQuotation(row pgx.Row) (*entity.Quotation, error) {
	var q entity.Quotation
	var notes, converted, createdBy *string
	err := row.Scan(&q.ID, &q.CompanyID, &q.CustomerID, &q.Number, &q.Subject, &q.Status, &q.ValidUntil,
		&q.Subtotal, &q.DiscountAmount, &q.TaxAmount, &q.Total, &notes, &converted, &createdBy,
		&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	q.Notes, q.ConvertedInvoiceID, q.CreatedBy = deref(notes), deref(converted), deref(createdBy)
	return &q, nil
}

// Create inserta cabecera y líneas.
func (r *QuotationRepo) Create(ctx context.Context, q *entity.Quotation) error {
	query := `
		INSERT INTO quotations (` + quotationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.CompanyID, q.CustomerID, q.Number, q.Subject, string(q.Status), q.ValidUntil,
		q.Subtotal, q.DiscountAmount, q.TaxAmount, q.Total, nullIfEmpty(q.Notes),
		nullIfEmpty(q.ConvertedInvoiceID), nullIfEmpty(q.CreatedBy), q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("quotation number %s: %w", q.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return quotationItems.insert(ctx, r.q, q.CompanyID, q.ID, q.Items)
}

// GetByID cabecera con sus líneas ordenadas por posición.
func (r *QuotationRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Quotation, error) {
	if !validUUID(id) {
		return nil, nil
	}
	q, err := scanQuotation(r.q.QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if q.Items, err = quotationItems.list(ctx, r.q, companyID, id); err != nil {
		return nil, err
	}
	return q, nil
}

// List cabeceras sin líneas. status vacío no filtra.
func (r *QuotationRepo) List(ctx context.Context, companyID string, status entity.QuotationStatus, limit, offset int) ([]*entity.Quotation, int, error) {
	where := " WHERE company_id = $1"
	args := []any{companyID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, string(status))
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM quotations`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM quotations%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		quotationColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, q)
	}
	return list, total, rows.Err()
}

// Update persiste la cabecera; si replaceItems reemplaza también las líneas.
func (r *QuotationRepo) Update(ctx context.Context, q *entity.Quotation, replaceItems bool) error {
	query := `
		UPDATE quotations
		   SET customer_id = $3, subject = $4, status = $5, valid_until = $6, subtotal = $7, discount_amount = $8,
		       tax_amount = $9, total = $10, notes = $11, converted_invoice_id = $12, updated_at = $13
		 WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		q.CompanyID, q.ID, q.CustomerID, q.Subject, string(q.Status), q.ValidUntil, q.Subtotal, q.DiscountAmount,
		q.TaxAmount, q.Total, nullIfEmpty(q.Notes), nullIfEmpty(q.ConvertedInvoiceID), q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if !replaceItems {
		return nil
	}
	return quotationItems.replace(ctx, r.q, q.CompanyID, q.ID, q.Items)
}

// Delete borra la cotización; quotation_items cae por ON DELETE CASCADE e invoices.quotation_id queda NULL.
func (r *QuotationRepo) Delete(ctx context.Context, companyID, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM quotations WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search cabeceras por asunto o número.
func (r *QuotationRepo) Search(ctx context.Context, companyID, term string, limit int) ([]*entity.Quotation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+quotationColumns+` FROM quotations
		 WHERE company_id = $1 AND (subject ILIKE $2 OR quotation_number ILIKE $2)
		 ORDER BY created_at DESC LIMIT $3`, companyID, likePattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search quotations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}
