package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, lead_id, first_name, last_name, email, phone, company_name, tax_id, address, notes,
	created_by, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var leadID, email, phone, companyName, taxID, address, notes, createdBy *string
	err := row.Scan(&c.ID, &c.CompanyID, &leadID, &c.FirstName, &c.LastName, &email, &phone, &companyName,
		&taxID, &address, &notes, &createdBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.LeadID, c.Email, c.Phone, c.CompanyName = deref(leadID), deref(email), deref(phone), deref(companyName)
	c.TaxID, c.Address, c.Notes, c.CreatedBy = deref(taxID), deref(address), deref(notes), deref(createdBy)
	return &c, nil
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, nullIfEmpty(c.LeadID), c.FirstName, c.LastName, nullIfEmpty(c.Email),
		nullIfEmpty(c.Phone), nullIfEmpty(c.CompanyName), nullIfEmpty(c.TaxID), nullIfEmpty(c.Address),
		nullIfEmpty(c.Notes), nullIfEmpty(c.CreatedBy), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente de la empresa.
func (r *CustomerRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	if !validUUID(id) {
		return nil, nil
	}
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List página de clientes (created_at desc); search filtra por nombre, email o empresa.
func (r *CustomerRepo) List(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Customer, int, error) {
	where := " WHERE company_id = $1"
	args := []any{companyID}
	if s := strings.TrimSpace(search); s != "" {
		args = append(args, likePattern(s))
		where += " AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR company_name ILIKE $2)"
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update persiste los datos del cliente. lead_id no cambia.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers
		   SET first_name = $3, last_name = $4, email = $5, phone = $6, company_name = $7, tax_id = $8,
		       address = $9, notes = $10, updated_at = $11
		 WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		c.CompanyID, c.ID, c.FirstName, c.LastName, nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		nullIfEmpty(c.CompanyName), nullIfEmpty(c.TaxID), nullIfEmpty(c.Address), nullIfEmpty(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el cliente. Falla con ErrConflict si tiene cotizaciones o facturas.
func (r *CustomerRepo) Delete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM customers WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("cliente con documentos: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
