package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo implementación de LeadRepository.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador.
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `id, company_id, first_name, last_name, email, phone, company_name, job_title, source, status,
	assigned_to, estimated_value, notes, next_follow_up, created_by, created_at, updated_at`

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	var email, phone, companyName, jobTitle, assigned, notes, createdBy *string
	err := row.Scan(&l.ID, &l.CompanyID, &l.FirstName, &l.LastName, &email, &phone, &companyName, &jobTitle,
		&l.Source, &l.Status, &assigned, &l.EstimatedValue, &notes, &l.NextFollowUp, &createdBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Email, l.Phone, l.CompanyName, l.JobTitle = deref(email), deref(phone), deref(companyName), deref(jobTitle)
	l.AssignedTo, l.Notes, l.CreatedBy = deref(assigned), deref(notes), deref(createdBy)
	return &l, nil
}

func collectLeads(rows pgx.Rows) ([]*entity.Lead, error) {
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Create persiste un lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.FirstName, l.LastName, nullIfEmpty(l.Email), nullIfEmpty(l.Phone),
		nullIfEmpty(l.CompanyName), nullIfEmpty(l.JobTitle), string(l.Source), string(l.Status),
		nullIfEmpty(l.AssignedTo), l.EstimatedValue, nullIfEmpty(l.Notes), l.NextFollowUp,
		nullIfEmpty(l.CreatedBy), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead de la empresa.
func (r *LeadRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	if !validUUID(id) {
		return nil, nil
	}
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// leadWhere arma el WHERE del listado; company_id siempre es $1.
func leadWhere(companyID string, f repository.LeadFilter) (string, []any) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Source != "" {
		add("source = $%d", string(f.Source))
	}
	if f.AssignedTo != "" {
		add("assigned_to = $%d", f.AssignedTo)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR email ILIKE $%[1]d OR company_name ILIKE $%[1]d)", n))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List página de leads (created_at desc) y total sin paginar.
func (r *LeadRepo) List(ctx context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, int, error) {
	if f.AssignedTo != "" && !validUUID(f.AssignedTo) {
		return nil, 0, fmt.Errorf("%w: assigned_to no es un id válido", domain.ErrInvalidInput)
	}
	where, args := leadWhere(companyID, f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	list, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update persiste todos los campos editables del lead.
func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads
		   SET first_name = $3, last_name = $4, email = $5, phone = $6, company_name = $7, job_title = $8,
		       source = $9, status = $10, assigned_to = $11, estimated_value = $12, notes = $13,
		       next_follow_up = $14, updated_at = $15
		 WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		l.CompanyID, l.ID, l.FirstName, l.LastName, nullIfEmpty(l.Email), nullIfEmpty(l.Phone),
		nullIfEmpty(l.CompanyName), nullIfEmpty(l.JobTitle), string(l.Source), string(l.Status),
		nullIfEmpty(l.AssignedTo), l.EstimatedValue, nullIfEmpty(l.Notes), l.NextFollowUp, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el lead; customers.lead_id queda en NULL por la FK.
func (r *LeadRepo) Delete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM leads WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListFollowUpsDue leads abiertos con seguimiento anterior a now.
func (r *LeadRepo) ListFollowUpsDue(ctx context.Context, companyID string, now time.Time) ([]*entity.Lead, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		 WHERE company_id = $1 AND next_follow_up < $2 AND status NOT IN ('closed_won', 'closed_lost')
		 ORDER BY next_follow_up`, companyID, now)
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	return collectLeads(rows)
}
