package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo historial CRM; solo inserta y lista.
type ActivityRepo struct {
	q Querier
}

func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

const activityColumns = `id, company_id, user_id, lead_id, customer_id, type, subject, description, created_at`

func scanActivity(row pgx.Row) (*entity.Activity, error) {
	var a entity.Activity
	var userID, leadID, customerID, description *string
	if err := row.Scan(&a.ID, &a.CompanyID, &userID, &leadID, &customerID, &a.Type, &a.Subject, &description, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.UserID, a.LeadID, a.CustomerID, a.Description = deref(userID), deref(leadID), deref(customerID), deref(description)
	return &a, nil
}

func collectActivities(rows pgx.Rows) ([]*entity.Activity, error) {
	defer rows.Close()
	var list []*entity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ActivityRepo) Create(ctx context.Context, a *entity.Activity) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.CompanyID, nullIfEmpty(a.UserID), nullIfEmpty(a.LeadID), nullIfEmpty(a.CustomerID),
		string(a.Type), a.Subject, nullIfEmpty(a.Description), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByLead más recientes primero.
func (r *ActivityRepo) ListByLead(ctx context.Context, companyID, leadID string, limit int) ([]*entity.Activity, error) {
	if !validUUID(leadID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+activityColumns+` FROM activities
		 WHERE company_id = $1 AND lead_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3`, companyID, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return collectActivities(rows)
}
