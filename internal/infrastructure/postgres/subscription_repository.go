package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación de SubscriptionRepository.
type SubscriptionRepo struct {
	q Querier
}

func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, company_id, plan, status, external_ref, current_period_start, current_period_end,
	cancel_at_period_end, created_at, updated_at`

func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CompanyID, string(s.Plan), string(s.Status), nullIfEmpty(s.ExternalRef),
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelAtPeriodEnd, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// GetCurrent la más reciente de la empresa; nil si nunca tuvo una.
func (r *SubscriptionRepo) GetCurrent(ctx context.Context, companyID string) (*entity.Subscription, error) {
	var s entity.Subscription
	var ref *string
	err := r.q.QueryRow(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE company_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, companyID).
		Scan(&s.ID, &s.CompanyID, &s.Plan, &s.Status, &ref, &s.CurrentPeriodStart, &s.CurrentPeriodEnd,
			&s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	s.ExternalRef = deref(ref)
	return &s, nil
}

func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE subscriptions
		   SET plan = $3, status = $4, external_ref = $5, current_period_start = $6, current_period_end = $7,
		       cancel_at_period_end = $8, updated_at = $9
		 WHERE company_id = $1 AND id = $2`,
		s.CompanyID, s.ID, string(s.Plan), string(s.Status), nullIfEmpty(s.ExternalRef),
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelAtPeriodEnd, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
