package repository

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// ActivityRepository define el puerto de persistencia del historial CRM.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	ListByLead(ctx context.Context, companyID, leadID string, limit int) ([]*entity.Activity, error)
}
