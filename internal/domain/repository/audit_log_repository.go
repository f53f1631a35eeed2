package repository

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// AuditLogRepository solo inserta y lee: no hay Update ni Delete.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.AuditLog, int, error)
}
