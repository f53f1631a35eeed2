package repository

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// SubscriptionRepository define el puerto de persistencia para Subscription.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *entity.Subscription) error
	// GetCurrent devuelve la suscripción vigente de la empresa (una por empresa).
	GetCurrent(ctx context.Context, companyID string) (*entity.Subscription, error)
	Update(ctx context.Context, s *entity.Subscription) error
}
