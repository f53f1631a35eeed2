package repository

import (
	"context"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
	// FindByEmail busca sin empresa: el email es único global y es la llave del login.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
	ListByRoles(ctx context.Context, companyID string, roles ...entity.Role) ([]*entity.User, error)
	CountActive(ctx context.Context, companyID string) (int, error)
	Update(ctx context.Context, user *entity.User) error
	TouchLastLogin(ctx context.Context, companyID, id string, at time.Time) error
}
