package repository

import (
	"context"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// LeadFilter filtros del listado de leads. Campos vacíos no filtran.
type LeadFilter struct {
	Status     entity.LeadStatus
	Source     entity.LeadSource
	AssignedTo string
	Search     string // coincide en nombre, apellido, email o empresa
	Limit      int
	Offset     int
}

// LeadRepository define el puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error)
	// List devuelve la página pedida (created_at desc) y el total sin paginar.
	List(ctx context.Context, companyID string, f LeadFilter) ([]*entity.Lead, int, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, companyID, id string) error
	// ListFollowUpsDue leads abiertos con seguimiento vencido antes de now.
	ListFollowUpsDue(ctx context.Context, companyID string, now time.Time) ([]*entity.Lead, error)
}
