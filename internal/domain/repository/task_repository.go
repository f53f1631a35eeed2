package repository

import (
	"context"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// TaskFilter filtros del listado de tareas.
type TaskFilter struct {
	Status     entity.TaskStatus
	AssignedTo string
	LeadID     string
	Limit      int
	Offset     int
}

// TaskRepository define el puerto de persistencia para Task.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Task, error)
	List(ctx context.Context, companyID string, f TaskFilter) ([]*entity.Task, int, error)
	Update(ctx context.Context, task *entity.Task) error
	// ListOverdue tareas abiertas con vencimiento anterior a now.
	ListOverdue(ctx context.Context, companyID string, now time.Time) ([]*entity.Task, error)
}
