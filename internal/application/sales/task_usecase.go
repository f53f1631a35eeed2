package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
)

// TaskUseCase agenda de tareas.
type TaskUseCase struct {
	store repository.Store
	tx    repository.TxRunner
	now   func() time.Time
}

// NewTaskUseCase construye el caso de uso.
func NewTaskUseCase(store repository.Store, tx repository.TxRunner) *TaskUseCase {
	return &TaskUseCase{store: store, tx: tx, now: time.Now}
}

// Create alta de tarea. Sin assigned_to queda asignada a quien la crea.
func (uc *TaskUseCase) Create(ctx context.Context, scope tenant.Scope, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title es requerido", domain.ErrInvalidInput)
	}
	prio, err := entity.ParseTaskPriority(in.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	assignee := in.AssignedTo
	if assignee == "" {
		assignee = scope.UserID
	}
	now := uc.now()
	task := &entity.Task{
		ID:          uuid.New().String(),
		CompanyID:   scope.CompanyID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      entity.TaskPending,
		Priority:    prio,
		DueDate:     in.DueDate,
		AssignedTo:  assignee,
		LeadID:      in.LeadID,
		CustomerID:  in.CustomerID,
		CreatedBy:   scope.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if err := checkAssignee(ctx, s, scope.CompanyID, task.AssignedTo); err != nil {
			return err
		}
		if task.LeadID != "" {
			if l, err := s.Leads.GetByID(ctx, scope.CompanyID, task.LeadID); err != nil || l == nil {
				return fmt.Errorf("%w: lead_id no pertenece a la empresa", domain.ErrInvalidInput)
			}
		}
		if task.CustomerID != "" {
			if c, err := s.Customers.GetByID(ctx, scope.CompanyID, task.CustomerID); err != nil || c == nil {
				return fmt.Errorf("%w: customer_id no pertenece a la empresa", domain.ErrInvalidInput)
			}
		}
		if err := s.Tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("tareas: crear: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditTaskCreated,
			Message: "Tarea creada: " + task.Title, ResourceType: "task", ResourceID: task.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToTaskResponse(task)
	return &out, nil
}

// List página de tareas con filtros.
func (uc *TaskUseCase) List(ctx context.Context, scope tenant.Scope, q dto.TaskListQuery) (*dto.TaskListResponse, error) {
	q.Normalize()
	f := repository.TaskFilter{AssignedTo: q.AssignedTo, LeadID: q.LeadID, Limit: q.PerPage, Offset: q.Offset()}
	if q.Status != "" {
		st, err := entity.ParseTaskStatus(q.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		f.Status = st
	}
	list, total, err := uc.store.Tasks.List(ctx, scope.CompanyID, f)
	if err != nil {
		return nil, fmt.Errorf("tareas: listar: %w", err)
	}
	out := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.ToTaskResponse(t))
	}
	return &dto.TaskListResponse{Tasks: out, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

// Complete marca la tarea como completada. Una tarea cerrada devuelve ErrInvalidTransition.
func (uc *TaskUseCase) Complete(ctx context.Context, scope tenant.Scope, id string) (*dto.TaskResponse, error) {
	var done *entity.Task
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		task, err := s.Tasks.GetByID(ctx, scope.CompanyID, id)
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("tarea %s: %w", id, domain.ErrNotFound)
		}
		if !task.Status.IsOpen() {
			return fmt.Errorf("tarea %s en estado %s: %w", id, task.Status, domain.ErrInvalidTransition)
		}
		now := uc.now()
		task.Status = entity.TaskCompleted
		task.CompletedAt = &now
		task.UpdatedAt = now
		if err := s.Tasks.Update(ctx, task); err != nil {
			return fmt.Errorf("tareas: completar: %w", err)
		}
		done = task
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditTaskCompleted,
			Message: "Tarea completada: " + task.Title, ResourceType: "task", ResourceID: task.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToTaskResponse(done)
	return &out, nil
}
