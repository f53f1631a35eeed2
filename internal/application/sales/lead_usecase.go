// Package sales contiene los casos de uso del CRM: leads, clientes, actividades y tareas.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
)

const activityHistoryLimit = 50

// LeadUseCase gestiona el pipeline de leads y su conversión a cliente.
// Cada escritura corre en una transacción junto con su fila de auditoría.
type LeadUseCase struct {
	store repository.Store
	tx    repository.TxRunner
	now   func() time.Time
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(store repository.Store, tx repository.TxRunner) *LeadUseCase {
	return &LeadUseCase{store: store, tx: tx, now: time.Now}
}

// List devuelve una página de leads con filtros. per_page se recorta a dto.MaxPerPage.
func (uc *LeadUseCase) List(ctx context.Context, scope tenant.Scope, q dto.LeadListQuery) (*dto.LeadListResponse, error) {
	q.Normalize()
	f := repository.LeadFilter{
		AssignedTo: q.AssignedTo,
		Search:     strings.TrimSpace(q.Search),
		Limit:      q.PerPage,
		Offset:     q.Offset(),
	}
	if q.Status != "" {
		st, err := entity.ParseLeadStatus(q.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		f.Status = st
	}
	if q.Source != "" {
		src, err := entity.ParseLeadSource(q.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		f.Source = src
	}
	leads, total, err := uc.store.Leads.List(ctx, scope.CompanyID, f)
	if err != nil {
		return nil, fmt.Errorf("leads: listar: %w", err)
	}
	out := make([]dto.LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, dto.ToLeadResponse(l))
	}
	return &dto.LeadListResponse{Leads: out, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

// Get devuelve un lead de la empresa.
func (uc *LeadUseCase) Get(ctx context.Context, scope tenant.Scope, id string) (*dto.LeadResponse, error) {
	l, err := uc.load(ctx, uc.store, scope, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToLeadResponse(l)
	return &out, nil
}

func (uc *LeadUseCase) load(ctx context.Context, s repository.Store, scope tenant.Scope, id string) (*entity.Lead, error) {
	l, err := s.Leads.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, fmt.Errorf("leads: obtener: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	return l, nil
}

// checkAssignee verifica que el usuario exista, esté activo y sea de la empresa.
func checkAssignee(ctx context.Context, s repository.Store, companyID, userID string) error {
	if userID == "" {
		return nil
	}
	u, err := s.Users.GetByID(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		return fmt.Errorf("%w: assigned_to no es un usuario activo de la empresa", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *LeadUseCase) apply(l *entity.Lead, in dto.LeadRequest) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.Email == "" {
		return fmt.Errorf("%w: first_name y email son requeridos", domain.ErrInvalidInput)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if in.EstimatedValue.IsNegative() {
		return fmt.Errorf("%w: estimated_value no puede ser negativo", domain.ErrInvalidInput)
	}
	src, err := entity.ParseLeadSource(in.Source)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	status := l.Status
	if in.Status != "" {
		if status, err = entity.ParseLeadStatus(in.Status); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if status == "" {
		status = entity.LeadProspect
	}
	l.FirstName = in.FirstName
	l.LastName = strings.TrimSpace(in.LastName)
	l.Email = in.Email
	l.Phone = in.Phone
	l.CompanyName = in.CompanyName
	l.JobTitle = in.JobTitle
	l.Source = src
	l.Status = status
	l.AssignedTo = in.AssignedTo
	l.EstimatedValue = in.EstimatedValue
	l.Notes = in.Notes
	l.NextFollowUp = in.NextFollowUp
	return nil
}

// Create alta de lead (status por defecto prospect).
func (uc *LeadUseCase) Create(ctx context.Context, scope tenant.Scope, in dto.LeadRequest) (*dto.LeadResponse, error) {
	now := uc.now()
	l := &entity.Lead{
		ID:             uuid.New().String(),
		CompanyID:      scope.CompanyID,
		EstimatedValue: decimal.Zero,
		CreatedBy:      scope.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.apply(l, in); err != nil {
		return nil, err
	}
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if err := checkAssignee(ctx, s, scope.CompanyID, l.AssignedTo); err != nil {
			return err
		}
		if err := s.Leads.Create(ctx, l); err != nil {
			return fmt.Errorf("leads: crear: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditLeadCreated,
			Message: "Lead creado: " + l.FullName(), ResourceType: "lead", ResourceID: l.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToLeadResponse(l)
	return &out, nil
}

// Update reemplaza los campos editables del lead.
func (uc *LeadUseCase) Update(ctx context.Context, scope tenant.Scope, id string, in dto.LeadRequest) (*dto.LeadResponse, error) {
	var updated *entity.Lead
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		l, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if err := uc.apply(l, in); err != nil {
			return err
		}
		if err := checkAssignee(ctx, s, scope.CompanyID, l.AssignedTo); err != nil {
			return err
		}
		l.UpdatedAt = uc.now()
		if err := s.Leads.Update(ctx, l); err != nil {
			return fmt.Errorf("leads: actualizar: %w", err)
		}
		updated = l
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditLeadUpdated,
			Message: "Lead actualizado: " + l.FullName(), ResourceType: "lead", ResourceID: l.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToLeadResponse(updated)
	return &out, nil
}

// UpdateStatus mueve el lead a cualquier etapa del pipeline.
func (uc *LeadUseCase) UpdateStatus(ctx context.Context, scope tenant.Scope, id, status string) (*dto.LeadResponse, error) {
	st, err := entity.ParseLeadStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var updated *entity.Lead
	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		l, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		l.Status = st
		l.UpdatedAt = uc.now()
		if err := s.Leads.Update(ctx, l); err != nil {
			return fmt.Errorf("leads: estado: %w", err)
		}
		updated = l
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditLeadStatusUpdated,
			Message: "Estado del lead actualizado a: " + string(st), ResourceType: "lead", ResourceID: l.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToLeadResponse(updated)
	return &out, nil
}

// Assign asigna el lead a un usuario activo de la empresa; userID vacío lo deja sin asignar.
func (uc *LeadUseCase) Assign(ctx context.Context, scope tenant.Scope, id, userID string) (*dto.LeadResponse, error) {
	var updated *entity.Lead
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		l, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if err := checkAssignee(ctx, s, scope.CompanyID, userID); err != nil {
			return err
		}
		l.AssignedTo = userID
		l.UpdatedAt = uc.now()
		if err := s.Leads.Update(ctx, l); err != nil {
			return fmt.Errorf("leads: asignar: %w", err)
		}
		updated = l
		msg := "Lead sin asignar"
		if userID != "" {
			msg = "Lead asignado a " + userID
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditLeadAssigned,
			Message: msg, ResourceType: "lead", ResourceID: l.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToLeadResponse(updated)
	return &out, nil
}

// AddActivity registra una interacción en el historial del lead.
func (uc *LeadUseCase) AddActivity(ctx context.Context, scope tenant.Scope, leadID string, in dto.AddActivityRequest) (*dto.ActivityResponse, error) {
	typ, err := entity.ParseActivityType(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(in.Subject) == "" {
		return nil, fmt.Errorf("%w: subject es requerido", domain.ErrInvalidInput)
	}
	a := &entity.Activity{
		ID:          uuid.New().String(),
		CompanyID:   scope.CompanyID,
		UserID:      scope.UserID,
		LeadID:      leadID,
		Type:        typ,
		Subject:     strings.TrimSpace(in.Subject),
		Description: in.Description,
		CreatedAt:   uc.now(),
	}
	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if _, err := uc.load(ctx, s, scope, leadID); err != nil {
			return err
		}
		if err := s.Activities.Create(ctx, a); err != nil {
			return fmt.Errorf("actividades: crear: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditActivityAdded,
			Message: fmt.Sprintf("Actividad %s: %s", a.Type, a.Subject), ResourceType: "lead", ResourceID: leadID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToActivityResponse(a)
	return &out, nil
}

// Activities historial del lead, más reciente primero.
func (uc *LeadUseCase) Activities(ctx context.Context, scope tenant.Scope, leadID string) ([]dto.ActivityResponse, error) {
	if _, err := uc.load(ctx, uc.store, scope, leadID); err != nil {
		return nil, err
	}
	list, err := uc.store.Activities.ListByLead(ctx, scope.CompanyID, leadID, activityHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("actividades: listar: %w", err)
	}
	out := make([]dto.ActivityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.ToActivityResponse(a))
	}
	return out, nil
}

// Convert crea un cliente con los datos de identidad del lead y lo marca closed_won.
// No es idempotente: convertir dos veces crea dos clientes independientes.
func (uc *LeadUseCase) Convert(ctx context.Context, scope tenant.Scope, id string) (*dto.ConvertLeadResponse, error) {
	var (
		lead     *entity.Lead
		customer *entity.Customer
	)
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		l, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		now := uc.now()
		c := &entity.Customer{
			ID:          uuid.New().String(),
			CompanyID:   scope.CompanyID,
			LeadID:      l.ID,
			FirstName:   l.FirstName,
			LastName:    l.LastName,
			Email:       l.Email,
			Phone:       l.Phone,
			CompanyName: l.CompanyName,
			CreatedBy:   scope.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Customers.Create(ctx, c); err != nil {
			return fmt.Errorf("leads: crear cliente: %w", err)
		}
		l.Status = entity.LeadClosedWon
		l.UpdatedAt = now
		if err := s.Leads.Update(ctx, l); err != nil {
			return fmt.Errorf("leads: cerrar: %w", err)
		}
		lead, customer = l, c
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditLeadConverted,
			Message: "Lead convertido en cliente: " + c.FullName(), ResourceType: "lead", ResourceID: l.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConvertLeadResponse{Lead: dto.ToLeadResponse(lead), Customer: dto.ToCustomerResponse(customer)}, nil
}

// Delete elimina el lead. Los clientes que salieron de él se conservan.
func (uc *LeadUseCase) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	return uc.tx.WithinTx(ctx, func(s repository.Store) error {
		l, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if err := s.Leads.Delete(ctx, scope.CompanyID, id); err != nil {
			return fmt.Errorf("leads: eliminar: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditLeadDeleted,
			Message: "Lead eliminado: " + l.FullName(), ResourceType: "lead", ResourceID: id,
		})
	})
}
