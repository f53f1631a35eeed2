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

// CustomerUseCase CRUD de clientes.
type CustomerUseCase struct {
	store repository.Store
	tx    repository.TxRunner
	now   func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(store repository.Store, tx repository.TxRunner) *CustomerUseCase {
	return &CustomerUseCase{store: store, tx: tx, now: time.Now}
}

func validateCustomer(in *dto.CustomerRequest) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.Email == "" {
		return fmt.Errorf("%w: first_name y email son requeridos", domain.ErrInvalidInput)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}

func fillCustomer(c *entity.Customer, in dto.CustomerRequest) {
	c.FirstName = in.FirstName
	c.LastName = strings.TrimSpace(in.LastName)
	c.Email = in.Email
	c.Phone = in.Phone
	c.CompanyName = in.CompanyName
	c.TaxID = in.TaxID
	c.Address = in.Address
	c.Notes = in.Notes
}

// List página de clientes con búsqueda libre.
func (uc *CustomerUseCase) List(ctx context.Context, scope tenant.Scope, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.Normalize()
	list, total, err := uc.store.Customers.List(ctx, scope.CompanyID, strings.TrimSpace(search), page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("clientes: listar: %w", err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Customers: out, Pagination: dto.NewPagination(page, total)}, nil
}

// Get devuelve un cliente de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, scope tenant.Scope, id string) (*dto.CustomerResponse, error) {
	c, err := uc.store.Customers.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %s: %w", id, domain.ErrNotFound)
	}
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// Create alta directa de cliente (sin lead).
func (uc *CustomerUseCase) Create(ctx context.Context, scope tenant.Scope, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: scope.CompanyID,
		CreatedBy: scope.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fillCustomer(c, in)
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if err := s.Customers.Create(ctx, c); err != nil {
			return fmt.Errorf("clientes: crear: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditCustomerCreated,
			Message: "Cliente creado: " + c.FullName(), ResourceType: "customer", ResourceID: c.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, scope tenant.Scope, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	var updated *entity.Customer
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		c, err := s.Customers.GetByID(ctx, scope.CompanyID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("cliente %s: %w", id, domain.ErrNotFound)
		}
		fillCustomer(c, in)
		c.UpdatedAt = uc.now()
		if err := s.Customers.Update(ctx, c); err != nil {
			return fmt.Errorf("clientes: actualizar: %w", err)
		}
		updated = c
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditCustomerUpdated,
			Message: "Cliente actualizado: " + c.FullName(), ResourceType: "customer", ResourceID: c.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToCustomerResponse(updated)
	return &out, nil
}

// Delete elimina el cliente. Falla con ErrConflict si tiene documentos (restricción de FK).
func (uc *CustomerUseCase) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	return uc.tx.WithinTx(ctx, func(s repository.Store) error {
		c, err := s.Customers.GetByID(ctx, scope.CompanyID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("cliente %s: %w", id, domain.ErrNotFound)
		}
		if err := s.Customers.Delete(ctx, scope.CompanyID, id); err != nil {
			return fmt.Errorf("clientes: eliminar: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID, Action: entity.AuditCustomerDeleted,
			Message: "Cliente eliminado: " + c.FullName(), ResourceType: "customer", ResourceID: id,
		})
	})
}
