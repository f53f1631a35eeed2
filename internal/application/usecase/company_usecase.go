package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
)

// CompanyUseCase ajustes de la empresa del usuario autenticado.
type CompanyUseCase struct {
	store repository.Store
	tx    repository.TxRunner
	now   func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(store repository.Store, tx repository.TxRunner) *CompanyUseCase {
	return &CompanyUseCase{store: store, tx: tx, now: time.Now}
}

func loadCompany(ctx context.Context, s repository.Store, id string) (*entity.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("empresa: obtener: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("empresa %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// Get obtiene la empresa del scope.
func (uc *CompanyUseCase) Get(ctx context.Context, scope tenant.Scope) (*dto.CompanyResponse, error) {
	c, err := loadCompany(ctx, uc.store, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	out := dto.ToCompanyResponse(c)
	return &out, nil
}

// Update cambia los datos de contacto. Subdominio y plan no se editan aquí.
func (uc *CompanyUseCase) Update(ctx context.Context, scope tenant.Scope, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
	}
	var updated *entity.Company
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		c, err := loadCompany(ctx, s, scope.CompanyID)
		if err != nil {
			return err
		}
		var changed []string
		if in.Name != nil {
			c.Name = strings.TrimSpace(*in.Name)
			changed = append(changed, "name")
		}
		if in.Email != nil {
			c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
			changed = append(changed, "email")
		}
		if in.Phone != nil {
			c.Phone = *in.Phone
			changed = append(changed, "phone")
		}
		if in.Address != nil {
			c.Address = *in.Address
			changed = append(changed, "address")
		}
		c.UpdatedAt = uc.now()
		if err := s.Companies.Update(ctx, c); err != nil {
			return fmt.Errorf("empresa: actualizar: %w", err)
		}
		updated = c
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action:       entity.AuditCompanyUpdated,
			Message:      "Empresa actualizada: " + strings.Join(changed, ", "),
			ResourceType: "company", ResourceID: c.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToCompanyResponse(updated)
	return &out, nil
}
