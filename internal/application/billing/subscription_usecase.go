package billing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
)

// SubscriptionUseCase consulta y cambios de plan de la empresa.
// El cobro real vive en un proveedor externo; aquí solo se refleja el estado.
type SubscriptionUseCase struct {
	store   repository.Store
	tx      repository.TxRunner
	storage StorageMeter
	now     func() time.Time
}

// NewSubscriptionUseCase construye el caso de uso. storage nil reporta 0 GB usados.
func NewSubscriptionUseCase(store repository.Store, tx repository.TxRunner, storage StorageMeter) *SubscriptionUseCase {
	return &SubscriptionUseCase{store: store, tx: tx, storage: storage, now: time.Now}
}

func current(ctx context.Context, s repository.Store, companyID string) (*entity.Subscription, error) {
	sub, err := s.Subscriptions.GetCurrent(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("suscripción: obtener: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("suscripción de %s: %w", companyID, domain.ErrNotFound)
	}
	return sub, nil
}

// Get suscripción vigente.
func (uc *SubscriptionUseCase) Get(ctx context.Context, scope tenant.Scope) (*dto.SubscriptionResponse, error) {
	sub, err := current(ctx, uc.store, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	out := dto.ToSubscriptionResponse(sub)
	return &out, nil
}

// Upgrade sube de plan y copia los nuevos límites a la empresa. No admite bajar de plan.
func (uc *SubscriptionUseCase) Upgrade(ctx context.Context, scope tenant.Scope, plan string) (*dto.SubscriptionResponse, error) {
	next, err := entity.ParsePlan(plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var updated *entity.Subscription
	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		sub, err := current(ctx, s, scope.CompanyID)
		if err != nil {
			return err
		}
		if next.Rank() <= sub.Plan.Rank() {
			return fmt.Errorf("plan %s -> %s: %w", sub.Plan, next, domain.ErrInvalidTransition)
		}
		company, err := s.Companies.GetByID(ctx, scope.CompanyID)
		if err != nil {
			return fmt.Errorf("suscripción: obtener empresa: %w", err)
		}
		if company == nil {
			return fmt.Errorf("empresa %s: %w", scope.CompanyID, domain.ErrNotFound)
		}
		now := uc.now()
		prev := sub.Plan
		sub.Plan = next
		sub.Status = entity.SubscriptionActive
		sub.CancelAtPeriodEnd = false
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = now.Add(entity.BillingPeriod)
		sub.UpdatedAt = now
		if err := s.Subscriptions.Update(ctx, sub); err != nil {
			return fmt.Errorf("suscripción: actualizar: %w", err)
		}
		company.ApplyPlan(next)
		company.UpdatedAt = now
		if err := s.Companies.Update(ctx, company); err != nil {
			return fmt.Errorf("suscripción: actualizar empresa: %w", err)
		}
		updated = sub
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action:       entity.AuditSubscriptionUpgraded,
			Message:      fmt.Sprintf("Plan actualizado de %s a %s", prev, next),
			ResourceType: "subscription", ResourceID: sub.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToSubscriptionResponse(updated)
	return &out, nil
}

const bytesPerGB = 1 << 30

// Usage consumo de usuarios activos y almacenamiento frente a los cupos de la empresa.
func (uc *SubscriptionUseCase) Usage(ctx context.Context, scope tenant.Scope) (*dto.UsageResponse, error) {
	company, err := uc.store.Companies.GetByID(ctx, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("uso: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("empresa %s: %w", scope.CompanyID, domain.ErrNotFound)
	}
	users, err := uc.store.Users.CountActive(ctx, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("uso: contar usuarios: %w", err)
	}
	var used int64
	if uc.storage != nil {
		if used, err = uc.storage.CompanyBytes(ctx, scope.CompanyID); err != nil {
			return nil, fmt.Errorf("uso: medir almacenamiento: %w", err)
		}
	}
	return &dto.UsageResponse{
		Plan:    string(company.Plan),
		Users:   usageMetric(float64(users), float64(company.MaxUsers)),
		Storage: usageMetric(math.Round(float64(used)/bytesPerGB*100)/100, float64(company.MaxStorageGB)),
	}, nil
}

func usageMetric(current, limit float64) dto.UsageMetric {
	m := dto.UsageMetric{Current: current, Limit: limit}
	if limit > 0 {
		m.Percent = math.Round(current/limit*10000) / 100
	}
	return m
}

// Cancel marca la suscripción como cancelada al final del periodo.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, scope tenant.Scope) (*dto.SubscriptionResponse, error) {
	var updated *entity.Subscription
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		sub, err := current(ctx, s, scope.CompanyID)
		if err != nil {
			return err
		}
		if sub.Status == entity.SubscriptionCanceled {
			return fmt.Errorf("suscripción ya cancelada: %w", domain.ErrInvalidTransition)
		}
		sub.Status = entity.SubscriptionCanceled
		sub.CancelAtPeriodEnd = true
		sub.UpdatedAt = uc.now()
		if err := s.Subscriptions.Update(ctx, sub); err != nil {
			return fmt.Errorf("suscripción: cancelar: %w", err)
		}
		updated = sub
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action:       entity.AuditSubscriptionCanceled,
			Message:      "Suscripción cancelada al final del periodo",
			ResourceType: "subscription", ResourceID: sub.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToSubscriptionResponse(updated)
	return &out, nil
}
