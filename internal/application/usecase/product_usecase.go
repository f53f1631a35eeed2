package usecase

import (
	"context"
	"errors"
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

var hundred = decimal.NewFromInt(100)

// ProductUseCase catálogo de productos que usan las líneas de cotizaciones y facturas.
type ProductUseCase struct {
	store repository.Store
	tx    repository.TxRunner
	now   func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(store repository.Store, tx repository.TxRunner) *ProductUseCase {
	return &ProductUseCase{store: store, tx: tx, now: time.Now}
}

func validateProduct(in dto.ProductRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.CostPrice != nil && in.CostPrice.IsNegative() {
		return fmt.Errorf("%w: cost_price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return fmt.Errorf("%w: tax_rate debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

func apply(p *entity.Product, in dto.ProductRequest) {
	p.SKU = strings.TrimSpace(in.SKU)
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.UnitPrice = in.UnitPrice
	p.CostPrice = dto.NullDecimal(in.CostPrice)
	p.TaxRate = in.TaxRate
	p.Unit = in.Unit
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// List página de productos. search vacío no filtra.
func (uc *ProductUseCase) List(ctx context.Context, scope tenant.Scope, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, total, err := uc.store.Products.List(ctx, scope.CompanyID, strings.TrimSpace(search), page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("productos: listar: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{Products: out, Pagination: dto.NewPagination(page, total)}, nil
}

// Get obtiene un producto de la empresa.
func (uc *ProductUseCase) Get(ctx context.Context, scope tenant.Scope, id string) (*dto.ProductResponse, error) {
	p, err := uc.store.Products.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, fmt.Errorf("productos: obtener: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	out := dto.ToProductResponse(p)
	return &out, nil
}

// Create alta de producto. El SKU, si viene, es único por empresa.
func (uc *ProductUseCase) Create(ctx context.Context, scope tenant.Scope, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Product{ID: uuid.New().String(), CompanyID: scope.CompanyID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	apply(p, in)
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if err := s.Products.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("sku %s: %w", p.SKU, domain.ErrDuplicate)
			}
			return fmt.Errorf("productos: crear: %w", err)
		}
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action: entity.AuditProductCreated, Message: "Producto creado: " + p.Name,
			ResourceType: "product", ResourceID: p.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(p)
	return &out, nil
}

// Update reemplaza los campos editables del producto.
func (uc *ProductUseCase) Update(ctx context.Context, scope tenant.Scope, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	var updated *entity.Product
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		p, err := s.Products.GetByID(ctx, scope.CompanyID, id)
		if err != nil {
			return fmt.Errorf("productos: obtener: %w", err)
		}
		if p == nil {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		apply(p, in)
		p.UpdatedAt = uc.now()
		if err := s.Products.Update(ctx, p); err != nil {
			return fmt.Errorf("productos: actualizar: %w", err)
		}
		updated = p
		return audit.Write(ctx, s.AuditLogs, audit.Entry{
			CompanyID: scope.CompanyID, UserID: scope.UserID,
			Action: entity.AuditProductUpdated, Message: "Producto actualizado: " + p.Name,
			ResourceType: "product", ResourceID: p.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(updated)
	return &out, nil
}
