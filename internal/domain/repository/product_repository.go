package repository

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// List ordena por nombre. search coincide en nombre, descripción o SKU; vacío no filtra.
	List(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Product, int, error)
	Update(ctx context.Context, product *entity.Product) error
}
