package repository

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (raíz del tenant).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*entity.Company, error)
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
	Update(ctx context.Context, company *entity.Company) error
	// ListActive la usan los jobs programados para recorrer empresa por empresa.
	ListActive(ctx context.Context) ([]*entity.Company, error)
}
