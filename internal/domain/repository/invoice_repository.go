package repository

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	List(ctx context.Context, companyID string, status entity.InvoiceStatus, limit, offset int) ([]*entity.Invoice, int, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	// Search cabeceras cuyo asunto o número contienen term, las más recientes primero.
	Search(ctx context.Context, companyID, term string, limit int) ([]*entity.Invoice, error)
}
