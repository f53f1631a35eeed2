package repository

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// QuotationRepository define el puerto de persistencia para Quotation y sus líneas.
type QuotationRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, q *entity.Quotation) error
	// GetByID devuelve la cabecera con sus líneas ordenadas por posición.
	GetByID(ctx context.Context, companyID, id string) (*entity.Quotation, error)
	// List devuelve cabeceras (sin líneas). status vacío no filtra.
	List(ctx context.Context, companyID string, status entity.QuotationStatus, limit, offset int) ([]*entity.Quotation, int, error)
	// Update persiste la cabecera; si replaceItems reemplaza también las líneas.
	Update(ctx context.Context, q *entity.Quotation, replaceItems bool) error
	// Delete borra cabecera y líneas; las facturas que la referencian quedan sin cotización.
	Delete(ctx context.Context, companyID, id string) error
	// Search cabeceras cuyo asunto o número contienen term, las más recientes primero.
	Search(ctx context.Context, companyID, term string, limit int) ([]*entity.Quotation, error)
}
