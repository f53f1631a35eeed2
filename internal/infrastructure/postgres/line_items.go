package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// itemTable tabla de líneas y su columna de documento.
type itemTable struct {
	name   string // quotation_items | invoice_items
	docCol string // quotation_id | invoice_id
}

var (
	quotationItems = itemTable{name: "quotation_items", docCol: "quotation_id"}
	invoiceItems   = itemTable{name: "invoice_items", docCol: "invoice_id"}
)

func (t itemTable) insert(ctx context.Context, q Querier, companyID, docID string, items []entity.LineItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, %s, product_id, description, quantity, unit_price,
		                discount_percent, tax_percent, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, t.name, t.docCol)
	for i, it := range items {
		pos := it.Position
		if pos == 0 {
			pos = i + 1
		}
		_, err := q.Exec(ctx, query,
			it.ID, companyID, docID, nullIfEmpty(it.ProductID), it.Description, it.Quantity, it.UnitPrice,
			it.DiscountPercent, it.TaxPercent, it.LineTotal, pos,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", t.name, err)
		}
	}
	return nil
}

func (t itemTable) replace(ctx context.Context, q Querier, companyID, docID string, items []entity.LineItem) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE company_id = $1 AND %s = $2`, t.name, t.docCol)
	if _, err := q.Exec(ctx, query, companyID, docID); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return t.insert(ctx, q, companyID, docID, items)
}

func (t itemTable) list(ctx context.Context, q Querier, companyID, docID string) ([]entity.LineItem, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, product_id, description, quantity, unit_price, discount_percent, tax_percent, line_total, position
		  FROM %s
		 WHERE company_id = $1 AND %s = $2
		 ORDER BY position`, t.docCol, t.name, t.docCol)
	rows, err := q.Query(ctx, query, companyID, docID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var items []entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		var productID *string
		if err := rows.Scan(&it.ID, &it.DocumentID, &productID, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.DiscountPercent, &it.TaxPercent, &it.LineTotal, &it.Position); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		it.ProductID = deref(productID)
		items = append(items, it)
	}
	return items, rows.Err()
}
