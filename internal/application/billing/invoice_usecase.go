package billing

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
	"github.com/jhoicas/SalesERP-api/internal/domain/sales"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
)

// InvoiceUseCase alta, cobro y duplicado de facturas.
type InvoiceUseCase struct {
	store repository.Store
	tx    repository.TxRunner
	now   func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(store repository.Store, tx repository.TxRunner) *InvoiceUseCase {
	return &InvoiceUseCase{store: store, tx: tx, now: time.Now}
}

func (uc *InvoiceUseCase) load(ctx context.Context, s repository.Store, scope tenant.Scope, id string) (*entity.Invoice, error) {
	inv, err := s.Invoices.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, fmt.Errorf("facturas: obtener: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

func (uc *InvoiceUseCase) record(ctx context.Context, s repository.Store, scope tenant.Scope, action, msg, id string) error {
	return audit.Write(ctx, s.AuditLogs, audit.Entry{
		CompanyID: scope.CompanyID, UserID: scope.UserID, Action: action,
		Message: msg, ResourceType: "invoice", ResourceID: id,
	})
}

// Create factura directa (sin cotización) en draft.
func (uc *InvoiceUseCase) Create(ctx context.Context, scope tenant.Scope, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	now := uc.now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  scope.CompanyID,
		CustomerID: in.CustomerID,
		Number:     sales.DocumentNumber(sales.InvoicePrefix, now),
		Subject:    strings.TrimSpace(in.Subject),
		Status:     entity.InvoiceDraft,
		IssueDate:  now,
		DueDate:    in.DueDate,
		Notes:      in.Notes,
		CreatedBy:  scope.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if inv.Subject == "" {
		return nil, fmt.Errorf("%w: subject es requerido", domain.ErrInvalidInput)
	}
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if _, err := checkCustomer(ctx, s, scope.CompanyID, inv.CustomerID); err != nil {
			return err
		}
		items, err := buildItems(ctx, s, scope.CompanyID, inv.ID, in.Items)
		if err != nil {
			return err
		}
		inv.Items = items
		inv.Totals = sales.Recompute(items)
		if err := s.Invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("facturas: crear: %w", err)
		}
		return uc.record(ctx, s, scope, entity.AuditInvoiceCreated, "Factura creada: "+inv.Number, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToInvoiceResponse(inv)
	return &out, nil
}

// Get devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, scope tenant.Scope, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, uc.store, scope, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToInvoiceResponse(inv)
	return &out, nil
}

// List página de facturas. status vacío no filtra.
func (uc *InvoiceUseCase) List(ctx context.Context, scope tenant.Scope, status string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	var st entity.InvoiceStatus
	if status != "" {
		var err error
		if st, err = entity.ParseInvoiceStatus(status); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	page.Normalize()
	list, total, err := uc.store.Invoices.List(ctx, scope.CompanyID, st, page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("facturas: listar: %w", err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.ToInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{Invoices: out, Pagination: dto.NewPagination(page, total)}, nil
}

// Update edita asunto, vencimiento y notas. Pagadas y anuladas no se editan.
func (uc *InvoiceUseCase) Update(ctx context.Context, scope tenant.Scope, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject es requerido", domain.ErrInvalidInput)
	}
	var updated *entity.Invoice
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		inv, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if inv.Status == entity.InvoicePaid || inv.Status == entity.InvoiceCancelled {
			return fmt.Errorf("factura %s en estado %s: %w", inv.Number, inv.Status, domain.ErrInvalidTransition)
		}
		inv.Subject = subject
		inv.DueDate = in.DueDate
		inv.Notes = in.Notes
		inv.UpdatedAt = uc.now()
		if err := s.Invoices.Update(ctx, inv); err != nil {
			return fmt.Errorf("facturas: actualizar: %w", err)
		}
		updated = inv
		return uc.record(ctx, s, scope, entity.AuditInvoiceUpdated, "Factura actualizada: "+inv.Number, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToInvoiceResponse(updated)
	return &out, nil
}

// MarkPaid registra el cobro. paidAt nil usa la hora actual.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, scope tenant.Scope, id string, paidAt *time.Time) (*dto.InvoiceResponse, error) {
	var updated *entity.Invoice
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		inv, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if !inv.Status.CanMarkPaid() {
			return fmt.Errorf("factura %s en estado %s: %w", inv.Number, inv.Status, domain.ErrInvalidTransition)
		}
		now := uc.now()
		at := now
		if paidAt != nil {
			at = *paidAt
		}
		inv.Status = entity.InvoicePaid
		inv.PaidAt = &at
		inv.UpdatedAt = now
		if err := s.Invoices.Update(ctx, inv); err != nil {
			return fmt.Errorf("facturas: marcar pagada: %w", err)
		}
		updated = inv
		return uc.record(ctx, s, scope, entity.AuditInvoicePaid,
			fmt.Sprintf("Factura %s pagada: %s", inv.Number, inv.Total.StringFixed(2)), inv.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToInvoiceResponse(updated)
	return &out, nil
}

// Duplicate copia la factura en draft con número nuevo, sin cotización ni pago.
func (uc *InvoiceUseCase) Duplicate(ctx context.Context, scope tenant.Scope, id string) (*dto.InvoiceResponse, error) {
	var dup *entity.Invoice
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		src, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		now := uc.now()
		c := *src
		c.ID = uuid.New().String()
		c.Number = sales.DocumentNumber(sales.InvoicePrefix, now)
		c.Subject = CopyPrefix + src.Subject
		c.Status = entity.InvoiceDraft
		c.QuotationID = ""
		c.PaidAt = nil
		c.IssueDate = now
		c.CreatedBy = scope.UserID
		c.CreatedAt = now
		c.UpdatedAt = now
		c.Items = cloneItems(src.Items, c.ID)
		if err := s.Invoices.Create(ctx, &c); err != nil {
			return fmt.Errorf("facturas: duplicar: %w", err)
		}
		dup = &c
		return uc.record(ctx, s, scope, entity.AuditInvoiceDuplicated,
			fmt.Sprintf("Factura %s duplicada como %s", src.Number, c.Number), c.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToInvoiceResponse(dup)
	return &out, nil
}
