package billing

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/sales"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// QuotationUseCase ciclo de vida de las cotizaciones.
//
// Duplicar y convertir copian los totales de cabecera tal cual; Recompute es la
// única operación que los vuelve a derivar de las líneas.
type QuotationUseCase struct {
	store  repository.Store
	tx     repository.TxRunner
	pdf    *PDFUseCase
	mailer ports.Mailer
	log    *logger.Logger
	now    func() time.Time
}

// NewQuotationUseCase construye el caso de uso. pdf y mailer solo se usan en Send.
func NewQuotationUseCase(store repository.Store, tx repository.TxRunner, pdf *PDFUseCase, mailer ports.Mailer, log *logger.Logger) *QuotationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &QuotationUseCase{store: store, tx: tx, pdf: pdf, mailer: mailer, log: log, now: time.Now}
}

func (uc *QuotationUseCase) load(ctx context.Context, s repository.Store, scope tenant.Scope, id string) (*entity.Quotation, error) {
	q, err := s.Quotations.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, fmt.Errorf("cotizaciones: obtener: %w", err)
	}
	if q == nil {
		return nil, fmt.Errorf("cotización %s: %w", id, domain.ErrNotFound)
	}
	return q, nil
}

func (uc *QuotationUseCase) record(ctx context.Context, s repository.Store, scope tenant.Scope, action, msg, id string) error {
	return audit.Write(ctx, s.AuditLogs, audit.Entry{
		CompanyID: scope.CompanyID, UserID: scope.UserID, Action: action,
		Message: msg, ResourceType: "quotation", ResourceID: id,
	})
}

// Create alta de cotización en draft con totales calculados desde las líneas.
func (uc *QuotationUseCase) Create(ctx context.Context, scope tenant.Scope, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	now := uc.now()
	q := &entity.Quotation{
		ID:         uuid.New().String(),
		CompanyID:  scope.CompanyID,
		CustomerID: in.CustomerID,
		Number:     sales.DocumentNumber(sales.QuotationPrefix, now),
		Subject:    strings.TrimSpace(in.Subject),
		Status:     entity.QuotationDraft,
		ValidUntil: in.ValidUntil,
		Notes:      in.Notes,
		CreatedBy:  scope.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if q.Subject == "" {
		return nil, fmt.Errorf("%w: subject es requerido", domain.ErrInvalidInput)
	}
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		if _, err := checkCustomer(ctx, s, scope.CompanyID, q.CustomerID); err != nil {
			return err
		}
		items, err := buildItems(ctx, s, scope.CompanyID, q.ID, in.Items)
		if err != nil {
			return err
		}
		q.Items = items
		q.Totals = sales.Recompute(q.Items)
		if err := s.Quotations.Create(ctx, q); err != nil {
			return fmt.Errorf("cotizaciones: crear: %w", err)
		}
		return uc.record(ctx, s, scope, entity.AuditQuotationCreated, "Cotización creada: "+q.Number, q.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToQuotationResponse(q)
	return &out, nil
}

// Get devuelve la cotización con sus líneas.
func (uc *QuotationUseCase) Get(ctx context.Context, scope tenant.Scope, id string) (*dto.QuotationResponse, error) {
	q, err := uc.load(ctx, uc.store, scope, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToQuotationResponse(q)
	return &out, nil
}

// List página de cotizaciones (sin líneas). status vacío no filtra.
func (uc *QuotationUseCase) List(ctx context.Context, scope tenant.Scope, status string, page dto.PageRequest) (*dto.QuotationListResponse, error) {
	var st entity.QuotationStatus
	if status != "" {
		var err error
		if st, err = entity.ParseQuotationStatus(status); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	page.Normalize()
	list, total, err := uc.store.Quotations.List(ctx, scope.CompanyID, st, page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("cotizaciones: listar: %w", err)
	}
	out := make([]dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		out = append(out, dto.ToQuotationResponse(q))
	}
	return &dto.QuotationListResponse{Quotations: out, Pagination: dto.NewPagination(page, total)}, nil
}

// Update edita cliente, asunto, validez y notas. Con Items reemplaza las líneas y recalcula totales.
// Una cotización convertida ya no se edita.
func (uc *QuotationUseCase) Update(ctx context.Context, scope tenant.Scope, id string, in dto.UpdateQuotationRequest) (*dto.QuotationResponse, error) {
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject es requerido", domain.ErrInvalidInput)
	}
	var updated *entity.Quotation
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		q, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if q.Status == entity.QuotationConverted {
			return fmt.Errorf("cotización %s ya convertida: %w", q.Number, domain.ErrInvalidTransition)
		}
		if in.CustomerID != "" && in.CustomerID != q.CustomerID {
			if _, err := checkCustomer(ctx, s, scope.CompanyID, in.CustomerID); err != nil {
				return err
			}
			q.CustomerID = in.CustomerID
		}
		q.Subject = subject
		q.ValidUntil = in.ValidUntil
		q.Notes = in.Notes
		replace := len(in.Items) > 0
		if replace {
			items, err := buildItems(ctx, s, scope.CompanyID, q.ID, in.Items)
			if err != nil {
				return err
			}
			q.Items = items
			q.Totals = sales.Recompute(items)
		}
		q.UpdatedAt = uc.now()
		if err := s.Quotations.Update(ctx, q, replace); err != nil {
			return fmt.Errorf("cotizaciones: actualizar: %w", err)
		}
		updated = q
		return uc.record(ctx, s, scope, entity.AuditQuotationUpdated, "Cotización actualizada: "+q.Number, q.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToQuotationResponse(updated)
	return &out, nil
}

// Delete borra la cotización y sus líneas. Si ya se convirtió, la factura se conserva sin referencia.
func (uc *QuotationUseCase) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	return uc.tx.WithinTx(ctx, func(s repository.Store) error {
		q, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if err := s.Quotations.Delete(ctx, scope.CompanyID, q.ID); err != nil {
			return fmt.Errorf("cotizaciones: borrar: %w", err)
		}
		return uc.record(ctx, s, scope, entity.AuditQuotationDeleted, "Cotización eliminada: "+q.Number, q.ID)
	})
}

// UpdateStatus cambio manual de estado. converted no se alcanza por aquí.
func (uc *QuotationUseCase) UpdateStatus(ctx context.Context, scope tenant.Scope, id, status string) (*dto.QuotationResponse, error) {
	next, err := entity.ParseQuotationStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var updated *entity.Quotation
	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		q, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if !q.Status.CanTransitionTo(next) {
			return fmt.Errorf("cotización %s: %s -> %s: %w", q.Number, q.Status, next, domain.ErrInvalidTransition)
		}
		q.Status = next
		q.UpdatedAt = uc.now()
		if err := s.Quotations.Update(ctx, q, false); err != nil {
			return fmt.Errorf("cotizaciones: estado: %w", err)
		}
		updated = q
		return uc.record(ctx, s, scope, entity.AuditQuotationStatus, "Estado de cotización actualizado a: "+string(next), q.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToQuotationResponse(updated)
	return &out, nil
}

// Recompute vuelve a derivar line_total y los totales de cabecera desde las líneas.
func (uc *QuotationUseCase) Recompute(ctx context.Context, scope tenant.Scope, id string) (*dto.QuotationResponse, error) {
	var updated *entity.Quotation
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		q, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if q.Status == entity.QuotationConverted {
			return fmt.Errorf("cotización %s ya convertida: %w", q.Number, domain.ErrInvalidTransition)
		}
		q.Totals = sales.Recompute(q.Items)
		q.UpdatedAt = uc.now()
		if err := s.Quotations.Update(ctx, q, true); err != nil {
			return fmt.Errorf("cotizaciones: recalcular: %w", err)
		}
		updated = q
		return uc.record(ctx, s, scope, entity.AuditQuotationRecomputed,
			fmt.Sprintf("Totales recalculados: %s", q.Total.StringFixed(2)), q.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToQuotationResponse(updated)
	return &out, nil
}

// Duplicate crea una copia en draft con número nuevo y asunto "Copy of ...".
func (uc *QuotationUseCase) Duplicate(ctx context.Context, scope tenant.Scope, id string) (*dto.QuotationResponse, error) {
	var dup *entity.Quotation
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		src, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		now := uc.now()
		copyQ := *src
		copyQ.ID = uuid.New().String()
		copyQ.Number = sales.DocumentNumber(sales.QuotationPrefix, now)
		copyQ.Subject = CopyPrefix + src.Subject
		copyQ.Status = entity.QuotationDraft
		copyQ.ConvertedInvoiceID = ""
		copyQ.CreatedBy = scope.UserID
		copyQ.CreatedAt = now
		copyQ.UpdatedAt = now
		copyQ.Items = cloneItems(src.Items, copyQ.ID)
		if err := s.Quotations.Create(ctx, &copyQ); err != nil {
			return fmt.Errorf("cotizaciones: duplicar: %w", err)
		}
		dup = &copyQ
		return uc.record(ctx, s, scope, entity.AuditQuotationDuplicated,
			fmt.Sprintf("Cotización %s duplicada como %s", src.Number, copyQ.Number), copyQ.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToQuotationResponse(dup)
	return &out, nil
}

// Convert genera la factura desde la cotización y la marca converted.
// La factura hereda cliente, asunto, notas, líneas y totales sin recalcular;
// su vencimiento es la validez de la cotización.
func (uc *QuotationUseCase) Convert(ctx context.Context, scope tenant.Scope, id string) (*dto.ConvertQuotationResponse, error) {
	var (
		quotation *entity.Quotation
		invoice   *entity.Invoice
	)
	err := uc.tx.WithinTx(ctx, func(s repository.Store) error {
		q, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if !q.Status.CanConvert() {
			return fmt.Errorf("cotización %s en estado %s: %w", q.Number, q.Status, domain.ErrInvalidTransition)
		}
		now := uc.now()
		inv := &entity.Invoice{
			ID:          uuid.New().String(),
			CompanyID:   scope.CompanyID,
			CustomerID:  q.CustomerID,
			QuotationID: q.ID,
			Number:      sales.DocumentNumber(sales.InvoicePrefix, now),
			Subject:     q.Subject,
			Status:      entity.InvoiceDraft,
			IssueDate:   now,
			DueDate:     q.ValidUntil,
			Totals:      q.Totals,
			Notes:       q.Notes,
			CreatedBy:   scope.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		inv.Items = cloneItems(q.Items, inv.ID)
		if err := s.Invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("cotizaciones: crear factura: %w", err)
		}
		q.Status = entity.QuotationConverted
		q.ConvertedInvoiceID = inv.ID
		q.UpdatedAt = now
		if err := s.Quotations.Update(ctx, q, false); err != nil {
			return fmt.Errorf("cotizaciones: marcar convertida: %w", err)
		}
		quotation, invoice = q, inv
		return uc.record(ctx, s, scope, entity.AuditQuotationConverted,
			"Cotización convertida en factura: "+inv.Number, q.ID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConvertQuotationResponse{
		Quotation: dto.ToQuotationResponse(quotation),
		Invoice:   dto.ToInvoiceResponse(invoice),
	}, nil
}

// Send envía la cotización en PDF al destinatario. Un draft pasa a sent.
// Si el correo falla la cotización no cambia y la respuesta lleva Warning.
func (uc *QuotationUseCase) Send(ctx context.Context, scope tenant.Scope, id string, in dto.SendQuotationRequest) (*dto.SendQuotationResponse, error) {
	to := strings.TrimSpace(in.To)
	if to == "" || !strings.Contains(to, "@") {
		return nil, fmt.Errorf("%w: destinatario inválido", domain.ErrInvalidInput)
	}
	q, err := uc.load(ctx, uc.store, scope, id)
	if err != nil {
		return nil, err
	}
	if q.Status == entity.QuotationConverted {
		return nil, fmt.Errorf("cotización %s ya convertida: %w", q.Number, domain.ErrInvalidTransition)
	}

	pdf, filename, err := uc.pdf.QuotationPDF(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	subject := in.Subject
	if subject == "" {
		subject = "Cotización " + q.Number
	}
	body := nonEmpty(in.Message, "Adjuntamos la cotización "+q.Number+".")
	msg := ports.Email{
		To:      []string{to},
		Subject: subject,
		HTML:    "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n", "<br>") + "</p>",
		Text:    body,
		Attachments: []ports.Attachment{
			{Filename: filename, ContentType: "application/pdf", Content: pdf},
		},
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.log.Warn().Err(err).Str("company_id", scope.CompanyID).Str("quotation", q.Number).Msg("no se pudo enviar la cotización")
		return &dto.SendQuotationResponse{
			Quotation: dto.ToQuotationResponse(q),
			Warning:   "no se pudo enviar el correo; intente de nuevo más tarde",
		}, nil
	}

	err = uc.tx.WithinTx(ctx, func(s repository.Store) error {
		cur, err := uc.load(ctx, s, scope, id)
		if err != nil {
			return err
		}
		if cur.Status == entity.QuotationDraft {
			cur.Status = entity.QuotationSent
			cur.UpdatedAt = uc.now()
			if err := s.Quotations.Update(ctx, cur, false); err != nil {
				return fmt.Errorf("cotizaciones: marcar enviada: %w", err)
			}
		}
		q = cur
		return uc.record(ctx, s, scope, entity.AuditQuotationSent, "Cotización enviada a "+to, cur.ID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.SendQuotationResponse{Quotation: dto.ToQuotationResponse(q)}, nil
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
