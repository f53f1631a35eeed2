// Package audit registra las acciones que cambian estado en audit_logs.
//
// Dos variantes:
//   - Write: estricta, para usar dentro de TxRunner.WithinTx junto a la entidad.
//     Si falla, la transacción completa hace rollback.
//   - Recorder.Record: best-effort, para acciones sin entidad que proteger
//     (login, por ejemplo). Nunca devuelve error al llamador.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// Entry una acción a registrar.
type Entry struct {
	CompanyID    string
	UserID       string
	Action       string
	Message      string
	ResourceType string
	ResourceID   string
}

// RequestMeta datos del request HTTP que originó la acción.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type metaKey struct{}

// WithRequestMeta guarda ip y user agent en ctx para que Write los incluya.
func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

func metaFrom(ctx context.Context) (RequestMeta, bool) {
	m, ok := ctx.Value(metaKey{}).(RequestMeta)
	return m, ok
}

// clock reemplazable en tests.
var clock = time.Now

func newLog(ctx context.Context, e Entry) *entity.AuditLog {
	details := map[string]any{"message": e.Message}
	l := &entity.AuditLog{
		ID:           uuid.New().String(),
		CompanyID:    e.CompanyID,
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      details,
		CreatedAt:    clock(),
	}
	if m, ok := metaFrom(ctx); ok {
		details["ip"] = m.IP
		details["user_agent"] = m.UserAgent
		l.IPAddress = m.IP
		l.UserAgent = m.UserAgent
	}
	return l
}

// Write inserta la fila con el repositorio recibido (normalmente el de la tx en curso).
func Write(ctx context.Context, repo repository.AuditLogRepository, e Entry) error {
	if e.CompanyID == "" || e.Action == "" {
		return fmt.Errorf("audit: company_id y action son obligatorios")
	}
	if err := repo.Create(ctx, newLog(ctx, e)); err != nil {
		return fmt.Errorf("audit %s: %w", e.Action, err)
	}
	return nil
}

// Recorder variante best-effort sobre el repositorio del pool.
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{repo: repo, log: log}
}

// Record intenta registrar la acción. Devuelve false si no pudo; el error queda en el log.
func (r *Recorder) Record(ctx context.Context, e Entry) bool {
	if err := Write(ctx, r.repo, e); err != nil {
		r.log.Warn().Err(err).
			Str("company_id", e.CompanyID).
			Str("user_id", e.UserID).
			Str("action", e.Action).
			Msg("no se pudo registrar auditoría")
		return false
	}
	return true
}

// List página de auditoría de la empresa, más reciente primero.
func (r *Recorder) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.AuditLogListResponse, error) {
	page.Normalize()
	logs, total, err := r.repo.List(ctx, companyID, page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("audit: listar: %w", err)
	}
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			Details:      l.Details,
			IPAddress:    l.IPAddress,
			CreatedAt:    l.CreatedAt,
		})
	}
	return &dto.AuditLogListResponse{AuditLogs: out, Pagination: dto.NewPagination(page, total)}, nil
}
