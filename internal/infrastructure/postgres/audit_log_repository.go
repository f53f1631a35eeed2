package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo escribe y lee audit_logs. La tabla es append-only.
type AuditLogRepo struct {
	q Querier
}

func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

const auditLogColumns = `id, company_id, user_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at`

func (r *AuditLogRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	details := l.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO audit_logs (`+auditLogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, l.CompanyID, nullIfEmpty(l.UserID), l.Action, nullIfEmpty(l.ResourceType), nullIfEmpty(l.ResourceID),
		raw, nullIfEmpty(l.IPAddress), nullIfEmpty(l.UserAgent), l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List más recientes primero.
func (r *AuditLogRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.AuditLog, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+auditLogColumns+` FROM audit_logs
		 WHERE company_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var userID, resType, resID, ip, ua *string
		var raw []byte
		if err := rows.Scan(&l.ID, &l.CompanyID, &userID, &l.Action, &resType, &resID, &raw, &ip, &ua, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &l.Details); err != nil {
				return nil, 0, fmt.Errorf("decode audit details: %w", err)
			}
		}
		l.UserID, l.ResourceType, l.ResourceID = deref(userID), deref(resType), deref(resID)
		l.IPAddress, l.UserAgent = deref(ip), deref(ua)
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
