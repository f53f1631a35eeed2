package dto

import "time"

// AuditLogResponse fila de auditoría.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogListResponse página de auditoría.
type AuditLogListResponse struct {
	AuditLogs  []AuditLogResponse `json:"audit_logs"`
	Pagination Pagination         `json:"pagination"`
}
