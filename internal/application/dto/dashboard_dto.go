package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSnapshot respuesta de GET /api/v1/dashboard.
// Es también el valor que se guarda en cache (ver analytics.SnapshotCache).
type DashboardSnapshot struct {
	TotalLeads      int             `json:"total_leads"`
	TotalCustomers  int             `json:"total_customers"`
	TotalQuotations int             `json:"total_quotations"`
	TotalInvoices   int             `json:"total_invoices"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`   // facturas paid
	ConversionRate  float64         `json:"conversion_rate"` // porcentaje, 1 decimal

	LeadsByStatus  map[string]int        `json:"leads_by_status"`
	MonthlyRevenue []MonthlyRevenuePoint `json:"monthly_revenue"` // 6 meses, del más antiguo al actual
	Pipeline       []PipelineStage       `json:"pipeline"`

	RecentActivities []ActivityResponse `json:"recent_activities"`
	RecentLeads      []LeadResponse     `json:"recent_leads"`
	UpcomingTasks    []TaskResponse     `json:"upcoming_tasks"`
	TopUsers         []TopUserDTO       `json:"top_users"`

	GeneratedAt time.Time `json:"generated_at"`
	// Degraded indica que alguna consulta falló y sus campos quedaron en cero.
	Degraded bool `json:"degraded,omitempty"`
}

// MonthlyRevenuePoint ingreso cobrado de un mes.
type MonthlyRevenuePoint struct {
	Month   string          `json:"month"` // 2026-05
	Label   string          `json:"label"` // Mayo 2026
	Revenue decimal.Decimal `json:"revenue"`
}

// PipelineStage conteo de una etapa del pipeline.
type PipelineStage struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// TopUserDTO usuario del ranking por leads asignados.
type TopUserDTO struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	AssignedLeads  int    `json:"assigned_leads"`
	ConvertedLeads int    `json:"converted_leads"`
}
