package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// Totals conteos globales de la empresa y el ingreso cobrado.
type Totals struct {
	Leads       int
	Customers   int
	Quotations  int
	Invoices    int
	PaidRevenue decimal.Decimal // COALESCE a 0 si no hay facturas pagadas
}

// MonthRevenue ingreso cobrado de un mes (Month = día 1 a las 00:00).
type MonthRevenue struct {
	Month time.Time
	Total decimal.Decimal
}

// UserPerformance ranking de usuarios por leads asignados.
type UserPerformance struct {
	UserID         string
	Name           string
	AssignedLeads  int
	ConvertedLeads int // leads asignados en closed_won
}

// PeriodStats actividad de un rango de fechas (reporte diario).
type PeriodStats struct {
	NewLeads     int
	NewCustomers int
	PaidInvoices int
	PaidRevenue  decimal.Decimal
}

// AnalyticsRepository consultas de lectura para el dashboard y los reportes.
// Todas filtran por company_id y no modifican datos.
type AnalyticsRepository interface {
	Totals(ctx context.Context, companyID string) (Totals, error)
	LeadsByStatus(ctx context.Context, companyID string) (map[entity.LeadStatus]int, error)
	// MonthlyRevenue ingreso de facturas paid agrupado por mes de created_at desde from.
	// Solo devuelve los meses con datos; el caso de uso completa los vacíos.
	MonthlyRevenue(ctx context.Context, companyID string, from time.Time) ([]MonthRevenue, error)
	RecentActivities(ctx context.Context, companyID string, limit int) ([]*entity.Activity, error)
	RecentLeads(ctx context.Context, companyID string, limit int) ([]*entity.Lead, error)
	// UpcomingTasks tareas pending/in_progress con due_date >= now, ascendente.
	UpcomingTasks(ctx context.Context, companyID string, now time.Time, limit int) ([]*entity.Task, error)
	TopUsers(ctx context.Context, companyID string, limit int) ([]UserPerformance, error)
	PeriodStats(ctx context.Context, companyID string, from, to time.Time) (PeriodStats, error)
}
