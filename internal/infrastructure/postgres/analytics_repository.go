package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y los reportes programados.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica (normalmente sobre el pool).
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// Totals una sola ida a la base con subconsultas escalares.
func (r *AnalyticsRepo) Totals(ctx context.Context, companyID string) (repository.Totals, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM leads      WHERE company_id = $1),
	    (SELECT COUNT(*) FROM customers  WHERE company_id = $1),
	    (SELECT COUNT(*) FROM quotations WHERE company_id = $1),
	    (SELECT COUNT(*) FROM invoices   WHERE company_id = $1),
	    (SELECT COALESCE(SUM(total), 0) FROM invoices WHERE company_id = $1 AND status = 'paid')`

	var t repository.Totals
	err := r.q.QueryRow(ctx, query, companyID).Scan(&t.Leads, &t.Customers, &t.Quotations, &t.Invoices, &t.PaidRevenue)
	if err != nil {
		return repository.Totals{}, fmt.Errorf("dashboard totals: %w", err)
	}
	return t, nil
}

func (r *AnalyticsRepo) LeadsByStatus(ctx context.Context, companyID string) (map[entity.LeadStatus]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT status, COUNT(*) FROM leads
		 WHERE company_id = $1
		 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("leads by status: %w", err)
	}
	defer rows.Close()

	out := map[entity.LeadStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan leads by status: %w", err)
		}
		out[entity.LeadStatus(status)] = n
	}
	return out, rows.Err()
}

// MonthlyRevenue agrupa por mes calendario UTC de created_at; los meses sin facturas no aparecen.
// created_at AT TIME ZONE 'UTC' da un timestamp sin zona que pgx devuelve en UTC,
// así el mes no depende del TimeZone de la sesión.
func (r *AnalyticsRepo) MonthlyRevenue(ctx context.Context, companyID string, from time.Time) ([]repository.MonthRevenue, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, COALESCE(SUM(total), 0)
		  FROM invoices
		 WHERE company_id = $1 AND status = 'paid' AND created_at >= $2
		 GROUP BY month
		 ORDER BY month`, companyID, from)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthRevenue
	for rows.Next() {
		var m repository.MonthRevenue
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) RecentActivities(ctx context.Context, companyID string, limit int) ([]*entity.Activity, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+activityColumns+` FROM activities
		 WHERE company_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	return collectActivities(rows)
}

func (r *AnalyticsRepo) RecentLeads(ctx context.Context, companyID string, limit int) ([]*entity.Lead, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		 WHERE company_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent leads: %w", err)
	}
	defer rows.Close()

	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *AnalyticsRepo) UpcomingTasks(ctx context.Context, companyID string, now time.Time, limit int) ([]*entity.Task, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		 WHERE company_id = $1 AND status IN ('pending', 'in_progress') AND due_date >= $2
		 ORDER BY due_date
		 LIMIT $3`, companyID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("upcoming tasks: %w", err)
	}
	return collectTasks(rows)
}

// TopUsers ranking por leads asignados; el join con users se restringe a la misma empresa.
func (r *AnalyticsRepo) TopUsers(ctx context.Context, companyID string, limit int) ([]repository.UserPerformance, error) {
	const query = `
	SELECT
	    u.id,
	    COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), u.email) AS name,
	    COUNT(l.id)                                                 AS assigned_leads,
	    COUNT(l.id) FILTER (WHERE l.status = 'closed_won')          AS converted_leads
	FROM leads l
	JOIN users u ON u.id = l.assigned_to AND u.company_id = l.company_id
	WHERE l.company_id = $1
	GROUP BY u.id, u.first_name, u.last_name, u.email
	ORDER BY assigned_leads DESC, name
	LIMIT $2`

	rows, err := r.q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	defer rows.Close()

	var out []repository.UserPerformance
	for rows.Next() {
		var p repository.UserPerformance
		if err := rows.Scan(&p.UserID, &p.Name, &p.AssignedLeads, &p.ConvertedLeads); err != nil {
			return nil, fmt.Errorf("scan top users: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PeriodStats rango semiabierto [from, to).
func (r *AnalyticsRepo) PeriodStats(ctx context.Context, companyID string, from, to time.Time) (repository.PeriodStats, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM leads     WHERE company_id = $1 AND created_at >= $2 AND created_at < $3),
	    (SELECT COUNT(*) FROM customers WHERE company_id = $1 AND created_at >= $2 AND created_at < $3),
	    (SELECT COUNT(*) FROM invoices  WHERE company_id = $1 AND status = 'paid' AND paid_at >= $2 AND paid_at < $3),
	    (SELECT COALESCE(SUM(total), 0) FROM invoices
	      WHERE company_id = $1 AND status = 'paid' AND paid_at >= $2 AND paid_at < $3)`

	s := repository.PeriodStats{PaidRevenue: decimal.Zero}
	err := r.q.QueryRow(ctx, query, companyID, from, to).Scan(&s.NewLeads, &s.NewCustomers, &s.PaidInvoices, &s.PaidRevenue)
	if err != nil {
		return repository.PeriodStats{}, fmt.Errorf("period stats: %w", err)
	}
	return s, nil
}
