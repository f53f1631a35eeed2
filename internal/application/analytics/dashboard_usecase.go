// Package analytics contiene el agregador del dashboard comercial y su cache.
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// Tamaños de los widgets.
const (
	recentActivitiesLimit = 10
	recentLeadsLimit      = 5
	upcomingTasksLimit    = 5
	topUsersLimit         = 5
	trendMonths           = 6
)

// DashboardUseCase arma el snapshot del dashboard por empresa.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// Las consultas corren en paralelo; si alguna falla su widget queda en cero,
// el snapshot se marca Degraded y no se guarda en cache.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         *SnapshotCache
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil (sin cache).
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, cache *SnapshotCache, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, cache: cache, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// Get devuelve el snapshot desde la cache o lo calcula y lo guarda.
func (uc *DashboardUseCase) Get(ctx context.Context, scope tenant.Scope) (*dto.DashboardSnapshot, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("dashboard: scope incompleto")
	}
	if uc.cache != nil {
		if snap, ok := uc.cache.Get(ctx, scope); ok {
			return snap, nil
		}
	}
	snap := uc.Compute(ctx, scope.CompanyID)
	if uc.cache != nil && !snap.Degraded {
		uc.cache.Set(ctx, scope, snap)
	}
	return snap, nil
}

// Refresh invalida el snapshot del usuario; la próxima lectura lo recalcula.
func (uc *DashboardUseCase) Refresh(ctx context.Context, scope tenant.Scope) error {
	if uc.cache == nil {
		return nil
	}
	if err := uc.cache.Invalidate(ctx, scope); err != nil {
		return fmt.Errorf("dashboard: invalidar cache: %w", err)
	}
	return nil
}

type result[T any] struct {
	val T
	err error
}

// async ejecuta fn en una goroutine y entrega el resultado en un canal con buffer 1.
func async[T any](fn func() (T, error)) <-chan result[T] {
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{v, err}
	}()
	return ch
}

// Compute calcula el snapshot sin pasar por la cache. Nunca falla.
func (uc *DashboardUseCase) Compute(ctx context.Context, companyID string) *dto.DashboardSnapshot {
	now := uc.now()
	// Los meses se cuentan en UTC, igual que el date_trunc del repositorio.
	trendStart := monthStart(now.UTC()).AddDate(0, -(trendMonths - 1), 0)
	repo := uc.analyticsRepo

	// ── Consultas en paralelo ─────────────────────────────────────────────────
	totalsCh := async(func() (repository.Totals, error) { return repo.Totals(ctx, companyID) })
	statusCh := async(func() (map[entity.LeadStatus]int, error) { return repo.LeadsByStatus(ctx, companyID) })
	revenueCh := async(func() ([]repository.MonthRevenue, error) { return repo.MonthlyRevenue(ctx, companyID, trendStart) })
	activitiesCh := async(func() ([]*entity.Activity, error) {
		return repo.RecentActivities(ctx, companyID, recentActivitiesLimit)
	})
	leadsCh := async(func() ([]*entity.Lead, error) { return repo.RecentLeads(ctx, companyID, recentLeadsLimit) })
	tasksCh := async(func() ([]*entity.Task, error) {
		return repo.UpcomingTasks(ctx, companyID, now, upcomingTasksLimit)
	})
	topCh := async(func() ([]repository.UserPerformance, error) { return repo.TopUsers(ctx, companyID, topUsersLimit) })

	snap := &dto.DashboardSnapshot{
		TotalRevenue:     decimal.Zero,
		LeadsByStatus:    map[string]int{},
		RecentActivities: []dto.ActivityResponse{},
		RecentLeads:      []dto.LeadResponse{},
		UpcomingTasks:    []dto.TaskResponse{},
		TopUsers:         []dto.TopUserDTO{},
		GeneratedAt:      now,
	}
	degrade := func(widget string, err error) {
		snap.Degraded = true
		uc.log.Warn().Err(err).Str("company_id", companyID).Str("widget", widget).Msg("dashboard: consulta fallida, se usa valor por defecto")
	}

	// ── Totales y conversión ──────────────────────────────────────────────────
	if r := <-totalsCh; r.err != nil {
		degrade("totals", r.err)
	} else {
		snap.TotalLeads = r.val.Leads
		snap.TotalCustomers = r.val.Customers
		snap.TotalQuotations = r.val.Quotations
		snap.TotalInvoices = r.val.Invoices
		snap.TotalRevenue = r.val.PaidRevenue.Round(2)
		snap.ConversionRate = conversionRate(r.val.Customers, r.val.Leads)
	}

	// ── Histograma y pipeline ─────────────────────────────────────────────────
	byStatus := map[entity.LeadStatus]int{}
	if r := <-statusCh; r.err != nil {
		degrade("leads_by_status", r.err)
	} else {
		byStatus = r.val
	}
	for _, st := range entity.LeadStatuses {
		snap.LeadsByStatus[string(st)] = byStatus[st]
	}
	snap.Pipeline = make([]dto.PipelineStage, 0, len(entity.PipelineStages))
	for _, st := range entity.PipelineStages {
		snap.Pipeline = append(snap.Pipeline, dto.PipelineStage{Stage: string(st), Count: byStatus[st]})
	}

	// ── Tendencia mensual ─────────────────────────────────────────────────────
	var months []repository.MonthRevenue
	if r := <-revenueCh; r.err != nil {
		degrade("monthly_revenue", r.err)
	} else {
		months = r.val
	}
	snap.MonthlyRevenue = fillMonths(trendStart, months)

	// ── Listas recientes ──────────────────────────────────────────────────────
	if r := <-activitiesCh; r.err != nil {
		degrade("recent_activities", r.err)
	} else {
		for _, a := range r.val {
			snap.RecentActivities = append(snap.RecentActivities, dto.ToActivityResponse(a))
		}
	}
	if r := <-leadsCh; r.err != nil {
		degrade("recent_leads", r.err)
	} else {
		for _, l := range r.val {
			snap.RecentLeads = append(snap.RecentLeads, dto.ToLeadResponse(l))
		}
	}
	if r := <-tasksCh; r.err != nil {
		degrade("upcoming_tasks", r.err)
	} else {
		for _, t := range r.val {
			snap.UpcomingTasks = append(snap.UpcomingTasks, dto.ToTaskResponse(t))
		}
	}
	if r := <-topCh; r.err != nil {
		degrade("top_users", r.err)
	} else {
		for _, u := range r.val {
			snap.TopUsers = append(snap.TopUsers, dto.TopUserDTO{
				UserID:         u.UserID,
				Name:           u.Name,
				AssignedLeads:  u.AssignedLeads,
				ConvertedLeads: u.ConvertedLeads,
			})
		}
	}
	return snap
}

// conversionRate clientes/leads en porcentaje con un decimal; 0 sin leads.
func conversionRate(customers, leads int) float64 {
	if leads == 0 {
		return 0
	}
	return math.Round(float64(customers)/float64(leads)*1000) / 10
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// fillMonths devuelve trendMonths puntos desde start, con cero en los meses sin ingresos.
func fillMonths(start time.Time, rows []repository.MonthRevenue) []dto.MonthlyRevenuePoint {
	byKey := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byKey[r.Month.UTC().Format("2006-01")] = r.Total
	}
	out := make([]dto.MonthlyRevenuePoint, 0, trendMonths)
	for i := 0; i < trendMonths; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		rev, ok := byKey[key]
		if !ok {
			rev = decimal.Zero
		}
		out = append(out, dto.MonthlyRevenuePoint{Month: key, Label: monthLabel(m), Revenue: rev.Round(2)})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
