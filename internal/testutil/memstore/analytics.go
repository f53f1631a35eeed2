package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*Analytics)(nil)

// Analytics implementa AnalyticsRepository sobre las tablas vivas de db.
type Analytics struct {
	db *DB
}

// Analytics devuelve el repositorio de lectura del dashboard.
func (db *DB) Analytics() *Analytics {
	return &Analytics{db: db}
}

func (a *Analytics) tables() (*tables, func()) {
	a.db.mu.Lock()
	return a.db.data, a.db.mu.Unlock
}

func (a *Analytics) Totals(_ context.Context, companyID string) (repository.Totals, error) {
	t, unlock := a.tables()
	defer unlock()
	out := repository.Totals{PaidRevenue: decimal.Zero}
	for _, l := range t.leads {
		if l.CompanyID == companyID {
			out.Leads++
		}
	}
	for _, c := range t.customers {
		if c.CompanyID == companyID {
			out.Customers++
		}
	}
	for _, q := range t.quotations {
		if q.CompanyID == companyID {
			out.Quotations++
		}
	}
	for _, inv := range t.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		out.Invoices++
		if inv.Status == entity.InvoicePaid {
			out.PaidRevenue = out.PaidRevenue.Add(inv.Total)
		}
	}
	return out, nil
}

func (a *Analytics) LeadsByStatus(_ context.Context, companyID string) (map[entity.LeadStatus]int, error) {
	t, unlock := a.tables()
	defer unlock()
	out := map[entity.LeadStatus]int{}
	for _, l := range t.leads {
		if l.CompanyID == companyID {
			out[l.Status]++
		}
	}
	return out, nil
}

func (a *Analytics) MonthlyRevenue(_ context.Context, companyID string, from time.Time) ([]repository.MonthRevenue, error) {
	t, unlock := a.tables()
	defer unlock()
	byMonth := map[time.Time]decimal.Decimal{}
	for _, inv := range t.invoices {
		if inv.CompanyID != companyID || inv.Status != entity.InvoicePaid || inv.CreatedAt.Before(from) {
			continue
		}
		created := inv.CreatedAt.UTC()
		m := time.Date(created.Year(), created.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[m] = byMonth[m].Add(inv.Total)
	}
	out := make([]repository.MonthRevenue, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, repository.MonthRevenue{Month: m, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (a *Analytics) RecentActivities(_ context.Context, companyID string, limit int) ([]*entity.Activity, error) {
	t, unlock := a.tables()
	defer unlock()
	var out []*entity.Activity
	for _, act := range t.activities {
		if act.CompanyID == companyID {
			act := act
			out = append(out, &act)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}

func (a *Analytics) RecentLeads(_ context.Context, companyID string, limit int) ([]*entity.Lead, error) {
	t, unlock := a.tables()
	defer unlock()
	var out []*entity.Lead
	for _, l := range t.leads {
		if l.CompanyID == companyID {
			l := l
			out = append(out, &l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}

func (a *Analytics) UpcomingTasks(_ context.Context, companyID string, now time.Time, limit int) ([]*entity.Task, error) {
	t, unlock := a.tables()
	defer unlock()
	var out []*entity.Task
	for _, task := range t.tasks {
		if task.CompanyID == companyID && task.Status.IsOpen() && task.DueDate != nil && !task.DueDate.Before(now) {
			task := task
			out = append(out, &task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return page(out, limit, 0), nil
}

func (a *Analytics) TopUsers(_ context.Context, companyID string, limit int) ([]repository.UserPerformance, error) {
	t, unlock := a.tables()
	defer unlock()
	perf := map[string]*repository.UserPerformance{}
	for _, l := range t.leads {
		if l.CompanyID != companyID || l.AssignedTo == "" {
			continue
		}
		p, ok := perf[l.AssignedTo]
		if !ok {
			u := t.users[l.AssignedTo]
			p = &repository.UserPerformance{UserID: l.AssignedTo, Name: u.FullName()}
			perf[l.AssignedTo] = p
		}
		p.AssignedLeads++
		if l.Status == entity.LeadClosedWon {
			p.ConvertedLeads++
		}
	}
	out := make([]repository.UserPerformance, 0, len(perf))
	for _, p := range perf {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AssignedLeads == out[j].AssignedLeads {
			return out[i].Name < out[j].Name
		}
		return out[i].AssignedLeads > out[j].AssignedLeads
	})
	return page(out, limit, 0), nil
}

func (a *Analytics) PeriodStats(_ context.Context, companyID string, from, to time.Time) (repository.PeriodStats, error) {
	t, unlock := a.tables()
	defer unlock()
	in := func(ts time.Time) bool { return !ts.Before(from) && ts.Before(to) }
	out := repository.PeriodStats{PaidRevenue: decimal.Zero}
	for _, l := range t.leads {
		if l.CompanyID == companyID && in(l.CreatedAt) {
			out.NewLeads++
		}
	}
	for _, c := range t.customers {
		if c.CompanyID == companyID && in(c.CreatedAt) {
			out.NewCustomers++
		}
	}
	for _, inv := range t.invoices {
		if inv.CompanyID == companyID && inv.Status == entity.InvoicePaid && inv.PaidAt != nil && in(*inv.PaidAt) {
			out.PaidInvoices++
			out.PaidRevenue = out.PaidRevenue.Add(inv.Total)
		}
	}
	return out, nil
}
