package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/analytics"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/cache"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

var (
	t0    = time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)
	scope = tenant.Scope{CompanyID: "c1", UserID: "u1", Role: entity.RoleAdmin}
)

func seedLead(t *testing.T, db *memstore.DB, id, company string, status entity.LeadStatus, assignee string) {
	t.Helper()
	require.NoError(t, db.Store().Leads.Create(context.Background(), &entity.Lead{
		ID: id, CompanyID: company, FirstName: id, Status: status, Source: entity.SourceWebsite,
		AssignedTo: assignee, EstimatedValue: decimal.Zero, CreatedAt: t0,
	}))
}

func seedInvoice(t *testing.T, db *memstore.DB, id, company string, status entity.InvoiceStatus, total string, created time.Time) {
	t.Helper()
	require.NoError(t, db.Store().Invoices.Create(context.Background(), &entity.Invoice{
		ID: id, CompanyID: company, Number: "INV-" + id, Status: status,
		Totals:    entity.Totals{Total: decimal.RequireFromString(total)},
		CreatedAt: created, IssueDate: created,
	}))
}

// ──── Valores por defecto ─────────────────────────────────────────────────────

func TestCompute_EmpresaVaciaTodoEnCero(t *testing.T) {
	db := memstore.New()
	uc := analytics.NewDashboardUseCase(db.Analytics(), nil, logger.Nop()).WithClock(func() time.Time { return t0 })

	snap := uc.Compute(context.Background(), "vacia")

	assert.Zero(t, snap.TotalLeads)
	assert.True(t, snap.TotalRevenue.IsZero())
	assert.Equal(t, 0.0, snap.ConversionRate)
	assert.False(t, snap.Degraded)
	assert.Len(t, snap.LeadsByStatus, len(entity.LeadStatuses))
	for _, n := range snap.LeadsByStatus {
		assert.Zero(t, n)
	}
	require.Len(t, snap.MonthlyRevenue, 6)
	assert.Equal(t, "2025-12", snap.MonthlyRevenue[0].Month)
	assert.Equal(t, "2026-05", snap.MonthlyRevenue[5].Month)
	assert.Equal(t, "Mayo 2026", snap.MonthlyRevenue[5].Label)
	require.Len(t, snap.Pipeline, 4)
	assert.Equal(t, "prospect", snap.Pipeline[0].Stage)
	assert.NotNil(t, snap.RecentLeads)
	assert.NotNil(t, snap.TopUsers)
}

// ──── Agregación ──────────────────────────────────────────────────────────────

func TestCompute_AgregaSoloLaEmpresa(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	require.NoError(t, db.Store().Users.Create(ctx, &entity.User{ID: "u1", CompanyID: "c1", Email: "ana@acme.io", FirstName: "Ana", IsActive: true}))

	seedLead(t, db, "l1", "c1", entity.LeadProspect, "u1")
	seedLead(t, db, "l2", "c1", entity.LeadClosedWon, "u1")
	seedLead(t, db, "l3", "c1", entity.LeadQualified, "")
	seedLead(t, db, "otro", "c2", entity.LeadProspect, "")
	require.NoError(t, db.Store().Customers.Create(ctx, &entity.Customer{ID: "cu1", CompanyID: "c1", CreatedAt: t0}))

	seedInvoice(t, db, "i1", "c1", entity.InvoicePaid, "100.50", t0)
	seedInvoice(t, db, "i2", "c1", entity.InvoicePaid, "50", t0.AddDate(0, -2, 0))
	seedInvoice(t, db, "i3", "c1", entity.InvoiceSent, "999", t0)
	seedInvoice(t, db, "i4", "c2", entity.InvoicePaid, "5000", t0)

	uc := analytics.NewDashboardUseCase(db.Analytics(), nil, logger.Nop()).WithClock(func() time.Time { return t0 })
	snap := uc.Compute(ctx, "c1")

	assert.Equal(t, 3, snap.TotalLeads)
	assert.Equal(t, 1, snap.TotalCustomers)
	assert.Equal(t, 3, snap.TotalInvoices)
	assert.True(t, decimal.RequireFromString("150.50").Equal(snap.TotalRevenue), snap.TotalRevenue.String())
	assert.Equal(t, 33.3, snap.ConversionRate)
	assert.Equal(t, 1, snap.LeadsByStatus["closed_won"])
	assert.Equal(t, 0, snap.LeadsByStatus["negotiation"])

	assert.True(t, decimal.RequireFromString("50").Equal(snap.MonthlyRevenue[3].Revenue), "marzo")
	assert.True(t, snap.MonthlyRevenue[4].Revenue.IsZero(), "abril")
	assert.True(t, decimal.RequireFromString("100.50").Equal(snap.MonthlyRevenue[5].Revenue), "mayo")

	require.Len(t, snap.TopUsers, 1)
	assert.Equal(t, "u1", snap.TopUsers[0].UserID)
	assert.Equal(t, 2, snap.TopUsers[0].AssignedLeads)
	assert.Equal(t, 1, snap.TopUsers[0].ConvertedLeads)
	assert.Len(t, snap.RecentLeads, 3)
}

// ──── Degradación ─────────────────────────────────────────────────────────────

type failingTotals struct {
	repository.AnalyticsRepository
}

func (failingTotals) Totals(context.Context, string) (repository.Totals, error) {
	return repository.Totals{}, errors.New("timeout")
}

// revenueInZone devuelve los meses en otra zona horaria, como pgx con time.Local.
type revenueInZone struct {
	repository.AnalyticsRepository
	loc *time.Location
}

func (r revenueInZone) MonthlyRevenue(context.Context, string, time.Time) ([]repository.MonthRevenue, error) {
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).In(r.loc)
	return []repository.MonthRevenue{{Month: march, Total: decimal.NewFromInt(100)}}, nil
}

func TestCompute_MesDeIngresosNoDependeDeLaZona(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	db := memstore.New()
	repo := revenueInZone{AnalyticsRepository: db.Analytics(), loc: bogota}
	uc := analytics.NewDashboardUseCase(repo, nil, logger.Nop()).
		WithClock(func() time.Time { return t0.In(bogota) })

	snap := uc.Compute(context.Background(), "c1")

	require.Len(t, snap.MonthlyRevenue, 6)
	assert.Equal(t, "2026-02", snap.MonthlyRevenue[2].Month)
	assert.True(t, snap.MonthlyRevenue[2].Revenue.IsZero(), "febrero")
	assert.Equal(t, "2026-03", snap.MonthlyRevenue[3].Month)
	assert.True(t, decimal.NewFromInt(100).Equal(snap.MonthlyRevenue[3].Revenue), "marzo")
}

func TestGet_ConsultaFallidaDegradaYNoCachea(t *testing.T) {
	db := memstore.New()
	seedLead(t, db, "l1", "c1", entity.LeadProspect, "")
	store := cache.NewMemoryStore()
	sc := analytics.NewSnapshotCache(store, 0, logger.Nop())
	uc := analytics.NewDashboardUseCase(failingTotals{db.Analytics()}, sc, logger.Nop())

	snap, err := uc.Get(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, snap.Degraded)
	assert.Zero(t, snap.TotalLeads)
	assert.Equal(t, 1, snap.LeadsByStatus["prospect"], "los demás widgets siguen calculándose")

	_, ok, _ := store.Get(context.Background(), analytics.SnapshotKey("c1", "u1"))
	assert.False(t, ok)
}

func TestGet_ScopeIncompleto(t *testing.T) {
	uc := analytics.NewDashboardUseCase(memstore.New().Analytics(), nil, nil)
	_, err := uc.Get(context.Background(), tenant.Scope{CompanyID: "c1"})
	assert.Error(t, err)
}
