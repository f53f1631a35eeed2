package sales_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/sales"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
)

// seedCompany crea empresa y usuario activo; devuelve el scope de ese usuario.
func seedCompany(t *testing.T, db *memstore.DB, id, subdomain string, role entity.Role) tenant.Scope {
	t.Helper()
	ctx := context.Background()
	c := &entity.Company{ID: id, Name: subdomain, Subdomain: subdomain, IsActive: true, CreatedAt: time.Now()}
	c.ApplyPlan(entity.PlanStarter)
	require.NoError(t, db.Store().Companies.Create(ctx, c))
	u := &entity.User{
		ID: "u-" + id, CompanyID: id, Email: "admin@" + subdomain + ".io", FirstName: "Admin",
		Role: role, IsActive: true, CreatedAt: time.Now(),
	}
	require.NoError(t, db.Store().Users.Create(ctx, u))
	return tenant.Scope{CompanyID: id, UserID: u.ID, Email: u.Email, Role: role}
}

func newLeads(db *memstore.DB) *sales.LeadUseCase {
	return sales.NewLeadUseCase(db.Store(), db)
}

// ──── Conversión ──────────────────────────────────────────────────────────────

func TestConvert_Acme(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()

	lead, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@acme.io", Status: "prospect"})
	require.NoError(t, err)
	assert.Equal(t, "prospect", lead.Status)

	out, err := uc.Convert(ctx, acme, lead.ID)
	require.NoError(t, err)

	assert.Equal(t, "Jane", out.Customer.FirstName)
	assert.Equal(t, "Doe", out.Customer.LastName)
	assert.Equal(t, "jane@acme.io", out.Customer.Email)
	assert.Equal(t, lead.ID, out.Customer.LeadID)
	assert.Equal(t, "closed_won", out.Lead.Status)

	stored, err := uc.Get(ctx, acme, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed_won", stored.Status)

	converted := 0
	for _, a := range db.AuditActions(acme.CompanyID) {
		if a == entity.AuditLeadConverted {
			converted++
		}
	}
	assert.Equal(t, 1, converted)
}

func TestConvert_DosVecesCreaDosClientes(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()

	lead, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", Email: "jane@acme.io"})
	require.NoError(t, err)

	first, err := uc.Convert(ctx, acme, lead.ID)
	require.NoError(t, err)
	second, err := uc.Convert(ctx, acme, lead.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Customer.ID, second.Customer.ID)
	_, total, err := db.Store().Customers.List(ctx, acme.CompanyID, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestConvert_AuditoriaFallidaNoDejaCliente(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()
	lead, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", Email: "jane@acme.io"})
	require.NoError(t, err)

	db.FailAudit = memstore.ErrAuditUnavailable
	_, err = uc.Convert(ctx, acme, lead.ID)
	require.ErrorIs(t, err, memstore.ErrAuditUnavailable)
	db.FailAudit = nil

	_, total, _ := db.Store().Customers.List(ctx, acme.CompanyID, "", 0, 0)
	assert.Zero(t, total)
	stored, _ := uc.Get(ctx, acme, lead.ID)
	assert.Equal(t, "prospect", stored.Status)
}

// ──── Aislamiento por empresa ─────────────────────────────────────────────────

func TestLeads_OtraEmpresaEsNotFound(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	globex := seedCompany(t, db, "c-globex", "globex", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()

	lead, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", Email: "jane@acme.io"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, globex, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Convert(ctx, globex, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.UpdateStatus(ctx, globex, lead.ID, "qualified")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, globex, lead.ID), domain.ErrNotFound)

	list, err := uc.List(ctx, globex, dto.LeadListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Leads)
}

func TestAssign_UsuarioDeOtraEmpresa(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleManager)
	globex := seedCompany(t, db, "c-globex", "globex", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()

	lead, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", Email: "jane@acme.io"})
	require.NoError(t, err)

	_, err = uc.Assign(ctx, acme, lead.ID, globex.UserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Assign(ctx, acme, lead.ID, acme.UserID)
	require.NoError(t, err)
	assert.Equal(t, acme.UserID, out.AssignedTo)
	assert.Contains(t, db.AuditActions(acme.CompanyID), entity.AuditLeadAssigned)
}

// ──── Listado y paginación ────────────────────────────────────────────────────

func TestList_PerPageSeRecortaA100(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()
	for i := 0; i < 120; i++ {
		_, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: fmt.Sprintf("L%d", i), Email: fmt.Sprintf("l%d@acme.io", i)})
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, acme, dto.LeadListQuery{PageRequest: dto.PageRequest{Page: 1, PerPage: 500}})
	require.NoError(t, err)
	assert.Len(t, out.Leads, 100)
	assert.Equal(t, dto.Pagination{Page: 1, Pages: 2, PerPage: 100, Total: 120, HasNext: true, HasPrev: false}, out.Pagination)

	out, err = uc.List(ctx, acme, dto.LeadListQuery{PageRequest: dto.PageRequest{Page: 2, PerPage: 500}})
	require.NoError(t, err)
	assert.Len(t, out.Leads, 20)
	assert.True(t, out.Pagination.HasPrev)
}

func TestList_Filtros(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()
	_, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", Email: "jane@acme.io", Source: "referral"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, acme, dto.LeadRequest{FirstName: "John", Email: "john@initech.io", Status: "qualified", CompanyName: "Initech"})
	require.NoError(t, err)

	out, err := uc.List(ctx, acme, dto.LeadListQuery{Source: "referral"})
	require.NoError(t, err)
	require.Len(t, out.Leads, 1)
	assert.Equal(t, "Jane", out.Leads[0].FirstName)

	out, err = uc.List(ctx, acme, dto.LeadListQuery{Search: "initech"})
	require.NoError(t, err)
	require.Len(t, out.Leads, 1)
	assert.Equal(t, "qualified", out.Leads[0].Status)

	_, err = uc.List(ctx, acme, dto.LeadListQuery{Status: "ganado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──── Validación y estado ─────────────────────────────────────────────────────

func TestCreate_Validaciones(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()

	_, err := uc.Create(ctx, acme, dto.LeadRequest{Email: "x@acme.io"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, acme, dto.LeadRequest{FirstName: "X", Email: "x@acme.io", Source: "tv"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, acme, dto.LeadRequest{FirstName: "X", Email: "x@acme.io", AssignedTo: "nadie"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, db.AuditActions(acme.CompanyID))
}

func TestUpdateStatus_CualquierEtapa(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()
	lead, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", Email: "jane@acme.io"})
	require.NoError(t, err)

	for _, st := range []string{"negotiation", "prospect", "closed_lost", "contacted"} {
		out, err := uc.UpdateStatus(ctx, acme, lead.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, out.Status)
	}
	_, err = uc.UpdateStatus(ctx, acme, lead.ID, "won")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddActivity_Historial(t *testing.T) {
	db := memstore.New()
	acme := seedCompany(t, db, "c-acme", "acme", entity.RoleAdmin)
	uc := newLeads(db)
	ctx := context.Background()
	lead, err := uc.Create(ctx, acme, dto.LeadRequest{FirstName: "Jane", Email: "jane@acme.io"})
	require.NoError(t, err)

	_, err = uc.AddActivity(ctx, acme, lead.ID, dto.AddActivityRequest{Type: "call", Subject: "Primer contacto"})
	require.NoError(t, err)
	_, err = uc.AddActivity(ctx, acme, lead.ID, dto.AddActivityRequest{Type: "fax", Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.Activities(ctx, acme, lead.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "call", list[0].Type)
	assert.Contains(t, db.AuditActions(acme.CompanyID), entity.AuditActivityAdded)
}
