package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
)

type fakePDF struct{ last billing.Document }

func (f *fakePDF) Generate(_ context.Context, doc billing.Document) ([]byte, error) {
	f.last = doc
	return []byte("%PDF-" + doc.Number), nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, e ports.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

type fakeStorage struct {
	bytes int64
	err   error
}

func (s *fakeStorage) CompanyBytes(context.Context, string) (int64, error) { return s.bytes, s.err }

type fixture struct {
	db       *memstore.DB
	storage  *fakeStorage
	scope    tenant.Scope
	customer string
	product  string
	pdf      *fakePDF
	mailer   *fakeMailer
	quotes   *billing.QuotationUseCase
	invoices *billing.InvoiceUseCase
	subs     *billing.SubscriptionUseCase
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memstore.New()
	now := time.Now()

	c := &entity.Company{ID: "c-acme", Name: "Acme", Subdomain: "acme", IsActive: true, CreatedAt: now}
	c.ApplyPlan(entity.PlanStarter)
	require.NoError(t, db.Store().Companies.Create(ctx, c))
	u := &entity.User{ID: "u-acme", CompanyID: c.ID, Email: "admin@acme.io", Role: entity.RoleAdmin, IsActive: true, CreatedAt: now}
	require.NoError(t, db.Store().Users.Create(ctx, u))
	require.NoError(t, db.Store().Customers.Create(ctx, &entity.Customer{
		ID: "cu-1", CompanyID: c.ID, FirstName: "Jane", LastName: "Doe", Email: "jane@client.io", CreatedAt: now,
	}))
	require.NoError(t, db.Store().Products.Create(ctx, &entity.Product{
		ID: "p-1", CompanyID: c.ID, SKU: "SKU-1", Name: "Licencia", UnitPrice: d("100"), TaxRate: d("19"), IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, db.Store().Subscriptions.Create(ctx, &entity.Subscription{
		ID: "s-1", CompanyID: c.ID, Plan: entity.PlanStarter, Status: entity.SubscriptionTrialing, CreatedAt: now,
	}))

	pdf := &fakePDF{}
	mailer := &fakeMailer{}
	storage := &fakeStorage{}
	pdfUC := billing.NewPDFUseCase(db.Store(), pdf)
	return &fixture{
		db:       db,
		storage:  storage,
		scope:    tenant.Scope{CompanyID: c.ID, UserID: u.ID, Email: u.Email, Role: u.Role},
		customer: "cu-1",
		product:  "p-1",
		pdf:      pdf,
		mailer:   mailer,
		quotes:   billing.NewQuotationUseCase(db.Store(), db, pdfUC, mailer, nil),
		invoices: billing.NewInvoiceUseCase(db.Store(), db),
		subs:     billing.NewSubscriptionUseCase(db.Store(), db, storage),
	}
}

func (f *fixture) quotation(t *testing.T) *dto.QuotationResponse {
	t.Helper()
	q, err := f.quotes.Create(context.Background(), f.scope, dto.CreateQuotationRequest{
		CustomerID: f.customer,
		Subject:    "Propuesta anual",
		Items: []dto.LineItemRequest{
			{ProductID: f.product, Quantity: d("2")},
			{Description: "Instalación", Quantity: d("1"), UnitPrice: ptr(d("50")), DiscountPercent: d("10")},
		},
	})
	require.NoError(t, err)
	return q
}

func ptr[T any](v T) *T { return &v }

func countAction(db *memstore.DB, companyID, action string) int {
	n := 0
	for _, a := range db.AuditActions(companyID) {
		if a == action {
			n++
		}
	}
	return n
}
