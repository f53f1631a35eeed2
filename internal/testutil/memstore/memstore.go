// Package memstore implementa los repositorios en memoria para tests de casos de uso y HTTP.
// WithinTx trabaja sobre una copia de las tablas y solo la publica si fn no falla.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

// DB base de datos en memoria.
type DB struct {
	mu   sync.Mutex
	data *tables

	// FailAudit, si no es nil, lo devuelve cada insert de auditoría.
	FailAudit error
}

type tables struct {
	companies     map[string]entity.Company
	users         map[string]entity.User
	leads         map[string]entity.Lead
	customers     map[string]entity.Customer
	products      map[string]entity.Product
	quotations    map[string]entity.Quotation
	invoices      map[string]entity.Invoice
	tasks         map[string]entity.Task
	activities    map[string]entity.Activity
	subscriptions map[string]entity.Subscription
	audit         []entity.AuditLog
}

func newTables() *tables {
	return &tables{
		companies:     map[string]entity.Company{},
		users:         map[string]entity.User{},
		leads:         map[string]entity.Lead{},
		customers:     map[string]entity.Customer{},
		products:      map[string]entity.Product{},
		quotations:    map[string]entity.Quotation{},
		invoices:      map[string]entity.Invoice{},
		tasks:         map[string]entity.Task{},
		activities:    map[string]entity.Activity{},
		subscriptions: map[string]entity.Subscription{},
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t *tables) clone() *tables {
	return &tables{
		companies:     cloneMap(t.companies),
		users:         cloneMap(t.users),
		leads:         cloneMap(t.leads),
		customers:     cloneMap(t.customers),
		products:      cloneMap(t.products),
		quotations:    cloneMap(t.quotations),
		invoices:      cloneMap(t.invoices),
		tasks:         cloneMap(t.tasks),
		activities:    cloneMap(t.activities),
		subscriptions: cloneMap(t.subscriptions),
		audit:         append([]entity.AuditLog(nil), t.audit...),
	}
}

// New crea una base vacía.
func New() *DB {
	return &DB{data: newTables()}
}

var _ repository.TxRunner = (*DB)(nil)

// view resuelve sobre qué tablas opera un repositorio: las vivas o las de una tx.
type view struct {
	db    *DB
	stage *tables
}

func (v view) lock() (*tables, func()) {
	v.db.mu.Lock()
	if v.stage != nil {
		return v.stage, v.db.mu.Unlock
	}
	return v.db.data, v.db.mu.Unlock
}

// Store devuelve los repositorios sobre las tablas vivas.
func (db *DB) Store() repository.Store {
	return storeFor(view{db: db})
}

// WithinTx ejecuta fn sobre una copia y la publica solo si fn devuelve nil.
func (db *DB) WithinTx(ctx context.Context, fn func(s repository.Store) error) error {
	db.mu.Lock()
	stage := db.data.clone()
	db.mu.Unlock()

	if err := fn(storeFor(view{db: db, stage: stage})); err != nil {
		return err
	}

	db.mu.Lock()
	db.data = stage
	db.mu.Unlock()
	return nil
}

func storeFor(v view) repository.Store {
	return repository.Store{
		Companies:     companyRepo{v},
		Users:         userRepo{v},
		Leads:         leadRepo{v},
		Customers:     customerRepo{v},
		Products:      productRepo{v},
		Quotations:    quotationRepo{v},
		Invoices:      invoiceRepo{v},
		Tasks:         taskRepo{v},
		Activities:    activityRepo{v},
		Subscriptions: subscriptionRepo{v},
		AuditLogs:     auditRepo{v},
	}
}

// AuditLogs devuelve una copia de todas las filas de auditoría (para asserts).
func (db *DB) AuditLogs() []entity.AuditLog {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]entity.AuditLog(nil), db.data.audit...)
}

// AuditActions acciones auditadas de la empresa, en orden de inserción.
func (db *DB) AuditActions(companyID string) []string {
	var out []string
	for _, l := range db.AuditLogs() {
		if l.CompanyID == companyID {
			out = append(out, l.Action)
		}
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ── Companies ─────────────────────────────────────────────────────────────────

type companyRepo struct{ v view }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	t, unlock := r.v.lock()
	defer unlock()
	for _, existing := range t.companies {
		if existing.Subdomain == c.Subdomain {
			return domain.ErrDuplicate
		}
	}
	t.companies[c.ID] = *c
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	t, unlock := r.v.lock()
	defer unlock()
	c, ok := t.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r companyRepo) GetBySubdomain(_ context.Context, sub string) (*entity.Company, error) {
	t, unlock := r.v.lock()
	defer unlock()
	for _, c := range t.companies {
		if c.Subdomain == sub {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r companyRepo) SubdomainExists(ctx context.Context, sub string) (bool, error) {
	c, err := r.GetBySubdomain(ctx, sub)
	return c != nil, err
}

func (r companyRepo) Update(_ context.Context, c *entity.Company) error {
	t, unlock := r.v.lock()
	defer unlock()
	if _, ok := t.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	t.companies[c.ID] = *c
	return nil
}

func (r companyRepo) ListActive(_ context.Context) ([]*entity.Company, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Company
	for _, c := range t.companies {
		if c.IsActive {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

type userRepo struct{ v view }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	t, unlock := r.v.lock()
	defer unlock()
	for _, existing := range t.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	t.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	t, unlock := r.v.lock()
	defer unlock()
	u, ok := t.users[id]
	if !ok || u.CompanyID != companyID {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	t, unlock := r.v.lock()
	defer unlock()
	for _, u := range t.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.User
	for _, u := range t.users {
		if u.CompanyID == companyID {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r userRepo) ListByRoles(ctx context.Context, companyID string, roles ...entity.Role) ([]*entity.User, error) {
	all, _ := r.ListByCompany(ctx, companyID)
	var out []*entity.User
	for _, u := range all {
		if !u.IsActive {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (r userRepo) CountActive(ctx context.Context, companyID string) (int, error) {
	all, _ := r.ListByCompany(ctx, companyID)
	n := 0
	for _, u := range all {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.users[u.ID]
	if !ok || existing.CompanyID != u.CompanyID {
		return domain.ErrNotFound
	}
	t.users[u.ID] = *u
	return nil
}

func (r userRepo) TouchLastLogin(_ context.Context, companyID, id string, at time.Time) error {
	t, unlock := r.v.lock()
	defer unlock()
	u, ok := t.users[id]
	if !ok || u.CompanyID != companyID {
		return domain.ErrNotFound
	}
	u.LastLogin = &at
	t.users[id] = u
	return nil
}

// ── Leads ─────────────────────────────────────────────────────────────────────

type leadRepo struct{ v view }

func (r leadRepo) Create(_ context.Context, l *entity.Lead) error {
	t, unlock := r.v.lock()
	defer unlock()
	t.leads[l.ID] = *l
	return nil
}

func (r leadRepo) GetByID(_ context.Context, companyID, id string) (*entity.Lead, error) {
	t, unlock := r.v.lock()
	defer unlock()
	l, ok := t.leads[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	return &l, nil
}

func (r leadRepo) List(_ context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, int, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Lead
	for _, l := range t.leads {
		if l.CompanyID != companyID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Source != "" && l.Source != f.Source {
			continue
		}
		if f.AssignedTo != "" && l.AssignedTo != f.AssignedTo {
			continue
		}
		if f.Search != "" && !(containsFold(l.FirstName, f.Search) || containsFold(l.LastName, f.Search) ||
			containsFold(l.Email, f.Search) || containsFold(l.CompanyName, f.Search)) {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r leadRepo) Update(_ context.Context, l *entity.Lead) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.leads[l.ID]
	if !ok || existing.CompanyID != l.CompanyID {
		return domain.ErrNotFound
	}
	t.leads[l.ID] = *l
	return nil
}

func (r leadRepo) Delete(_ context.Context, companyID, id string) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.leads[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(t.leads, id)
	return nil
}

func (r leadRepo) ListFollowUpsDue(_ context.Context, companyID string, now time.Time) ([]*entity.Lead, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Lead
	for _, l := range t.leads {
		if l.CompanyID == companyID && !l.Status.IsClosed() && l.NextFollowUp != nil && l.NextFollowUp.Before(now) {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

type customerRepo struct{ v view }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	t, unlock := r.v.lock()
	defer unlock()
	t.customers[c.ID] = *c
	return nil
}

func (r customerRepo) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	t, unlock := r.v.lock()
	defer unlock()
	c, ok := t.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return &c, nil
}

func (r customerRepo) List(_ context.Context, companyID, search string, limit, offset int) ([]*entity.Customer, int, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Customer
	for _, c := range t.customers {
		if c.CompanyID != companyID {
			continue
		}
		if search != "" && !(containsFold(c.FirstName, search) || containsFold(c.LastName, search) ||
			containsFold(c.Email, search) || containsFold(c.CompanyName, search)) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.customers[c.ID]
	if !ok || existing.CompanyID != c.CompanyID {
		return domain.ErrNotFound
	}
	t.customers[c.ID] = *c
	return nil
}

func (r customerRepo) Delete(_ context.Context, companyID, id string) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.customers[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(t.customers, id)
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

type productRepo struct{ v view }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	t, unlock := r.v.lock()
	defer unlock()
	for _, existing := range t.products {
		if existing.CompanyID == p.CompanyID && p.SKU != "" && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	t.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	t, unlock := r.v.lock()
	defer unlock()
	p, ok := t.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) List(_ context.Context, companyID, search string, limit, offset int) ([]*entity.Product, int, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Product
	for _, p := range t.products {
		if p.CompanyID != companyID {
			continue
		}
		if search != "" && !(containsFold(p.Name, search) || containsFold(p.Description, search) || containsFold(p.SKU, search)) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), len(out), nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.products[p.ID]
	if !ok || existing.CompanyID != p.CompanyID {
		return domain.ErrNotFound
	}
	t.products[p.ID] = *p
	return nil
}

// ── Quotations ────────────────────────────────────────────────────────────────

type quotationRepo struct{ v view }

func copyItems(items []entity.LineItem) []entity.LineItem {
	return append([]entity.LineItem(nil), items...)
}

func (r quotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	t, unlock := r.v.lock()
	defer unlock()
	for _, existing := range t.quotations {
		if existing.Number == q.Number {
			return domain.ErrDuplicate
		}
	}
	stored := *q
	stored.Items = copyItems(q.Items)
	t.quotations[q.ID] = stored
	return nil
}

func (r quotationRepo) GetByID(_ context.Context, companyID, id string) (*entity.Quotation, error) {
	t, unlock := r.v.lock()
	defer unlock()
	q, ok := t.quotations[id]
	if !ok || q.CompanyID != companyID {
		return nil, nil
	}
	q.Items = copyItems(q.Items)
	return &q, nil
}

func (r quotationRepo) List(_ context.Context, companyID string, status entity.QuotationStatus, limit, offset int) ([]*entity.Quotation, int, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Quotation
	for _, q := range t.quotations {
		if q.CompanyID != companyID || (status != "" && q.Status != status) {
			continue
		}
		q := q
		q.Items = nil
		out = append(out, &q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (r quotationRepo) Update(_ context.Context, q *entity.Quotation, replaceItems bool) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.quotations[q.ID]
	if !ok || existing.CompanyID != q.CompanyID {
		return domain.ErrNotFound
	}
	stored := *q
	if replaceItems {
		stored.Items = copyItems(q.Items)
	} else {
		stored.Items = existing.Items
	}
	t.quotations[q.ID] = stored
	return nil
}

func (r quotationRepo) Delete(_ context.Context, companyID, id string) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.quotations[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(t.quotations, id)
	for k, inv := range t.invoices {
		if inv.QuotationID == id {
			inv.QuotationID = ""
			t.invoices[k] = inv
		}
	}
	return nil
}

func (r quotationRepo) Search(_ context.Context, companyID, term string, limit int) ([]*entity.Quotation, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Quotation
	for _, q := range t.quotations {
		if q.CompanyID != companyID || !(containsFold(q.Subject, term) || containsFold(q.Number, term)) {
			continue
		}
		q := q
		q.Items = nil
		out = append(out, &q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type invoiceRepo struct{ v view }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	t, unlock := r.v.lock()
	defer unlock()
	for _, existing := range t.invoices {
		if existing.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	stored := *inv
	stored.Items = copyItems(inv.Items)
	t.invoices[inv.ID] = stored
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, companyID, id string) (*entity.Invoice, error) {
	t, unlock := r.v.lock()
	defer unlock()
	inv, ok := t.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, nil
	}
	inv.Items = copyItems(inv.Items)
	return &inv, nil
}

func (r invoiceRepo) List(_ context.Context, companyID string, status entity.InvoiceStatus, limit, offset int) ([]*entity.Invoice, int, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Invoice
	for _, inv := range t.invoices {
		if inv.CompanyID != companyID || (status != "" && inv.Status != status) {
			continue
		}
		inv := inv
		inv.Items = nil
		out = append(out, &inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.invoices[inv.ID]
	if !ok || existing.CompanyID != inv.CompanyID {
		return domain.ErrNotFound
	}
	stored := *inv
	stored.Items = existing.Items
	t.invoices[inv.ID] = stored
	return nil
}

func (r invoiceRepo) Search(_ context.Context, companyID, term string, limit int) ([]*entity.Invoice, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Invoice
	for _, inv := range t.invoices {
		if inv.CompanyID != companyID || !(containsFold(inv.Subject, term) || containsFold(inv.Number, term)) {
			continue
		}
		inv := inv
		inv.Items = nil
		out = append(out, &inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}

// ── Tasks ─────────────────────────────────────────────────────────────────────

type taskRepo struct{ v view }

func (r taskRepo) Create(_ context.Context, task *entity.Task) error {
	t, unlock := r.v.lock()
	defer unlock()
	t.tasks[task.ID] = *task
	return nil
}

func (r taskRepo) GetByID(_ context.Context, companyID, id string) (*entity.Task, error) {
	t, unlock := r.v.lock()
	defer unlock()
	task, ok := t.tasks[id]
	if !ok || task.CompanyID != companyID {
		return nil, nil
	}
	return &task, nil
}

func (r taskRepo) List(_ context.Context, companyID string, f repository.TaskFilter) ([]*entity.Task, int, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Task
	for _, task := range t.tasks {
		if task.CompanyID != companyID {
			continue
		}
		if (f.Status != "" && task.Status != f.Status) || (f.AssignedTo != "" && task.AssignedTo != f.AssignedTo) ||
			(f.LeadID != "" && task.LeadID != f.LeadID) {
			continue
		}
		task := task
		out = append(out, &task)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r taskRepo) Update(_ context.Context, task *entity.Task) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.tasks[task.ID]
	if !ok || existing.CompanyID != task.CompanyID {
		return domain.ErrNotFound
	}
	t.tasks[task.ID] = *task
	return nil
}

func (r taskRepo) ListOverdue(_ context.Context, companyID string, now time.Time) ([]*entity.Task, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Task
	for _, task := range t.tasks {
		if task.CompanyID == companyID && task.Status.IsOpen() && task.DueDate != nil && task.DueDate.Before(now) {
			task := task
			out = append(out, &task)
		}
	}
	return out, nil
}

// ── Activities ────────────────────────────────────────────────────────────────

type activityRepo struct{ v view }

func (r activityRepo) Create(_ context.Context, a *entity.Activity) error {
	t, unlock := r.v.lock()
	defer unlock()
	t.activities[a.ID] = *a
	return nil
}

func (r activityRepo) ListByLead(_ context.Context, companyID, leadID string, limit int) ([]*entity.Activity, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.Activity
	for _, a := range t.activities {
		if a.CompanyID == companyID && a.LeadID == leadID {
			a := a
			out = append(out, &a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}

// ── Subscriptions ─────────────────────────────────────────────────────────────

type subscriptionRepo struct{ v view }

func (r subscriptionRepo) Create(_ context.Context, s *entity.Subscription) error {
	t, unlock := r.v.lock()
	defer unlock()
	t.subscriptions[s.ID] = *s
	return nil
}

func (r subscriptionRepo) GetCurrent(_ context.Context, companyID string) (*entity.Subscription, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var latest *entity.Subscription
	for _, s := range t.subscriptions {
		if s.CompanyID != companyID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			s := s
			latest = &s
		}
	}
	return latest, nil
}

func (r subscriptionRepo) Update(_ context.Context, s *entity.Subscription) error {
	t, unlock := r.v.lock()
	defer unlock()
	existing, ok := t.subscriptions[s.ID]
	if !ok || existing.CompanyID != s.CompanyID {
		return domain.ErrNotFound
	}
	t.subscriptions[s.ID] = *s
	return nil
}

// ── Audit ─────────────────────────────────────────────────────────────────────

type auditRepo struct{ v view }

// ErrAuditUnavailable error de ejemplo para FailAudit.
var ErrAuditUnavailable = errors.New("memstore: audit_logs no disponible")

func (r auditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	if r.v.db.FailAudit != nil {
		return r.v.db.FailAudit
	}
	t, unlock := r.v.lock()
	defer unlock()
	t.audit = append(t.audit, *l)
	return nil
}

func (r auditRepo) List(_ context.Context, companyID string, limit, offset int) ([]*entity.AuditLog, int, error) {
	t, unlock := r.v.lock()
	defer unlock()
	var out []*entity.AuditLog
	for i := len(t.audit) - 1; i >= 0; i-- {
		if t.audit[i].CompanyID == companyID {
			l := t.audit[i]
			out = append(out, &l)
		}
	}
	return page(out, limit, offset), len(out), nil
}
