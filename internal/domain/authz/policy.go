// Package authz define la tabla de capacidades (rol, acción) que consulta el gate de autorización.
package authz

import "github.com/jhoicas/SalesERP-api/internal/domain/entity"

// Action capacidad protegida.
type Action string

const (
	DashboardRead Action = "dashboard:read"
	Search        Action = "search"

	LeadRead    Action = "lead:read"
	LeadWrite   Action = "lead:write"
	LeadAssign  Action = "lead:assign"
	LeadConvert Action = "lead:convert"
	LeadDelete  Action = "lead:delete"

	CustomerRead   Action = "customer:read"
	CustomerWrite  Action = "customer:write"
	CustomerDelete Action = "customer:delete"

	ProductRead  Action = "product:read"
	ProductWrite Action = "product:write"

	QuotationRead    Action = "quotation:read"
	QuotationWrite   Action = "quotation:write"
	QuotationConvert Action = "quotation:convert"
	QuotationDelete  Action = "quotation:delete"

	InvoiceRead     Action = "invoice:read"
	InvoiceWrite    Action = "invoice:write"
	InvoiceMarkPaid Action = "invoice:mark_paid"

	TaskRead  Action = "task:read"
	TaskWrite Action = "task:write"

	SubscriptionRead   Action = "subscription:read"
	SubscriptionManage Action = "subscription:manage"
	UsageRead          Action = "usage:read"

	UserManage    Action = "user:manage"
	CompanyManage Action = "company:manage"
	AuditRead     Action = "audit:read"
)

// salesActions lo que puede hacer cualquier usuario comercial.
var salesActions = []Action{
	DashboardRead, Search,
	LeadRead, LeadWrite, LeadConvert,
	CustomerRead, CustomerWrite,
	ProductRead,
	QuotationRead, QuotationWrite, QuotationConvert,
	InvoiceRead, InvoiceWrite,
	TaskRead, TaskWrite,
	SubscriptionRead,
}

// managerActions se suman a salesActions.
var managerActions = []Action{
	LeadAssign, LeadDelete,
	CustomerDelete,
	ProductWrite,
	QuotationDelete,
	InvoiceMarkPaid,
	SubscriptionManage,
	UsageRead,
}

// adminActions se suman a managerActions.
var adminActions = []Action{
	UserManage, CompanyManage, AuditRead,
}

var policy = build()

func build() map[entity.Role]map[Action]struct{} {
	set := func(groups ...[]Action) map[Action]struct{} {
		m := make(map[Action]struct{})
		for _, g := range groups {
			for _, a := range g {
				m[a] = struct{}{}
			}
		}
		return m
	}
	return map[entity.Role]map[Action]struct{}{
		entity.RoleSalesExecutive: set(salesActions),
		entity.RoleManager:        set(salesActions, managerActions),
		entity.RoleAdmin:          set(salesActions, managerActions, adminActions),
	}
}

// Allowed indica si role puede ejecutar action. Roles desconocidos no pueden nada.
func Allowed(role entity.Role, action Action) bool {
	actions, ok := policy[role]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}
