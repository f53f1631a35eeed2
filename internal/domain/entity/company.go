package entity

import (
	"fmt"
	"time"
)

// Plan plan de suscripción de una empresa.
type Plan string

const (
	PlanStarter    Plan = "starter"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Unlimited marca un límite sin tope en PlanLimits.
const Unlimited = -1

// PlanLimits cupos que otorga un plan.
type PlanLimits struct {
	MaxUsers     int
	MaxStorageGB int
}

// ParsePlan convierte el string recibido en un Plan válido.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.IsValid() {
		return "", fmt.Errorf("plan desconocido: %q", s)
	}
	return p, nil
}

// IsValid indica si el plan es uno de los conocidos.
func (p Plan) IsValid() bool {
	switch p {
	case PlanStarter, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// Rank orden del plan; un upgrade solo puede ir hacia un rank mayor.
func (p Plan) Rank() int {
	switch p {
	case PlanStarter:
		return 1
	case PlanPro:
		return 2
	case PlanEnterprise:
		return 3
	}
	return 0
}

// Limits devuelve los cupos del plan.
func (p Plan) Limits() PlanLimits {
	switch p {
	case PlanStarter:
		return PlanLimits{MaxUsers: 5, MaxStorageGB: 10}
	case PlanPro:
		return PlanLimits{MaxUsers: 20, MaxStorageGB: 100}
	case PlanEnterprise:
		return PlanLimits{MaxUsers: Unlimited, MaxStorageGB: Unlimited}
	}
	return PlanLimits{}
}

// Company representa una organización/tenant del sistema.
// Es la única tabla sin company_id: todas las demás cuelgan de ella.
type Company struct {
	ID           string
	Name         string
	Subdomain    string // único; se usa para resolver el tenant desde el host
	Email        string
	Phone        string
	Address      string
	Plan         Plan
	MaxUsers     int // -1 = sin límite
	MaxStorageGB int // -1 = sin límite
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplyPlan cambia el plan y copia sus límites.
func (c *Company) ApplyPlan(p Plan) {
	l := p.Limits()
	c.Plan = p
	c.MaxUsers = l.MaxUsers
	c.MaxStorageGB = l.MaxStorageGB
}

// CanAddUser indica si con activeUsers usuarios activos cabe uno más.
func (c *Company) CanAddUser(activeUsers int) bool {
	return c.MaxUsers == Unlimited || activeUsers < c.MaxUsers
}
