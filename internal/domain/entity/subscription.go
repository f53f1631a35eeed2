package entity

import "time"

// SubscriptionStatus estado de la suscripción en el sistema de cobro externo.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// IsCurrent indica si la suscripción da acceso.
func (s SubscriptionStatus) IsCurrent() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrialing:
		return true
	case SubscriptionPastDue, SubscriptionCanceled:
		return false
	}
	return false
}

// BillingPeriod duración de un periodo de cobro.
const BillingPeriod = 30 * 24 * time.Hour

// Subscription registro activo (uno por empresa) que liga la empresa con su plan.
type Subscription struct {
	ID                 string
	CompanyID          string
	Plan               Plan
	Status             SubscriptionStatus
	ExternalRef        string // id opaco del proveedor de cobro
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
