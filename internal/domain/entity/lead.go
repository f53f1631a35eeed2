package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LeadStatus etapa del pipeline comercial.
type LeadStatus string

const (
	LeadProspect    LeadStatus = "prospect"
	LeadContacted   LeadStatus = "contacted"
	LeadQualified   LeadStatus = "qualified"
	LeadProposal    LeadStatus = "proposal"
	LeadNegotiation LeadStatus = "negotiation"
	LeadClosedWon   LeadStatus = "closed_won"
	LeadClosedLost  LeadStatus = "closed_lost"
)

// LeadStatuses el pipeline en orden.
var LeadStatuses = []LeadStatus{
	LeadProspect, LeadContacted, LeadQualified, LeadProposal,
	LeadNegotiation, LeadClosedWon, LeadClosedLost,
}

// PipelineStages etapas que muestra el widget de pipeline del dashboard.
var PipelineStages = []LeadStatus{LeadProspect, LeadQualified, LeadProposal, LeadClosedWon}

// ParseLeadStatus convierte el string recibido en un LeadStatus válido.
func ParseLeadStatus(s string) (LeadStatus, error) {
	st := LeadStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("estado de lead desconocido: %q", s)
	}
	return st, nil
}

// IsValid indica si el estado pertenece al pipeline.
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadProspect, LeadContacted, LeadQualified, LeadProposal,
		LeadNegotiation, LeadClosedWon, LeadClosedLost:
		return true
	}
	return false
}

// IsClosed indica si el lead salió del pipeline.
func (s LeadStatus) IsClosed() bool {
	switch s {
	case LeadClosedWon, LeadClosedLost:
		return true
	case LeadProspect, LeadContacted, LeadQualified, LeadProposal, LeadNegotiation:
		return false
	}
	return false
}

// LeadSource canal por el que llegó el lead.
type LeadSource string

const (
	SourceWebsite     LeadSource = "website"
	SourceReferral    LeadSource = "referral"
	SourceSocialMedia LeadSource = "social_media"
	SourceEmail       LeadSource = "email"
	SourcePhone       LeadSource = "phone"
	SourceEvent       LeadSource = "event"
	SourceOther       LeadSource = "other"
)

// ParseLeadSource convierte el string recibido; vacío equivale a "other".
func ParseLeadSource(s string) (LeadSource, error) {
	if s == "" {
		return SourceOther, nil
	}
	src := LeadSource(s)
	switch src {
	case SourceWebsite, SourceReferral, SourceSocialMedia, SourceEmail,
		SourcePhone, SourceEvent, SourceOther:
		return src, nil
	}
	return "", fmt.Errorf("origen de lead desconocido: %q", s)
}

// Lead prospecto comercial. Al convertirse se conserva como histórico.
type Lead struct {
	ID             string
	CompanyID      string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	CompanyName    string
	JobTitle       string
	Source         LeadSource
	Status         LeadStatus
	AssignedTo     string // user id; vacío = sin asignar
	EstimatedValue decimal.Decimal
	Notes          string
	NextFollowUp   *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre para mostrar.
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}
