package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadRequest alta o edición completa de un lead.
type LeadRequest struct {
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CompanyName    string          `json:"company_name"`
	JobTitle       string          `json:"job_title"`
	Source         string          `json:"source"`
	Status         string          `json:"status"`
	AssignedTo     string          `json:"assigned_to"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Notes          string          `json:"notes"`
	NextFollowUp   *time.Time      `json:"next_follow_up"`
}

// LeadListQuery query string de GET /api/v1/leads y GET /sales/leads.
type LeadListQuery struct {
	PageRequest
	Status     string `query:"status"`
	Source     string `query:"source"`
	AssignedTo string `query:"assigned_to"`
	Search     string `query:"search"`
}

// UpdateLeadStatusRequest cambio de etapa del pipeline.
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// AssignLeadRequest asignación de un lead a un usuario.
type AssignLeadRequest struct {
	UserID string `json:"user_id"`
}

// AddActivityRequest nueva entrada en el historial del lead.
type AddActivityRequest struct {
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	CompanyName    string          `json:"company_name,omitempty"`
	JobTitle       string          `json:"job_title,omitempty"`
	Source         string          `json:"source"`
	Status         string          `json:"status"`
	AssignedTo     string          `json:"assigned_to,omitempty"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Notes          string          `json:"notes,omitempty"`
	NextFollowUp   *time.Time      `json:"next_follow_up,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LeadListResponse página de leads.
type LeadListResponse struct {
	Leads      []LeadResponse `json:"leads"`
	Pagination Pagination     `json:"pagination"`
}

// ActivityResponse salida de una actividad.
type ActivityResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	LeadID      string    `json:"lead_id,omitempty"`
	CustomerID  string    `json:"customer_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConvertLeadResponse resultado de convertir un lead en cliente.
type ConvertLeadResponse struct {
	Lead     LeadResponse     `json:"lead"`
	Customer CustomerResponse `json:"customer"`
}
