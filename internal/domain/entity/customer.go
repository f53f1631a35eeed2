package entity

import (
	"strings"
	"time"
)

// Customer cliente de la empresa: convertido desde un Lead o creado directamente.
type Customer struct {
	ID          string
	CompanyID   string
	LeadID      string // vacío si no proviene de un lead
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyName string
	TaxID       string
	Address     string
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName nombre para mostrar.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
