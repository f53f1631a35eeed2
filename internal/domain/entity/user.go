package entity

import (
	"fmt"
	"strings"
	"time"
)

// Role rol de un usuario dentro de su empresa.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleSalesExecutive Role = "sales_executive"
)

// ParseRole convierte el string recibido en un Role válido.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("rol desconocido: %q", s)
	}
	return r, nil
}

// IsValid indica si el rol es uno de los conocidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSalesExecutive:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName nombre para mostrar.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
