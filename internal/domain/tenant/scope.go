package tenant

import (
	"context"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// Scope identifica quién actúa y sobre qué empresa. Se pasa explícitamente a cada
// caso de uso; los repositorios reciben CompanyID en cada consulta.
type Scope struct {
	CompanyID string
	UserID    string
	Email     string
	Role      entity.Role
}

// Valid indica si el scope tiene empresa y usuario.
func (s Scope) Valid() bool {
	return s.CompanyID != "" && s.UserID != ""
}

type scopeKey struct{}

// NewContext guarda el scope en ctx (para logs y jobs que solo reciben un context).
func NewContext(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext recupera el scope guardado con NewContext.
func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(Scope)
	return s, ok
}
