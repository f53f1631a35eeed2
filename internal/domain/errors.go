package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrTenantNotFound     = errors.New("empresa no encontrada para el subdominio")
	ErrTenantMismatch     = errors.New("el token no pertenece a la empresa del subdominio")
	ErrPlanLimit          = errors.New("límite del plan alcanzado")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)
