package entity

import (
	"fmt"
	"time"
)

// ActivityType tipo de interacción registrada en el historial CRM.
type ActivityType string

const (
	ActivityCall    ActivityType = "call"
	ActivityEmail   ActivityType = "email"
	ActivityMeeting ActivityType = "meeting"
	ActivityNote    ActivityType = "note"
	ActivityTask    ActivityType = "task"
)

// ParseActivityType convierte el string recibido en un tipo válido.
func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(s)
	switch t {
	case ActivityCall, ActivityEmail, ActivityMeeting, ActivityNote, ActivityTask:
		return t, nil
	}
	return "", fmt.Errorf("tipo de actividad desconocido: %q", s)
}

// Activity entrada del historial de un lead o cliente.
type Activity struct {
	ID          string
	CompanyID   string
	UserID      string
	LeadID      string
	CustomerID  string
	Type        ActivityType
	Subject     string
	Description string
	CreatedAt   time.Time
}
