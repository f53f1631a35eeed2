package entity

import (
	"fmt"
	"time"
)

// TaskStatus estado de una tarea.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// ParseTaskStatus convierte el string recibido en un estado válido.
func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	switch st {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return st, nil
	}
	return "", fmt.Errorf("estado de tarea desconocido: %q", s)
}

// IsOpen indica si la tarea sigue pendiente de hacer.
func (s TaskStatus) IsOpen() bool {
	switch s {
	case TaskPending, TaskInProgress:
		return true
	case TaskCompleted, TaskCancelled:
		return false
	}
	return false
}

// TaskPriority prioridad de una tarea.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ParseTaskPriority convierte el string recibido; vacío equivale a medium.
func ParseTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := TaskPriority(s)
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("prioridad desconocida: %q", s)
}

// Task tarea agendada, opcionalmente ligada a un usuario, lead o cliente.
type Task struct {
	ID          string
	CompanyID   string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	AssignedTo  string
	LeadID      string
	CustomerID  string
	CreatedBy   string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
