package dto

import "time"

// CreateTaskRequest alta de tarea.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  string     `json:"assigned_to"`
	LeadID      string     `json:"lead_id"`
	CustomerID  string     `json:"customer_id"`
}

// TaskListQuery filtros de GET /sales/tasks.
type TaskListQuery struct {
	PageRequest
	Status     string `query:"status"`
	AssignedTo string `query:"assigned_to"`
	LeadID     string `query:"lead_id"`
}

// TaskResponse salida de una tarea.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	LeadID      string     `json:"lead_id,omitempty"`
	CustomerID  string     `json:"customer_id,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskListResponse página de tareas.
type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}
