package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación de TaskRepository.
type TaskRepo struct {
	q Querier
}

func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `id, company_id, title, description, status, priority, due_date, assigned_to, lead_id, customer_id,
	created_by, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var description, assigned, leadID, customerID, createdBy *string
	err := row.Scan(&t.ID, &t.CompanyID, &t.Title, &description, &t.Status, &t.Priority, &t.DueDate, &assigned,
		&leadID, &customerID, &createdBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Description, t.AssignedTo, t.LeadID = deref(description), deref(assigned), deref(leadID)
	t.CustomerID, t.CreatedBy = deref(customerID), deref(createdBy)
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]*entity.Task, error) {
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.Title, nullIfEmpty(t.Description), string(t.Status), string(t.Priority), t.DueDate,
		nullIfEmpty(t.AssignedTo), nullIfEmpty(t.LeadID), nullIfEmpty(t.CustomerID), nullIfEmpty(t.CreatedBy),
		t.CompletedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Task, error) {
	if !validUUID(id) {
		return nil, nil
	}
	t, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List ordena por vencimiento (sin fecha al final) y luego por creación.
func (r *TaskRepo) List(ctx context.Context, companyID string, f repository.TaskFilter) ([]*entity.Task, int, error) {
	for _, id := range []string{f.AssignedTo, f.LeadID} {
		if id != "" && !validUUID(id) {
			return nil, 0, fmt.Errorf("%w: filtro %q no es un id válido", domain.ErrInvalidInput, id)
		}
	}
	where := " WHERE company_id = $1"
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND %s = $%d", cond, len(args))
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}
	if f.AssignedTo != "" {
		add("assigned_to", f.AssignedTo)
	}
	if f.LeadID != "" {
		add("lead_id", f.LeadID)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY due_date ASC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	list, err := collectTasks(rows)
	return list, total, err
}

func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	query := `
		UPDATE tasks
		   SET title = $3, description = $4, status = $5, priority = $6, due_date = $7, assigned_to = $8,
		       lead_id = $9, customer_id = $10, completed_at = $11, updated_at = $12
		 WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		t.CompanyID, t.ID, t.Title, nullIfEmpty(t.Description), string(t.Status), string(t.Priority), t.DueDate,
		nullIfEmpty(t.AssignedTo), nullIfEmpty(t.LeadID), nullIfEmpty(t.CustomerID), t.CompletedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) ListOverdue(ctx context.Context, companyID string, now time.Time) ([]*entity.Task, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		 WHERE company_id = $1 AND status IN ('pending', 'in_progress') AND due_date < $2
		 ORDER BY due_date`, companyID, now)
	if err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	return collectTasks(rows)
}
