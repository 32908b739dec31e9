package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// CreateTask inserts a new task scoped to task.OwnerID. Generates a UUID,
// sets timestamps, and appends the task at the end of the manual order.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) (string, error) {
	if strings.TrimSpace(task.OwnerID) == "" {
		return "", fmt.Errorf("task owner must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if task.Date != nil {
		d := model.DateOnly(*task.Date)
		task.Date = &d
	}

	// Default order_index to max+1 within the owner's tasks.
	if task.OrderIndex == 0 {
		var maxOrder int
		err := s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(order_index), 0) FROM tasks WHERE owner_id = ?",
			task.OwnerID)
		if err != nil {
			return "", fmt.Errorf("getting max order_index: %w", err)
		}
		task.OrderIndex = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, owner_id, phase, title, notes,
			budget_estimated, budget_actual, budget_optional,
			status, date, assignee, order_index,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.OwnerID, task.Phase, task.Title, task.Notes,
		task.BudgetEstimated, task.BudgetActual, task.BudgetOptional,
		task.Status, task.Date, task.Assignee, task.OrderIndex,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("creating task: %w", err)
	}

	s.notify(ctx, task.OwnerID)
	return task.ID, nil
}

// PatchTask applies a single-field update to one of the owner's tasks.
func (s *SQLiteStore) PatchTask(ctx context.Context, ownerID, id string, patch FieldPatch) error {
	query := fmt.Sprintf(
		"UPDATE tasks SET %s = ?, updated_at = ? WHERE id = ? AND owner_id = ?",
		patch.Column(),
	)
	result, err := s.db.ExecContext(ctx, query,
		patch.Arg(), time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("patching task %s (%s): %w", id, patch.Column(), err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("patching task %s: %w", id, ErrNotFound)
	}

	s.notify(ctx, ownerID)
	return nil
}

// DeleteTask removes one of the owner's tasks permanently.
func (s *SQLiteStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting task %s: %w", id, ErrNotFound)
	}

	s.notify(ctx, ownerID)
	return nil
}

// GetTask retrieves a single task by ID, scoped to the owner.
func (s *SQLiteStore) GetTask(ctx context.Context, ownerID, id string) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM tasks WHERE id = ? AND owner_id = ?", id, ownerID)

	task, err := scanTask(row)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("getting task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &task, nil
}

// ListTasks returns all of the owner's tasks ordered by order_index,
// falling back to creation time for equal indices.
func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM tasks WHERE owner_id = ? ORDER BY order_index, created_at",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// rowScanner is satisfied by both sqlx.Row and sqlx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask scans a task row in column order.
func scanTask(row rowScanner) (model.Task, error) {
	var (
		task model.Task
		date *time.Time
	)

	err := row.Scan(
		&task.ID, &task.OwnerID, &task.Phase, &task.Title, &task.Notes,
		&task.BudgetEstimated, &task.BudgetActual, &task.BudgetOptional,
		&task.Status, &date, &task.Assignee, &task.OrderIndex,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return model.Task{}, err
		}
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	// Dates come back in the driver's zone; normalize to UTC midnight.
	if date != nil {
		d := model.DateOnly(date.UTC())
		task.Date = &d
	}

	return task, nil
}
