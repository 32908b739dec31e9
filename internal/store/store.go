package store

import (
	"context"
	"errors"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// ErrNotFound is returned when a task id does not exist for the given owner.
var ErrNotFound = errors.New("task not found")

// Store defines the persistence contract for tasks and per-owner settings.
// All task operations are scoped to a single owner; the store rejects
// cross-owner access by construction (every query filters on owner_id).
type Store interface {
	// CreateTask inserts a new task and returns its assigned id.
	// ID, timestamps, and a trailing order index are filled by the store;
	// the created task becomes visible through active subscriptions, not
	// through the return value.
	CreateTask(ctx context.Context, task model.Task) (string, error)

	// PatchTask applies a single-field update to a task.
	PatchTask(ctx context.Context, ownerID, id string, patch FieldPatch) error

	// DeleteTask removes a task permanently. Deletion is not soft.
	DeleteTask(ctx context.Context, ownerID, id string) error

	GetTask(ctx context.Context, ownerID, id string) (*model.Task, error)

	// ListTasks returns the owner's tasks ordered by order_index when set,
	// falling back to creation time.
	ListTasks(ctx context.Context, ownerID string) ([]model.Task, error)

	// Subscribe registers fn to receive the owner's full task list after
	// every successful write for that owner. The returned cancel function
	// must be called before a new subscription for a different owner is
	// opened, or stale updates leak into the new session.
	Subscribe(ownerID string, fn func([]model.Task)) (cancel func())

	// GetSettings returns the owner's settings singleton, or zero-value
	// settings when none have been saved yet.
	GetSettings(ctx context.Context, ownerID string) (model.Settings, error)
	SaveSettings(ctx context.Context, ownerID string, s model.Settings) error

	Close() error
}
