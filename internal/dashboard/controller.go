package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/RuDeeVelops/ptIt-relo/internal/identity"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/store"
)

// ErrNotSignedIn is returned by mutations attempted without an
// authenticated user. No store call is made in that case.
var ErrNotSignedIn = errors.New("not signed in")

// remoteTimeout bounds each fire-and-forget store write.
const remoteTimeout = 15 * time.Second

// Placeholder values for newly created tasks.
const (
	placeholderTitle = "New step"
	placeholderPhase = "Planning"
)

// Controller owns the single source of truth for the signed-in account,
// the live task collection, the relocation settings, and derived KPIs.
// Every user-initiated mutation goes through it: local state is patched
// immediately, the matching store write runs asynchronously, and a failed
// write is logged but never rolled back. The next subscription push
// resynchronizes local state with the store.
type Controller struct {
	store    store.Store
	provider identity.Provider
	log      zerolog.Logger

	mu          sync.Mutex
	account     *identity.Account
	tasks       []model.Task
	settings    model.Settings
	unsubscribe func()

	// updates gets a signal whenever tasks or settings change; the UI
	// drains it to re-render. Buffered so writers never block.
	updates chan struct{}

	authCancel func()
}

// New creates a controller wired to the given store and identity provider.
func New(s store.Store, p identity.Provider, log zerolog.Logger) *Controller {
	return &Controller{
		store:    s,
		provider: p,
		log:      log,
		updates:  make(chan struct{}, 1),
	}
}

// Start subscribes the controller to the provider's auth-state stream.
func (c *Controller) Start() {
	c.authCancel = c.provider.OnAuthChange(c.OnAuthResolved)
}

// Close tears down the auth listener and any live subscription.
func (c *Controller) Close() {
	if c.authCancel != nil {
		c.authCancel()
		c.authCancel = nil
	}
	c.OnAuthResolved(nil)
}

// Updates returns the channel the UI listens on for state changes.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// OnAuthResolved is the sole entry point that starts and stops the store
// subscription. The previous subscription is always closed before a new
// one opens or before transitioning to signed-out, so a change of account
// can never leak updates from a stale owner into the new session.
func (c *Controller) OnAuthResolved(account *identity.Account) {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.account = account
	c.tasks = nil
	c.settings = model.Settings{}
	c.mu.Unlock()

	if account == nil {
		c.signal()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	settings, err := c.store.GetSettings(ctx, account.ID)
	if err != nil {
		c.log.Warn().Err(err).Str("owner", account.ID).Msg("loading settings failed")
	}
	tasks, err := c.store.ListTasks(ctx, account.ID)
	if err != nil {
		c.log.Warn().Err(err).Str("owner", account.ID).Msg("loading tasks failed")
	}

	unsubscribe := c.store.Subscribe(account.ID, c.onTasksPushed)

	c.mu.Lock()
	// The account may have changed again while we were loading.
	if c.account == nil || c.account.ID != account.ID {
		c.mu.Unlock()
		unsubscribe()
		return
	}
	c.settings = settings
	c.tasks = tasks
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	c.signal()
}

// onTasksPushed receives the full task list from the store subscription.
func (c *Controller) onTasksPushed(tasks []model.Task) {
	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()
	c.signal()
}

// signal nudges the updates channel without blocking.
func (c *Controller) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// Account returns the signed-in account, or nil.
func (c *Controller) Account() *identity.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

// Tasks returns a copy of the live task collection in its current order.
func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Settings returns the current relocation settings. The team list is
// copied so later mutations cannot reach through the returned value.
func (c *Controller) Settings() model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.settings
	s.TeamMembers = append([]string(nil), c.settings.TeamMembers...)
	return s
}

// CreateTask issues a creation request with placeholder title and phase,
// zeroed budgets, and todo status, at the end of the current ordering.
// The new task becomes visible through the subscription, not through the
// return value.
func (c *Controller) CreateTask() error {
	c.mu.Lock()
	account := c.account
	c.mu.Unlock()

	if account == nil {
		return ErrNotSignedIn
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	_, err := c.store.CreateTask(ctx, model.Task{
		OwnerID: account.ID,
		Title:   placeholderTitle,
		Phase:   placeholderPhase,
		Status:  model.StatusTodo,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("creating task failed")
		return err
	}
	return nil
}

// Update applies patch to the local copy of the task immediately, then
// issues the remote single-field patch asynchronously. A remote failure
// is logged and the optimistic local state stands until the next
// subscription push; this divergence window is an accepted trade-off.
func (c *Controller) Update(id string, patch store.FieldPatch) error {
	c.mu.Lock()
	account := c.account
	if account == nil {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			patch.Apply(&c.tasks[i])
			break
		}
	}
	c.mu.Unlock()
	c.signal()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := c.store.PatchTask(ctx, account.ID, id, patch); err != nil {
			c.log.Warn().Err(err).Str("task", id).
				Str("field", patch.Column()).Msg("remote patch failed; local state kept")
		}
	}()

	return nil
}

// ToggleStatus advances the task through the fixed three-state cycle.
func (c *Controller) ToggleStatus(id string) error {
	c.mu.Lock()
	var current string
	found := false
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			current = c.tasks[i].Status
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return store.ErrNotFound
	}
	return c.Update(id, store.StatusPatch{Value: model.NextStatus(current)})
}

// Delete removes the task locally first, then issues the remote delete.
// The local removal is never reverted, whatever the remote outcome.
// Callers gate this behind an explicit user confirmation.
func (c *Controller) Delete(id string) error {
	c.mu.Lock()
	account := c.account
	if account == nil {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.signal()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := c.store.DeleteTask(ctx, account.ID, id); err != nil {
			c.log.Warn().Err(err).Str("task", id).Msg("remote delete failed; local removal kept")
		}
	}()

	return nil
}

// Reorder recomputes the order index for every task in the given order
// and persists each index individually.
func (c *Controller) Reorder(orderedIDs []string) error {
	c.mu.Lock()
	account := c.account
	if account == nil {
		c.mu.Unlock()
		return ErrNotSignedIn
	}

	byID := make(map[string]model.Task, len(c.tasks))
	for _, t := range c.tasks {
		byID[t.ID] = t
	}
	reordered := make([]model.Task, 0, len(c.tasks))
	for i, id := range orderedIDs {
		t, ok := byID[id]
		if !ok {
			continue
		}
		t.OrderIndex = i + 1
		reordered = append(reordered, t)
		delete(byID, id)
	}
	// Tasks missing from the given order keep their relative position
	// at the end.
	for _, t := range c.tasks {
		if _, left := byID[t.ID]; left {
			t.OrderIndex = len(reordered) + 1
			reordered = append(reordered, t)
		}
	}
	c.tasks = reordered
	c.mu.Unlock()
	c.signal()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		for _, t := range reordered {
			patch := store.OrderPatch{Value: t.OrderIndex}
			if err := c.store.PatchTask(ctx, account.ID, t.ID, patch); err != nil {
				c.log.Warn().Err(err).Str("task", t.ID).Msg("persisting order failed")
			}
		}
	}()

	return nil
}
