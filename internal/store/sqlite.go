package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
// It also maintains the in-process subscription registry that delivers
// post-write snapshots of an owner's task list.
type SQLiteStore struct {
	db *sqlx.DB

	mu          sync.Mutex
	subscribers map[int]*subscriber
	nextSubID   int
}

// subscriber is one registered Subscribe callback.
type subscriber struct {
	ownerID string
	fn      func([]model.Task)
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:          db,
		subscribers: make(map[int]*subscriber),
	}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Subscribe registers fn to be called with the owner's full task list after
// every successful write for that owner. The callback is invoked
// synchronously from the writing goroutine.
func (s *SQLiteStore) Subscribe(ownerID string, fn func([]model.Task)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = &subscriber{ownerID: ownerID, fn: fn}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// notify pushes a fresh task list to every subscriber of ownerID.
// Notification failures are silent: a read error here must not fail the
// write that triggered it.
func (s *SQLiteStore) notify(ctx context.Context, ownerID string) {
	s.mu.Lock()
	var fns []func([]model.Task)
	for _, sub := range s.subscribers {
		if sub.ownerID == ownerID {
			fns = append(fns, sub.fn)
		}
	}
	s.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	tasks, err := s.ListTasks(ctx, ownerID)
	if err != nil {
		return
	}
	for _, fn := range fns {
		fn(tasks)
	}
}

// isNoRows reports whether err is the sql no-rows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
