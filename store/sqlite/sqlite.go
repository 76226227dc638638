/*
Package sqlite provides a SQLite-backed generic.SlotStore.

PURPOSE:
  Durable save slots for the HTTP server. The store keeps opaque snapshot
  bytes per (user, slot); what goes in them is decided by session.SaveManager.

KEY TABLES:
  save_slots: (user_id, slot) -> payload, saved_at

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of a single connection, so an
  in-memory database is shared by every caller.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/lifesim.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  saves := session.NewSaveManager(store, logger)

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/lifesim/generic"
)

// Store implements generic.SlotStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.SlotStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slots (
		user_id TEXT NOT NULL,
		slot TEXT NOT NULL,
		payload BLOB NOT NULL,
		saved_at TEXT NOT NULL,
		PRIMARY KEY (user_id, slot)
	);

	CREATE INDEX IF NOT EXISTS idx_save_slots_user_saved
		ON save_slots(user_id, saved_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SLOT STORE
// =============================================================================

// Put creates or overwrites a slot.
func (s *Store) Put(ctx context.Context, userID, slot string, payload []byte, savedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO save_slots (user_id, slot, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, slot) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`
	if _, err := s.db.ExecContext(ctx, query, userID, slot, payload, formatTime(savedAt)); err != nil {
		return fmt.Errorf("put slot %q: %w", slot, err)
	}
	return nil
}

// Get returns the payload of a slot.
func (s *Store) Get(ctx context.Context, userID, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM save_slots WHERE user_id = ? AND slot = ?",
		userID, slot,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %q: %w", slot, err)
	}
	return payload, nil
}

// List returns every slot of a user, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]generic.SlotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT slot, saved_at FROM save_slots WHERE user_id = ? ORDER BY saved_at DESC, slot",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []generic.SlotInfo
	for rows.Next() {
		var name, savedAt string
		if err := rows.Scan(&name, &savedAt); err != nil {
			return nil, err
		}
		t, _ := time.Parse(time.RFC3339Nano, savedAt)
		slots = append(slots, generic.SlotInfo{
			Name:       name,
			SavedAt:    t,
			IsAutoSave: name == generic.AutosaveSlot,
		})
	}
	return slots, rows.Err()
}

// Delete removes a slot.
func (s *Store) Delete(ctx context.Context, userID, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM save_slots WHERE user_id = ? AND slot = ?",
		userID, slot,
	)
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrSlotNotFound
	}
	return nil
}

// Rename moves a slot inside one transaction.
func (s *Store) Rename(ctx context.Context, userID, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	var taken int
	if err := sqlTx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM save_slots WHERE user_id = ? AND slot = ?",
		userID, newName,
	).Scan(&taken); err != nil {
		return err
	}
	if taken > 0 {
		return generic.ErrSlotExists
	}

	res, err := sqlTx.ExecContext(ctx,
		"UPDATE save_slots SET slot = ? WHERE user_id = ? AND slot = ?",
		newName, userID, oldName,
	)
	if err != nil {
		return fmt.Errorf("rename slot %q: %w", oldName, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrSlotNotFound
	}
	return sqlTx.Commit()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM save_slots")
	return err
}

// formatTime keeps sub-second precision in a form that sorts as text.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
