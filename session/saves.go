/*
saves.go - Save slot policy and snapshot encoding

PURPOSE:
  Sits between a game session and a generic.SlotStore. The store keeps raw
  bytes; this file decides what goes in them and which slots may exist.

SLOT POLICY:
  - "__autosave__" is written after every committed month and settlement
  - The autosave cannot be deleted, renamed, or saved over by name
  - List: autosave first, then named slots newest first
  - At most generic.MaxNamedSlots named slots; the oldest is evicted
  - Rename fails with ErrSlotExists when the target is taken

FAILURES:
  Every store failure is returned as *generic.PersistenceError. The caller's
  in-memory state is never touched here, so a failed save loses nothing.
  The autosave retries transient failures with exponential backoff.

SNAPSHOT FORMAT:
  {"version": 1, "player": ..., "date": ..., "state": {...full sim.State...}}
*/
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"

	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/sim"
)

const snapshotVersion = 1

type snapshot struct {
	Version int               `json:"version"`
	Player  string            `json:"player"`
	Date    generic.MonthDate `json:"date"`
	State   *sim.State        `json:"state"`
}

// EncodeSnapshot serializes the full game state.
func EncodeSnapshot(s *sim.State) ([]byte, error) {
	return json.Marshal(snapshot{Version: snapshotVersion, Player: s.Player, Date: s.Date, State: s})
}

// DecodeSnapshot restores a state written by EncodeSnapshot.
func DecodeSnapshot(data []byte) (*sim.State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", snap.Version)
	}
	if snap.State == nil {
		return nil, fmt.Errorf("decode snapshot: missing state")
	}
	return snap.State, nil
}

// =============================================================================
// SAVE MANAGER
// =============================================================================

type SaveManager struct {
	store  generic.SlotStore
	logger *log.Logger
	now    func() time.Time

	retries  uint
	interval time.Duration
}

type Option func(*SaveManager)

// WithClock replaces time.Now for slot timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *SaveManager) { m.now = now }
}

// WithRetry sets the autosave attempts and the first backoff interval.
func WithRetry(attempts uint, interval time.Duration) Option {
	return func(m *SaveManager) {
		m.retries = max(attempts, 1)
		m.interval = interval
	}
}

func NewSaveManager(store generic.SlotStore, logger *log.Logger, opts ...Option) *SaveManager {
	m := &SaveManager{
		store:    store,
		logger:   logger,
		now:      time.Now,
		retries:  3,
		interval: 100 * time.Millisecond,
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Autosave writes the autosave slot, retrying transient failures.
func (m *SaveManager) Autosave(ctx context.Context, userID string, s *sim.State) error {
	payload, err := EncodeSnapshot(s)
	if err != nil {
		return &generic.PersistenceError{Op: "autosave", Slot: generic.AutosaveSlot, Err: err}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = m.interval

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := m.store.Put(ctx, userID, generic.AutosaveSlot, payload, m.now())
		if err == nil {
			return struct{}{}, nil
		}
		perr := &generic.PersistenceError{Op: "autosave", Slot: generic.AutosaveSlot, Err: err}
		if !generic.IsRetryable(perr) {
			return struct{}{}, backoff.Permanent(perr)
		}
		m.logger.Warn("autosave attempt failed", "user", userID, "attempt", attempt, "err", err)
		return struct{}{}, perr
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(m.retries))
	if err != nil {
		m.logger.Error("autosave failed", "user", userID, "month", s.Date, "err", err)
		return err
	}
	m.logger.Debug("autosaved", "user", userID, "month", s.Date, "attempts", attempt)
	return nil
}

// Save writes a named slot, evicting the oldest named slots beyond the
// limit.
func (m *SaveManager) Save(ctx context.Context, userID, name string, s *sim.State) error {
	if err := validateName(name); err != nil {
		return err
	}
	payload, err := EncodeSnapshot(s)
	if err != nil {
		return &generic.PersistenceError{Op: "save", Slot: name, Err: err}
	}
	if err := m.store.Put(ctx, userID, name, payload, m.now()); err != nil {
		return &generic.PersistenceError{Op: "save", Slot: name, Err: err}
	}
	m.logger.Info("game saved", "user", userID, "slot", name, "month", s.Date)
	return m.evict(ctx, userID)
}

func (m *SaveManager) evict(ctx context.Context, userID string) error {
	slots, err := m.List(ctx, userID)
	if err != nil {
		return err
	}
	named := slices.DeleteFunc(slots, func(si generic.SlotInfo) bool { return si.IsAutoSave })
	// named is newest first
	for _, old := range named[min(len(named), generic.MaxNamedSlots):] {
		if err := m.store.Delete(ctx, userID, old.Name); err != nil {
			return &generic.PersistenceError{Op: "evict", Slot: old.Name, Err: err}
		}
		m.logger.Info("evicted save slot", "user", userID, "slot", old.Name)
	}
	return nil
}

// Load reads a slot back into a state.
func (m *SaveManager) Load(ctx context.Context, userID, name string) (*sim.State, error) {
	payload, err := m.store.Get(ctx, userID, name)
	if err != nil {
		return nil, &generic.PersistenceError{Op: "load", Slot: name, Err: err}
	}
	s, err := DecodeSnapshot(payload)
	if err != nil {
		return nil, &generic.PersistenceError{Op: "load", Slot: name, Err: err}
	}
	return s, nil
}

// List returns the user's slots: autosave first, then newest first.
func (m *SaveManager) List(ctx context.Context, userID string) ([]generic.SlotInfo, error) {
	slots, err := m.store.List(ctx, userID)
	if err != nil {
		return nil, &generic.PersistenceError{Op: "list", Err: err}
	}
	slices.SortFunc(slots, func(a, b generic.SlotInfo) int {
		switch {
		case a.IsAutoSave != b.IsAutoSave:
			if a.IsAutoSave {
				return -1
			}
			return 1
		case !a.SavedAt.Equal(b.SavedAt):
			return b.SavedAt.Compare(a.SavedAt)
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})
	return slots, nil
}

func (m *SaveManager) Delete(ctx context.Context, userID, name string) error {
	if name == generic.AutosaveSlot {
		return generic.ErrAutosaveProtected
	}
	if err := m.store.Delete(ctx, userID, name); err != nil {
		return &generic.PersistenceError{Op: "delete", Slot: name, Err: err}
	}
	m.logger.Info("deleted save slot", "user", userID, "slot", name)
	return nil
}

func (m *SaveManager) Rename(ctx context.Context, userID, oldName, newName string) error {
	if oldName == generic.AutosaveSlot {
		return generic.ErrAutosaveProtected
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if err := m.store.Rename(ctx, userID, oldName, newName); err != nil {
		return &generic.PersistenceError{Op: "rename", Slot: oldName, Err: err}
	}
	m.logger.Info("renamed save slot", "user", userID, "from", oldName, "to", newName)
	return nil
}

func validateName(name string) error {
	switch {
	case name == generic.AutosaveSlot:
		return generic.ErrAutosaveProtected
	case strings.TrimSpace(name) == "":
		return generic.ErrInvalidSlotName
	}
	return nil
}
