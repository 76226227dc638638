/*
store.go - Persistence interface for save slots

PURPOSE:
  Defines the interface between the game session and durable storage.
  A save slot is a full snapshot of one game, keyed by (user, slot name).
  The engine serializes; the store only keeps bytes.

KEY INTERFACES:
  SlotStore: Raw CRUD over (user, slot) -> payload

SLOT POLICY (enforced above the store, in session.SaveManager):
  - "__autosave__" is written after every committed month and settlement
  - The autosave can never be deleted or renamed and lists first
  - At most MaxNamedSlots named slots; the oldest is evicted on overflow

CONTRACT:
  - Put overwrites the whole payload (no partial/delta writes)
  - Get returns ErrSlotNotFound for a missing slot
  - Rename returns ErrSlotExists when the target already exists
  - List returns slots in no particular order

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - session/saves.go: Slot policy and snapshot encoding
*/
package generic

import (
	"context"
	"time"
)

// AutosaveSlot is the implicit slot written after every committed transition.
const AutosaveSlot = "__autosave__"

// MaxNamedSlots is the number of named slots retained per user (plus autosave).
const MaxNamedSlots = 4

// SlotInfo describes a stored snapshot without its payload.
type SlotInfo struct {
	Name       string    `json:"name"`
	SavedAt    time.Time `json:"timestamp"`
	IsAutoSave bool      `json:"is_autosave"`
}

// SlotStore persists game snapshots per user.
type SlotStore interface {
	// Put creates or overwrites a slot.
	Put(ctx context.Context, userID, slot string, payload []byte, savedAt time.Time) error

	// Get returns the payload of a slot.
	Get(ctx context.Context, userID, slot string) ([]byte, error)

	// List returns every slot of a user.
	List(ctx context.Context, userID string) ([]SlotInfo, error)

	// Delete removes a slot. Missing slots return ErrSlotNotFound.
	Delete(ctx context.Context, userID, slot string) error

	// Rename moves a slot. Fails with ErrSlotExists if newName is taken.
	Rename(ctx context.Context, userID, oldName, newName string) error
}
