// Package store provides SlotStore implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/lifesim/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	slots map[key]entry

	// FailNext makes the next n write operations fail with FailErr.
	// Used to exercise the autosave retry path.
	FailNext int
	FailErr  error
}

type key struct {
	UserID string
	Slot   string
}

type entry struct {
	payload []byte
	savedAt time.Time
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[key]entry)}
}

func (m *Memory) Put(_ context.Context, userID, slot string, payload []byte, savedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failLocked(); err != nil {
		return err
	}
	m.slots[key{UserID: userID, Slot: slot}] = entry{
		payload: append([]byte(nil), payload...),
		savedAt: savedAt,
	}
	return nil
}

func (m *Memory) Get(_ context.Context, userID, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.slots[key{UserID: userID, Slot: slot}]
	if !ok {
		return nil, generic.ErrSlotNotFound
	}
	return append([]byte(nil), e.payload...), nil
}

func (m *Memory) List(_ context.Context, userID string) ([]generic.SlotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.SlotInfo
	for k, e := range m.slots {
		if k.UserID != userID {
			continue
		}
		result = append(result, generic.SlotInfo{
			Name:       k.Slot,
			SavedAt:    e.savedAt,
			IsAutoSave: k.Slot == generic.AutosaveSlot,
		})
	}
	return result, nil
}

func (m *Memory) Delete(_ context.Context, userID, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failLocked(); err != nil {
		return err
	}
	k := key{UserID: userID, Slot: slot}
	if _, ok := m.slots[k]; !ok {
		return generic.ErrSlotNotFound
	}
	delete(m.slots, k)
	return nil
}

func (m *Memory) Rename(_ context.Context, userID, oldName, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failLocked(); err != nil {
		return err
	}
	from := key{UserID: userID, Slot: oldName}
	to := key{UserID: userID, Slot: newName}
	e, ok := m.slots[from]
	if !ok {
		return generic.ErrSlotNotFound
	}
	if _, exists := m.slots[to]; exists {
		return generic.ErrSlotExists
	}
	delete(m.slots, from)
	m.slots[to] = e
	return nil
}

func (m *Memory) failLocked() error {
	if m.FailNext <= 0 {
		return nil
	}
	m.FailNext--
	if m.FailErr != nil {
		return m.FailErr
	}
	return generic.ErrPersistence
}
