package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/generic"
)

func TestMemory_SlotContract(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

	payload := []byte("snapshot")
	require.NoError(t, m.Put(ctx, "alice", "one", payload, now))
	payload[0] = 'X'

	got, err := m.Get(ctx, "alice", "one")
	require.NoError(t, err)
	assert.Equal(t, "snapshot", string(got), "the store keeps its own copy")

	assert.True(t, errors.Is(m.Rename(ctx, "alice", "missing", "two"), generic.ErrSlotNotFound))
	require.NoError(t, m.Put(ctx, "alice", "two", []byte("x"), now))
	assert.True(t, errors.Is(m.Rename(ctx, "alice", "one", "two"), generic.ErrSlotExists))

	require.NoError(t, m.Delete(ctx, "alice", "two"))
	assert.True(t, errors.Is(m.Delete(ctx, "alice", "two"), generic.ErrSlotNotFound))

	slots, err := m.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestMemory_FailNext(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.FailNext = 1
	m.FailErr = errors.New("disk full")

	err := m.Put(ctx, "alice", "one", []byte("x"), time.Now())
	assert.EqualError(t, err, "disk full")

	assert.NoError(t, m.Put(ctx, "alice", "one", []byte("x"), time.Now()))
	assert.Equal(t, 0, m.FailNext)
}
