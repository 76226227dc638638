package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/generic"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "alice", "one", []byte(`{"v":1}`), t0))
	require.NoError(t, s.Put(ctx, "alice", "one", []byte(`{"v":2}`), t0.Add(time.Second)))

	got, err := s.Get(ctx, "alice", "one")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got))

	_, err = s.Get(ctx, "bob", "one")
	assert.True(t, errors.Is(err, generic.ErrSlotNotFound), "slots are per user")
}

func TestList(t *testing.T) {
	// GIVEN: Three slots saved a millisecond apart
	// WHEN: They are listed
	// THEN: Newest comes first and timestamps survive the round trip

	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Put(ctx, "alice", "a", []byte("x"), t0))
	require.NoError(t, s.Put(ctx, "alice", generic.AutosaveSlot, []byte("x"), t0.Add(time.Millisecond)))
	require.NoError(t, s.Put(ctx, "alice", "b", []byte("x"), t0.Add(2*time.Millisecond)))
	require.NoError(t, s.Put(ctx, "bob", "c", []byte("x"), t0))

	slots, err := s.List(ctx, "alice")

	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "b", slots[0].Name)
	assert.Equal(t, generic.AutosaveSlot, slots[1].Name)
	assert.True(t, slots[1].IsAutoSave)
	assert.True(t, slots[2].SavedAt.Equal(t0))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Put(ctx, "alice", "a", []byte("x"), t0))

	require.NoError(t, s.Delete(ctx, "alice", "a"))

	assert.True(t, errors.Is(s.Delete(ctx, "alice", "a"), generic.ErrSlotNotFound))
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Put(ctx, "alice", "a", []byte("first"), t0))
	require.NoError(t, s.Put(ctx, "alice", "b", []byte("second"), t0))

	assert.True(t, errors.Is(s.Rename(ctx, "alice", "a", "b"), generic.ErrSlotExists))
	assert.True(t, errors.Is(s.Rename(ctx, "alice", "zzz", "c"), generic.ErrSlotNotFound))

	require.NoError(t, s.Rename(ctx, "alice", "a", "c"))
	got, err := s.Get(ctx, "alice", "c")
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
	_, err = s.Get(ctx, "alice", "a")
	assert.True(t, errors.Is(err, generic.ErrSlotNotFound))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Put(ctx, "alice", "a", []byte("x"), t0))

	require.NoError(t, s.Reset(ctx))

	slots, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, slots)
}
