package booking

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"domik/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreBasics(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	store.Create(42, 7, now)
	sess, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, uint(7), sess.ResourceID)
	assert.Equal(t, 2024, sess.CalendarYear)
	assert.Equal(t, 6, sess.CalendarMonth)

	// Get hands out copies; mutating one must not leak into the store.
	in := day(2024, 6, 10)
	sess.CheckIn = &in
	fresh, _ := store.Get(42)
	assert.Nil(t, fresh.CheckIn)

	require.NoError(t, store.Update(42, func(s *models.BookingSession) error {
		s.CheckIn = &in
		return nil
	}))
	fresh, _ = store.Get(42)
	require.NotNil(t, fresh.CheckIn)

	assert.ErrorIs(t, store.Update(77, func(*models.BookingSession) error { return nil }), ErrSessionNotFound)

	store.Remove(42)
	_, ok = store.Get(42)
	assert.False(t, ok)
}

func TestSessionStoreCreateReplaces(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	store.Create(42, 7, now)
	in := day(2024, 6, 10)
	require.NoError(t, store.Update(42, func(s *models.BookingSession) error {
		s.CheckIn = &in
		return nil
	}))

	store.Create(42, 8, now)
	sess, _ := store.Get(42)
	assert.Equal(t, uint(8), sess.ResourceID)
	assert.Nil(t, sess.CheckIn, "a new session starts clean")
}

func TestSweepExpired(t *testing.T) {
	store := NewSessionStore()
	base := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)

	store.Create(1, 7, base.Add(-25*time.Hour)) // stale, no dates
	store.Create(2, 7, base.Add(-23*time.Hour)) // still fresh
	store.Create(3, 7, base.Add(-48*time.Hour)) // old but complete
	in, out := day(2024, 6, 10), day(2024, 6, 12)
	require.NoError(t, store.Update(3, func(s *models.BookingSession) error {
		s.CheckIn, s.CheckOut = &in, &out
		return nil
	}))

	removed := store.SweepExpired(base, SessionMaxAge)
	assert.Equal(t, 1, removed)

	_, ok := store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(2)
	assert.True(t, ok)
	_, ok = store.Get(3)
	assert.True(t, ok, "a session holding a full range is kept for restart recovery")
}

func TestStateFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.json")
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	store := NewSessionStore()
	store.Create(42, 7, now)
	in := day(2024, 6, 10)
	require.NoError(t, store.Update(42, func(s *models.BookingSession) error {
		s.CheckIn = &in
		return nil
	}))
	store.Create(43, 9, now)

	require.NoError(t, store.SaveStateFile(path))

	restored := NewSessionStore()
	require.NoError(t, restored.LoadStateFile(path))
	assert.Equal(t, 2, restored.Len())

	sess, ok := restored.Get(42)
	require.True(t, ok)
	assert.Equal(t, uint(7), sess.ResourceID)
	require.NotNil(t, sess.CheckIn)
	assert.Equal(t, in, *sess.CheckIn)
	assert.Nil(t, sess.CheckOut)
	assert.True(t, sess.Created.Equal(now))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "the state file is one-shot and must be consumed")
}

func TestLoadStateFileMissingIsFine(t *testing.T) {
	store := NewSessionStore()
	require.NoError(t, store.LoadStateFile(filepath.Join(t.TempDir(), "absent.json")))
	assert.Equal(t, 0, store.Len())
}
