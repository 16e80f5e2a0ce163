package session

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/xbookmarks/internal/models"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeClock struct {
	t  time.Time
	mu sync.Mutex
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func authenticatedSession(id string, now time.Time) *models.Session {
	return &models.Session{
		ID:     id,
		Tokens: &models.Tokens{AccessToken: "at-1", ExpiresAt: now.Add(2 * time.Hour)},
		User:   &models.SessionUser{UserID: "1001", Username: "alice"},
	}
}

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, newStore func(t *testing.T, clock *fakeClock) Store) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)

		sess := authenticatedSession("sid-1", clock.Now())
		require.NoError(t, s.Save(ctx, sess))
		assert.Equal(t, clock.Now().Add(time.Hour), sess.ExpiresAt)

		got, err := s.Get(ctx, "sid-1")
		require.NoError(t, err)
		assert.Equal(t, "sid-1", got.ID)
		require.True(t, got.IsAuthenticated())
		assert.Equal(t, "alice", got.User.Username)
		assert.Equal(t, "at-1", got.Tokens.AccessToken)
		assert.True(t, got.Tokens.ExpiresAt.Equal(sess.Tokens.ExpiresAt))
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newStore(t, newFakeClock())
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expiry", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)

		require.NoError(t, s.Save(ctx, &models.Session{ID: "sid-2"}))
		clock.Advance(59 * time.Minute)
		_, err := s.Get(ctx, "sid-2")
		require.NoError(t, err)

		clock.Advance(time.Minute)
		_, err = s.Get(ctx, "sid-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("pending state round trip", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)

		sess := &models.Session{ID: "sid-3", OAuthState: &models.OAuthState{
			State:        "s1",
			CodeVerifier: "v1",
			CreatedAt:    clock.Now(),
		}}
		require.NoError(t, s.Save(ctx, sess))

		got, err := s.Get(ctx, "sid-3")
		require.NoError(t, err)
		require.NotNil(t, got.OAuthState)
		assert.Equal(t, "s1", got.OAuthState.State)
		assert.Equal(t, "v1", got.OAuthState.CodeVerifier)
		assert.True(t, got.OAuthState.CreatedAt.Equal(clock.Now()))
		assert.False(t, got.IsAuthenticated())
	})

	t.Run("destroy", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)

		require.NoError(t, s.Save(ctx, &models.Session{ID: "sid-4"}))
		require.NoError(t, s.Destroy(ctx, "sid-4"))
		_, err := s.Get(ctx, "sid-4")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, s.Destroy(ctx, "sid-4"))
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(t *testing.T, clock *fakeClock) Store {
		s := NewMemoryStore(100, Options{TTL: time.Hour, Now: clock.Now})
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryStore_IsolatesCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, Options{TTL: time.Hour})

	sess := &models.Session{ID: "sid"}
	require.NoError(t, s.Save(ctx, sess))

	sess.User = &models.SessionUser{UserID: "x"}
	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got.User, "unsaved mutation must not leak into the store")
}

func TestMemoryStore_LRUEviction(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, Options{TTL: time.Hour})

	require.NoError(t, s.Save(ctx, &models.Session{ID: "a"}))
	require.NoError(t, s.Save(ctx, &models.Session{ID: "b"}))
	_, err := s.Get(ctx, "a") // a becomes most recently used
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, &models.Session{ID: "c"}))

	assert.Equal(t, 2, s.Len())
	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestBoltStore(t *testing.T) {
	storeContract(t, func(t *testing.T, clock *fakeClock) Store {
		s, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"), 0, Options{TTL: time.Hour, Now: clock.Now}, setupTestLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestBoltStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"), time.Hour, Options{TTL: time.Hour, Now: clock.Now}, setupTestLogger())
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	require.NoError(t, s.Save(ctx, &models.Session{ID: "old"}))
	clock.Advance(30 * time.Minute)
	require.NoError(t, s.Save(ctx, &models.Session{ID: "new"}))
	clock.Advance(45 * time.Minute)

	n, err := s.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestBoltStore_StoresHashedKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"), 0, Options{TTL: time.Hour}, setupTestLogger())
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	require.NoError(t, s.Save(ctx, &models.Session{ID: "raw-session-id"}))

	var keys []string
	require.NoError(t, s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			assert.NotContains(t, string(v), "raw-session-id")
			return nil
		})
	}))
	require.Len(t, keys, 1)
	assert.NotEqual(t, "raw-session-id", keys[0])
}

func TestNewID(t *testing.T) {
	a, err := NewID()
	require.NoError(t, err)
	b, err := NewID()
	require.NoError(t, err)
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
