package session

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/iudanet/xbookmarks/internal/crypto"
	"github.com/iudanet/xbookmarks/internal/models"
)

// MemoryStore keeps sessions in process memory, bounded by an LRU so that
// anonymous sessions cannot grow the heap without limit.
type MemoryStore struct {
	cache *lru.Cache
	opts  Options
	mu    sync.Mutex
}

// NewMemoryStore creates a store holding at most maxEntries sessions
func NewMemoryStore(maxEntries int, opts Options) *MemoryStore {
	return &MemoryStore{
		cache: lru.New(maxEntries),
		opts:  opts.withDefaults(),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	key := crypto.HashToken(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}

	sess := v.(*models.Session)
	if !s.opts.Now().Before(sess.ExpiresAt) {
		s.cache.Remove(key)
		return nil, ErrNotFound
	}

	out := sess.Clone()
	out.ID = id
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *models.Session) error {
	s.opts.stamp(sess)
	stored := sess.Clone()
	stored.ID = ""

	s.mu.Lock()
	s.cache.Add(crypto.HashToken(sess.ID), stored)
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	s.cache.Remove(crypto.HashToken(id))
	s.mu.Unlock()
	return nil
}

// Len returns the number of held sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.cache.Clear()
	s.mu.Unlock()
	return nil
}
