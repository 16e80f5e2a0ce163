package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/xbookmarks/internal/crypto"
	"github.com/iudanet/xbookmarks/internal/models"
)

var bucketSessions = []byte("sessions")

// BoltStore keeps sessions in a bbolt file, for single-node deployments that
// should survive restarts.
type BoltStore struct {
	db     *bbolt.DB
	logger *slog.Logger
	stop   chan struct{}
	opts   Options
	wg     sync.WaitGroup
	once   sync.Once
}

// NewBoltStore opens (or creates) the session file at path and starts a
// sweeper that drops expired sessions every sweepInterval.
func NewBoltStore(path string, sweepInterval time.Duration, opts Options, logger *slog.Logger) (*BoltStore, error) {
	// a held file lock fails fast instead of blocking startup
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	s := &BoltStore{
		db:     db,
		logger: logger,
		stop:   make(chan struct{}),
		opts:   opts.withDefaults(),
	}

	if sweepInterval > 0 {
		s.wg.Add(1)
		go s.sweepLoop(sweepInterval)
	}

	return s, nil
}

func (s *BoltStore) Get(ctx context.Context, id string) (*models.Session, error) {
	key := []byte(crypto.HashToken(id))

	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketSessions).Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if data == nil {
		return nil, ErrNotFound
	}

	sess := &models.Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if !s.opts.Now().Before(sess.ExpiresAt) {
		if err := s.Destroy(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "Failed to drop expired session", slog.Any("error", err))
		}
		return nil, ErrNotFound
	}

	sess.ID = id
	return sess, nil
}

func (s *BoltStore) Save(_ context.Context, sess *models.Session) error {
	s.opts.stamp(sess)

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(crypto.HashToken(sess.ID)), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

func (s *BoltStore) Destroy(_ context.Context, id string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(crypto.HashToken(id)))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep deletes expired sessions and returns how many were removed
func (s *BoltStore) Sweep() (int, error) {
	now := s.opts.Now()
	removed := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)

		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var sess models.Session
			if err := json.Unmarshal(v, &sess); err != nil || !now.Before(sess.ExpiresAt) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})

	return removed, err
}

func (s *BoltStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.Sweep()
			if err != nil {
				s.logger.Warn("Session sweep failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				s.logger.Debug("Expired sessions removed", slog.Int("count", n))
			}
		case <-s.stop:
			return
		}
	}
}

func (s *BoltStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	return s.db.Close()
}
