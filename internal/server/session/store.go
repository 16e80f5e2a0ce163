// Package session keeps server-side session state behind a signed cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/iudanet/xbookmarks/internal/models"
)

// ErrNotFound is returned by Get for unknown and expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists sessions by id. Implementations never store the raw id.
type Store interface {
	// Get returns a copy of the session; mutations are visible only after Save
	// Returns ErrNotFound if the session doesn't exist or has expired
	Get(ctx context.Context, id string) (*models.Session, error)

	// Save writes the session and extends its expiry by the store TTL.
	// Callers holding a cookie must re-issue it after Save; Manager.Commit does.
	Save(ctx context.Context, sess *models.Session) error

	// Destroy removes the session. Unknown ids are not an error
	Destroy(ctx context.Context, id string) error

	// Close releases the backend
	Close() error
}

// Options are shared by all backends.
type Options struct {
	Now func() time.Time
	TTL time.Duration
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TTL <= 0 {
		o.TTL = 12 * time.Hour
	}
	return o
}

// stamp sets the rolling expiry of sess.
func (o Options) stamp(sess *models.Session) {
	now := o.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.ExpiresAt = now.Add(o.TTL)
}

// NewID returns a fresh 256-bit session id.
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
