package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/xbookmarks/internal/models"
)

// CookieOptions controls the session cookie attributes
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Manager ties the cookie to the store: it loads the session of a request and
// writes the cookie back after a commit.
type Manager struct {
	store  Store
	codec  *CookieCodec
	logger *slog.Logger
	now    func() time.Time
	cookie CookieOptions
}

// NewManager creates a Manager
func NewManager(store Store, codec *CookieCodec, cookie CookieOptions, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		codec:  codec,
		cookie: cookie,
		logger: logger,
		now:    time.Now,
	}
}

// Store returns the underlying session store
func (m *Manager) Store() Store {
	return m.store
}

// New returns a fresh anonymous session. It is not persisted until committed.
func (m *Manager) New() (*models.Session, error) {
	id, err := NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	return &models.Session{ID: id, CreatedAt: m.now()}, nil
}

// Load returns the session referenced by the request cookie, or a fresh
// anonymous session when the cookie is absent, forged or points nowhere.
// Only store failures are returned as errors.
func (m *Manager) Load(r *http.Request) (*models.Session, error) {
	c, err := r.Cookie(m.cookie.Name)
	if err != nil {
		return m.New()
	}

	sid, err := m.codec.Decode(c.Value)
	if err != nil {
		m.logger.DebugContext(r.Context(), "Rejected session cookie", slog.Any("error", err))
		return m.New()
	}

	sess, err := m.store.Get(r.Context(), sid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return m.New()
		}
		return nil, err
	}

	return sess, nil
}

// WriteCookie sets the cookie for sess on the response. A saved session's
// cookie expires together with its store entry; an unsaved one gets the
// configured cookie TTL.
func (m *Manager) WriteCookie(w http.ResponseWriter, sess *models.Session) error {
	expiresAt := sess.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = m.now().Add(m.cookie.TTL)
	}

	maxAge := int(expiresAt.Sub(m.now()).Round(time.Second).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	value, err := m.codec.EncodeUntil(sess.ID, expiresAt)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Commit persists sess and sets its cookie. Every commit re-issues the
// cookie, so its expiry follows the rolling expiry set by Store.Save.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, sess *models.Session) error {
	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}
	return m.WriteCookie(w, sess)
}

// Destroy removes sess from the store and expires the cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *models.Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return m.store.Destroy(ctx, sess.ID)
}
