package handlers

import (
	"context"

	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/auth"
)

type contextKey string

const (
	// SessionKey holds the *models.Session of the request
	SessionKey contextKey = "session"
	// PrincipalKey holds the auth.Principal of an authenticated request
	PrincipalKey contextKey = "principal"
)

// WithSession returns ctx carrying sess
func WithSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// SessionFrom returns the session loaded by the session middleware, or nil
func SessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(SessionKey).(*models.Session)
	return sess
}

// WithPrincipal returns ctx carrying p
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom returns the authenticated caller set by RequireSession
func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(auth.Principal)
	return p, ok
}
