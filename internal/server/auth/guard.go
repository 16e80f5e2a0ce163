package auth

import (
	"time"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
)

// Principal is the authenticated caller as seen by handlers.
type Principal struct {
	TokenExpiresAt time.Time
	UserID         string
	Username       string
	AccessToken    string
}

// CheckSession decides whether sess may reach an authenticated route. It
// reads the session only.
func CheckSession(sess *models.Session, now time.Time) (Principal, error) {
	if sess == nil || sess.User == nil || sess.Tokens == nil {
		return Principal{}, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if !now.Before(sess.Tokens.ExpiresAt) {
		return Principal{}, apperr.New(apperr.SessionExpired, "session expired, please log in again")
	}

	return Principal{
		UserID:         sess.User.UserID,
		Username:       sess.User.Username,
		AccessToken:    sess.Tokens.AccessToken,
		TokenExpiresAt: sess.Tokens.ExpiresAt,
	}, nil
}
