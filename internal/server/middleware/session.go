package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/auth"
	"github.com/iudanet/xbookmarks/internal/server/handlers"
)

// SessionLoader resolves the session of a request
type SessionLoader interface {
	Load(r *http.Request) (*models.Session, error)
}

// SessionMiddleware loads the session of every request into the context.
// Requests without a valid cookie get a fresh anonymous session.
func SessionMiddleware(loader SessionLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := loader.Load(r)
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to load session", slog.Any("error", err))
				handlers.WriteError(w, r, logger, apperr.Wrap(apperr.StorageError, "session store unavailable", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithSession(r.Context(), sess)))
		})
	}
}

// RequireSession lets only authenticated, unexpired sessions through and
// exposes the caller to handlers via handlers.PrincipalFrom.
func RequireSession(now func() time.Time, logger *slog.Logger) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := auth.CheckSession(handlers.SessionFrom(ctx), now())
			if err != nil {
				logger.DebugContext(ctx, "Rejected unauthenticated request",
					slog.String("path", r.URL.Path),
					slog.String("kind", apperr.KindOf(err).String()),
				)
				handlers.WriteError(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithPrincipal(ctx, principal)))
		})
	}
}
