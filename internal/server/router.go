// Package server assembles the HTTP surface: routes, middleware chain and
// the Lambda adapter.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/xbookmarks/internal/server/handlers"
	"github.com/iudanet/xbookmarks/internal/server/middleware"
)

// HealthPath is polled by load balancers and kept out of the access log
const HealthPath = "/api/v1/health"

// Handlers groups the route handlers
type Handlers struct {
	Auth      *handlers.AuthHandler
	Folders   *handlers.FolderHandler
	Bookmarks *handlers.BookmarkHandler
	Health    *handlers.HealthHandler
}

// RouterConfig holds what the middleware chain needs
type RouterConfig struct {
	Sessions middleware.SessionLoader
	// Limiter guards the /auth routes; nil disables rate limiting
	Limiter *middleware.RateLimiter
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewRouter returns the fully wrapped application handler.
// Chain: recovery -> logging -> session loading -> mux.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireSession := middleware.RequireSession(cfg.Now, cfg.Logger)
	protect := func(fn http.HandlerFunc) http.Handler {
		return requireSession(fn)
	}
	limit := func(fn http.HandlerFunc) http.Handler {
		if cfg.Limiter == nil {
			return fn
		}
		return cfg.Limiter.Middleware(fn)
	}

	// Public
	mux.HandleFunc("GET /{$}", h.Auth.Status)
	mux.Handle("GET /auth/x", limit(h.Auth.Login))
	mux.Handle("GET /auth/x/callback", limit(h.Auth.Callback))
	mux.Handle("POST /auth/logout", limit(h.Auth.Logout))
	mux.HandleFunc("GET "+HealthPath, h.Health.Health)

	// Authenticated
	mux.Handle("GET /dashboard", protect(h.Auth.Dashboard))

	mux.Handle("POST /api/folders", protect(h.Folders.Create))
	mux.Handle("GET /api/folders/user/{userId}", protect(h.Folders.ListByUser))
	mux.Handle("GET /api/folders/tree", protect(h.Folders.Tree))
	mux.Handle("GET /api/folders/search", protect(h.Folders.SearchFolders))
	mux.Handle("PUT /api/folders/{folderId}", protect(h.Folders.Rename))
	mux.Handle("PUT /api/folders/{folderId}/move", protect(h.Folders.Move))
	mux.Handle("POST /api/folders/{folderId}/copy", protect(h.Folders.Copy))
	mux.Handle("DELETE /api/folders/{folderId}", protect(h.Folders.Delete))

	mux.Handle("POST /api/bookmarks", protect(h.Bookmarks.Create))
	mux.Handle("GET /api/bookmarks/user/{userId}", protect(h.Bookmarks.ListByUser))
	mux.Handle("GET /api/bookmarks/folder/{folderId}", protect(h.Bookmarks.ListByFolder))
	mux.Handle("GET /api/bookmarks/search", protect(h.Bookmarks.SearchBookmarks))
	mux.Handle("GET /api/bookmarks/{bookmarkId}", protect(h.Bookmarks.Get))
	mux.Handle("PUT /api/bookmarks/{bookmarkId}/move", protect(h.Bookmarks.Move))
	mux.Handle("POST /api/bookmarks/{bookmarkId}/copy", protect(h.Bookmarks.Copy))
	mux.Handle("PUT /api/bookmarks/{bookmarkId}", protect(h.Bookmarks.Rename))
	mux.Handle("DELETE /api/bookmarks/{bookmarkId}", protect(h.Bookmarks.Delete))

	var handler http.Handler = mux
	handler = middleware.SessionMiddleware(cfg.Sessions, cfg.Logger)(handler)
	handler = middleware.LoggingWithSkip(cfg.Logger, []string{HealthPath})(handler)
	handler = middleware.RecoveryMiddleware(cfg.Logger)(handler)

	return handler
}
