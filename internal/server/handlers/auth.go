package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/pkg/api"
)

// LoginFlow is the OAuth flow the auth handler drives
type LoginFlow interface {
	StartLogin(ctx context.Context, sess *models.Session) (string, error)
	HandleCallback(ctx context.Context, sess *models.Session, query url.Values) (string, error)
}

// SessionManager writes and clears session cookies
type SessionManager interface {
	WriteCookie(w http.ResponseWriter, sess *models.Session) error
	Destroy(ctx context.Context, w http.ResponseWriter, sess *models.Session) error
}

// AuthHandler serves the login, callback, logout and dashboard routes
type AuthHandler struct {
	logger   *slog.Logger
	flow     LoginFlow
	sessions SessionManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(logger *slog.Logger, flow LoginFlow, sessions SessionManager) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		flow:     flow,
		sessions: sessions,
	}
}

// Status handles GET /
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	if sess.IsAuthenticated() {
		WriteJSON(w, h.logger, http.StatusOK, "logged in as "+sess.User.Username, api.StatusResponse{
			Message:       "logged in as " + sess.User.Username,
			Authenticated: true,
		})
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "not logged in", api.StatusResponse{
		Message:  "not logged in",
		LoginURL: "/auth/x",
	})
}

// Login handles GET /auth/x
// Starts the authorization and redirects to the provider
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFrom(ctx)
	if sess == nil {
		WriteError(w, r, h.logger, apperr.New(apperr.KindUnknown, "session unavailable"))
		return
	}

	redirect, err := h.flow.StartLogin(ctx, sess)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	if err := h.sessions.WriteCookie(w, sess); err != nil {
		WriteError(w, r, h.logger, apperr.Wrap(apperr.SessionPersistError, "failed to issue session cookie", err))
		return
	}

	http.Redirect(w, r, redirect, http.StatusFound)
}

// Callback handles GET /auth/x/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFrom(ctx)
	if sess == nil {
		WriteError(w, r, h.logger, apperr.New(apperr.KindUnknown, "session unavailable"))
		return
	}

	landing, err := h.flow.HandleCallback(ctx, sess, r.URL.Query())
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	// the flow rotated the id, the browser needs the new cookie
	if err := h.sessions.WriteCookie(w, sess); err != nil {
		WriteError(w, r, h.logger, apperr.Wrap(apperr.SessionPersistError, "failed to issue session cookie", err))
		return
	}

	http.Redirect(w, r, landing, http.StatusFound)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFrom(ctx)
	if sess == nil {
		WriteJSON(w, h.logger, http.StatusOK, "logged out", nil)
		return
	}

	if err := h.sessions.Destroy(ctx, w, sess); err != nil {
		h.logger.ErrorContext(ctx, "failed to destroy session", slog.Any("error", err))
		WriteError(w, r, h.logger, apperr.Wrap(apperr.SessionPersistError, "failed to log out", err))
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "logged out", nil)
}

// Dashboard handles GET /dashboard
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		WriteError(w, r, h.logger, apperr.New(apperr.Unauthorized, "authentication required"))
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "welcome, "+p.Username, api.DashboardResponse{
		UserID:         p.UserID,
		Username:       p.Username,
		TokenExpiresAt: p.TokenExpiresAt,
	})
}
