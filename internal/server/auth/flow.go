package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/storage"
	"github.com/iudanet/xbookmarks/internal/validation"
)

// defaultTokenLifetime applies when the token response carries no expires_in
const defaultTokenLifetime = 2 * time.Hour

// SessionStore is what the flow needs from the session backend
type SessionStore interface {
	Save(ctx context.Context, sess *models.Session) error
	Destroy(ctx context.Context, id string) error
}

// TokenSealer encrypts the provider refresh token for the user it belongs to
type TokenSealer interface {
	Seal(ctx context.Context, subject, plaintext string) (string, error)
}

// FlowConfig describes the OAuth client registration
type FlowConfig struct {
	HTTPClient   *http.Client
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	LandingPath  string
	Scopes       []string
	StateTTL     time.Duration
}

// Flow drives a session from anonymous through pending to authenticated.
type Flow struct {
	oauth      *oauth2.Config
	httpClient *http.Client
	sessions   SessionStore
	users      storage.UserStorage
	profiles   ProfileFetcher
	sealer     TokenSealer
	logger     *slog.Logger
	now        func() time.Time
	newID      func() (string, error)
	landing    string
	stateTTL   time.Duration
}

// NewFlow creates a Flow. newID generates replacement session ids on login.
func NewFlow(
	cfg FlowConfig,
	sessions SessionStore,
	users storage.UserStorage,
	profiles ProfileFetcher,
	sealer TokenSealer,
	newID func() (string, error),
	logger *slog.Logger,
) *Flow {
	stateTTL := cfg.StateTTL
	if stateTTL <= 0 {
		stateTTL = 5 * time.Minute
	}

	return &Flow{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: cfg.HTTPClient,
		sessions:   sessions,
		users:      users,
		profiles:   profiles,
		sealer:     sealer,
		logger:     logger,
		now:        time.Now,
		newID:      newID,
		landing:    cfg.LandingPath,
		stateTTL:   stateTTL,
	}
}

// StartLogin records a new pending authorization in sess, persists it and
// returns the provider URL to redirect to.
func (f *Flow) StartLogin(ctx context.Context, sess *models.Session) (string, error) {
	state, err := GenerateState()
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnknown, "failed to start login", err)
	}
	verifier, err := GenerateVerifier()
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnknown, "failed to start login", err)
	}

	sess.OAuthState = &models.OAuthState{
		State:        state,
		CodeVerifier: verifier,
		CreatedAt:    f.now(),
	}

	// the callback can only validate a state that was durably saved
	if err := f.sessions.Save(ctx, sess); err != nil {
		f.logger.ErrorContext(ctx, "Failed to persist session before redirect", slog.Any("error", err))
		return "", apperr.Wrap(apperr.SessionPersistError, "failed to save session", err)
	}

	return f.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// HandleCallback completes the login started by StartLogin. On success the
// session holds tokens and user, carries a new id, and the landing path is
// returned. The pending state is consumed once it has matched, whatever
// happens afterwards.
func (f *Flow) HandleCallback(ctx context.Context, sess *models.Session, query url.Values) (string, error) {
	// without a pending login nothing in the query can be trusted
	pending := sess.OAuthState
	if pending == nil {
		f.logger.WarnContext(ctx, "OAuth callback without pending login")
		return "", apperr.New(apperr.CsrfMismatch, "state does not match any pending login")
	}

	code, okCode := singleValue(query, "code")
	state, okState := singleValue(query, "state")
	if !okCode || !okState {
		if providerErr := query.Get("error"); providerErr != "" {
			f.logger.WarnContext(ctx, "Authorization denied by provider", slog.String("error_code", providerErr))
			return "", apperr.New(apperr.InvalidRequest, "authorization was not granted: "+providerErr)
		}
		return "", apperr.New(apperr.InvalidRequest, "code and state query parameters are required")
	}

	if subtle.ConstantTimeCompare([]byte(pending.State), []byte(state)) != 1 {
		f.logger.WarnContext(ctx, "OAuth state mismatch")
		return "", apperr.New(apperr.CsrfMismatch, "state does not match any pending login")
	}

	sess.OAuthState = nil
	if err := f.sessions.Save(ctx, sess); err != nil {
		f.logger.ErrorContext(ctx, "Failed to clear pending OAuth state", slog.Any("error", err))
		return "", apperr.Wrap(apperr.SessionPersistError, "failed to save session", err)
	}

	if f.now().Sub(pending.CreatedAt) > f.stateTTL {
		f.logger.WarnContext(ctx, "OAuth state expired", slog.Time("created_at", pending.CreatedAt))
		return "", apperr.New(apperr.StateExpired, "login request expired, please try again")
	}

	exchangeCtx := ctx
	if f.httpClient != nil {
		exchangeCtx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}

	token, err := f.oauth.Exchange(exchangeCtx, code, oauth2.VerifierOption(pending.CodeVerifier))
	if err != nil {
		return "", f.exchangeError(ctx, err)
	}

	profile, err := f.profiles.FetchProfile(exchangeCtx, token)
	if err != nil {
		f.logger.ErrorContext(ctx, "Failed to fetch profile", slog.Any("error", err))
		return "", apperr.Wrap(apperr.ProfileFetchError, "failed to fetch user profile", err)
	}
	if err := validation.ValidateUsername(profile.Username); err != nil {
		f.logger.ErrorContext(ctx, "Provider returned unusable profile", slog.String("user_id", profile.ID), slog.Any("error", err))
		return "", apperr.Wrap(apperr.ProfileFetchError, "provider returned an invalid profile", err)
	}

	sealed, err := f.sealer.Seal(ctx, profile.ID, token.RefreshToken)
	if err != nil {
		f.logger.ErrorContext(ctx, "Failed to seal refresh token", slog.Any("error", err))
		return "", apperr.Wrap(apperr.StorageError, "failed to store credentials", err)
	}

	err = f.users.UpsertUser(ctx, &models.User{
		UserID:       profile.ID,
		Username:     profile.Username,
		RefreshToken: sealed,
	})
	if err != nil {
		f.logger.ErrorContext(ctx, "Failed to upsert user", slog.String("user_id", profile.ID), slog.Any("error", err))
		if errors.Is(err, storage.ErrUsernameTaken) {
			return "", apperr.Wrap(apperr.StorageError, "username is bound to another account", err)
		}
		return "", apperr.Wrap(apperr.StorageError, "failed to save user", err)
	}

	// a fresh id so that an id planted before login is worthless afterwards
	oldID := sess.ID
	newID, err := f.newID()
	if err != nil {
		return "", apperr.Wrap(apperr.SessionPersistError, "failed to rotate session", err)
	}

	sess.ID = newID
	sess.Tokens = &models.Tokens{
		AccessToken: token.AccessToken,
		ExpiresAt:   f.now().Add(tokenLifetime(token)),
	}
	sess.User = &models.SessionUser{
		UserID:   profile.ID,
		Username: profile.Username,
	}

	if err := f.sessions.Save(ctx, sess); err != nil {
		f.logger.ErrorContext(ctx, "Failed to persist authenticated session", slog.Any("error", err))
		return "", apperr.Wrap(apperr.SessionPersistError, "failed to save session", err)
	}
	if err := f.sessions.Destroy(ctx, oldID); err != nil {
		f.logger.WarnContext(ctx, "Failed to drop pre-login session", slog.Any("error", err))
	}

	f.logger.InfoContext(ctx, "User logged in",
		slog.String("user_id", profile.ID),
		slog.String("username", profile.Username),
	)

	return f.landing, nil
}

// exchangeError classifies a token endpoint failure. Only the status and the
// OAuth error code are logged; the request carried the verifier and secret.
func (f *Flow) exchangeError(ctx context.Context, err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		f.logger.ErrorContext(ctx, "Token exchange transport failure", slog.Any("error", err))
		return apperr.WithStatus(apperr.TokenExchangeError, http.StatusInternalServerError, "token exchange failed")
	}

	f.logger.WarnContext(ctx, "Token exchange rejected",
		slog.Int("status", re.Response.StatusCode),
		slog.String("error_code", re.ErrorCode),
	)

	switch {
	case re.Response.StatusCode == http.StatusForbidden,
		re.Response.StatusCode == http.StatusUnauthorized,
		re.ErrorCode == "invalid_client", re.ErrorCode == "unauthorized_client":
		return apperr.WithStatus(apperr.TokenExchangeError, http.StatusForbidden, "provider rejected the client credentials")
	case re.Response.StatusCode == http.StatusBadRequest:
		return apperr.WithStatus(apperr.TokenExchangeError, http.StatusBadRequest, "authorization code is invalid or expired")
	default:
		return apperr.WithStatus(apperr.TokenExchangeError, http.StatusInternalServerError, "token exchange failed")
	}
}

// singleValue returns the parameter only when it occurs exactly once and is non-empty.
func singleValue(query url.Values, key string) (string, bool) {
	values, ok := query[key]
	if !ok || len(values) != 1 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

// tokenLifetime reads expires_in from the raw token response.
func tokenLifetime(token *oauth2.Token) time.Duration {
	var seconds float64
	switch v := token.Extra("expires_in").(type) {
	case float64:
		seconds = v
	case string:
		seconds, _ = strconv.ParseFloat(v, 64)
	}
	if seconds <= 0 {
		return defaultTokenLifetime
	}
	return time.Duration(seconds) * time.Second
}
