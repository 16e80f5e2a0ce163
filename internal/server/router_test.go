package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/xbookmarks/internal/crypto"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/auth"
	"github.com/iudanet/xbookmarks/internal/server/handlers"
	"github.com/iudanet/xbookmarks/internal/server/middleware"
	"github.com/iudanet/xbookmarks/internal/server/service"
	"github.com/iudanet/xbookmarks/internal/server/session"
	"github.com/iudanet/xbookmarks/internal/server/storage/sqlite"
	"github.com/iudanet/xbookmarks/pkg/api"
)

const cookieName = "xb_session"

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newProvider fakes the X token and profile endpoints
func newProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","token_type":"bearer","expires_in":7200}`))
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"1001","username":"alice","name":"Alice"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testApp struct {
	handler http.Handler
	store   *session.MemoryStore
}

func setupRouter(t *testing.T, limiter *middleware.RateLimiter) *testApp {
	t.Helper()
	ctx := context.Background()
	logger := setupTestLogger()

	storage, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	store := session.NewMemoryStore(100, session.Options{TTL: time.Hour})
	codec, err := session.NewCookieCodec(bytes.Repeat([]byte("k"), 32), time.Hour)
	require.NoError(t, err)
	manager := session.NewManager(store, codec, session.CookieOptions{Name: cookieName, TTL: time.Hour}, logger)

	sealer, err := crypto.NewLocalSealer(make([]byte, crypto.KeySize))
	require.NoError(t, err)

	provider := newProvider(t)
	flow := auth.NewFlow(
		auth.FlowConfig{
			HTTPClient:   provider.Client(),
			ClientID:     "client-1",
			ClientSecret: "secret-1",
			RedirectURL:  "http://localhost:8080/auth/x/callback",
			AuthURL:      provider.URL + "/authorize",
			TokenURL:     provider.URL + "/token",
			LandingPath:  "/dashboard",
			Scopes:       []string{"users.read"},
		},
		store,
		storage,
		auth.NewXProfileClient(provider.URL+"/me", provider.Client()),
		sealer,
		session.NewID,
		logger,
	)

	h := Handlers{
		Auth:      handlers.NewAuthHandler(logger, flow, manager),
		Folders:   handlers.NewFolderHandler(logger, service.NewFolderService(storage, logger)),
		Bookmarks: handlers.NewBookmarkHandler(logger, service.NewBookmarkService(storage, storage, logger)),
		Health:    handlers.NewHealthHandler(logger, storage, "test"),
	}

	return &testApp{
		handler: NewRouter(h, RouterConfig{Sessions: manager, Limiter: limiter, Logger: logger}),
		store:   store,
	}
}

// browser carries the session cookie between requests
type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (b *browser) do(method, target string, body any) *httptest.ResponseRecorder {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "192.0.2.10:4000"
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name != cookieName {
			continue
		}
		if c.MaxAge < 0 {
			b.cookie = nil
			continue
		}
		b.cookie = c
	}
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out any) api.Envelope {
	t.Helper()

	var raw struct {
		api.Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	if out != nil {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return raw.Envelope
}

func TestRouter_LoginToLogout(t *testing.T) {
	app := setupRouter(t, nil)
	b := &browser{t: t, handler: app.handler}

	rec := b.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, rec, nil).Error)

	rec = b.do(http.MethodGet, "/auth/x", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.NotNil(t, b.cookie)
	pendingCookie := b.cookie.Value

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Equal(t, "S256", location.Query().Get("code_challenge_method"))

	rec = b.do(http.MethodGet, "/auth/x/callback?code=c1&state="+url.QueryEscape(state), nil)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.NotNil(t, b.cookie)
	assert.NotEqual(t, pendingCookie, b.cookie.Value, "session id must rotate on login")

	rec = b.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash api.DashboardResponse
	decodeEnvelope(t, rec, &dash)
	assert.Equal(t, "1001", dash.UserID)
	assert.Equal(t, "alice", dash.Username)
	assert.NotContains(t, rec.Body.String(), "at-1")

	rec = b.do(http.MethodPost, "/api/folders", api.CreateFolderRequest{Name: "Reading", IsParentRoot: boolPtr(true)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var folder models.Folder
	decodeEnvelope(t, rec, &folder)
	assert.Equal(t, "1001", folder.UserID)

	rec = b.do(http.MethodGet, "/api/folders/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree []*models.FolderNode
	decodeEnvelope(t, rec, &tree)
	require.Len(t, tree, 1)
	assert.Equal(t, "Reading", tree[0].Name)

	rec = b.do(http.MethodGet, "/api/folders/search?q=read", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, b.cookie)
	assert.Equal(t, 0, app.store.Len())

	rec = b.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CallbackWithForeignState(t *testing.T) {
	app := setupRouter(t, nil)
	b := &browser{t: t, handler: app.handler}

	rec := b.do(http.MethodGet, "/auth/x", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = b.do(http.MethodGet, "/auth/x/callback?code=c1&state=forged", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "CSRF_MISMATCH", decodeEnvelope(t, rec, nil).Error)
}

func TestRouter_PublicRoutes(t *testing.T) {
	app := setupRouter(t, nil)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{name: "status", method: http.MethodGet, target: "/", wantStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, target: HealthPath, wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: "/nope", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, target: "/auth/logout", wantStatus: http.StatusMethodNotAllowed},
		{name: "protected api", method: http.MethodGet, target: "/api/bookmarks/user/1001", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.target != HealthPath {
				assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
			}
		})
	}
}

func TestRouter_AuthRoutesAreRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 2, time.Minute, setupTestLogger())
	t.Cleanup(limiter.Stop)
	app := setupRouter(t, limiter)
	b := &browser{t: t, handler: app.handler}

	assert.Equal(t, http.StatusFound, b.do(http.MethodGet, "/auth/x", nil).Code)
	assert.Equal(t, http.StatusFound, b.do(http.MethodGet, "/auth/x", nil).Code)

	rec := b.do(http.MethodGet, "/auth/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// other routes are not limited
	assert.Equal(t, http.StatusOK, b.do(http.MethodGet, "/", nil).Code)
}

func boolPtr(v bool) *bool { return &v }
