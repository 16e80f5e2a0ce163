package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/xbookmarks/internal/server/auth"
	"github.com/iudanet/xbookmarks/internal/server/service"
	"github.com/iudanet/xbookmarks/internal/server/storage/sqlite"
	"github.com/iudanet/xbookmarks/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func setupAPI(t *testing.T) (*FolderHandler, *BookmarkHandler) {
	t.Helper()
	store := setupTestStorage(t)
	logger := setupTestLogger()
	return NewFolderHandler(logger, service.NewFolderService(store, logger)),
		NewBookmarkHandler(logger, service.NewBookmarkService(store, store, logger))
}

// newRequest builds a request authenticated as userID ("" for anonymous)
func newRequest(t *testing.T, method, target, userID string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req = req.WithContext(WithPrincipal(req.Context(), auth.Principal{
			UserID:         userID,
			Username:       "user" + userID,
			TokenExpiresAt: time.Now().Add(time.Hour),
		}))
	}
	return req
}

// envelope decodes the response envelope, unmarshalling data into out when given
func envelope(t *testing.T, rec *httptest.ResponseRecorder, out any) api.Envelope {
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
