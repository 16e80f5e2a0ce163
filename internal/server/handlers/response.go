package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/pkg/api"
)

// maxBodyBytes limits JSON request bodies
const maxBodyBytes = 1 << 20

// WriteJSON sends data wrapped in the response envelope
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := api.Envelope{
		StatusCode: statusCode,
		Success:    statusCode < http.StatusBadRequest,
		Message:    message,
		Data:       data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError sends err as an envelope with the status of its kind. Messages
// of unclassified errors are not exposed.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.KindOf(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("kind", kind.String()),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := api.Envelope{
		StatusCode: status,
		Success:    false,
		Message:    apperr.PublicMessage(err),
		Error:      kind.String(),
	}
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logger.Error("failed to encode error response", slog.Any("error", encErr))
	}
}

// decodeJSON reads the request body into v. An empty body is accepted when
// optional is set and leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return nil
	}
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.Wrap(apperr.InvalidRequest, "invalid request body", err)
}
