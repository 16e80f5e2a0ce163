// Package apperr defines the closed set of failures the service reports to callers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies a failure class. The set is closed: every error surfaced by
// the services carries exactly one of these kinds.
type Kind int

const (
	KindUnknown Kind = iota
	InvalidRequest
	NotFound
	Forbidden
	ForbiddenFolder
	FolderNotFound
	DuplicateName
	InvalidHierarchy
	MissingParent
	SelfParent
	CyclicMove
	InvalidTitle
	CsrfMismatch
	StateExpired
	TokenExchangeError
	ProfileFetchError
	SessionPersistError
	Unauthorized
	SessionExpired
	StorageError
)

var kindNames = map[Kind]string{
	KindUnknown:         "INTERNAL",
	InvalidRequest:      "INVALID_REQUEST",
	NotFound:            "NOT_FOUND",
	Forbidden:           "FORBIDDEN",
	ForbiddenFolder:     "FORBIDDEN_FOLDER",
	FolderNotFound:      "FOLDER_NOT_FOUND",
	DuplicateName:       "DUPLICATE_NAME",
	InvalidHierarchy:    "INVALID_HIERARCHY",
	MissingParent:       "MISSING_PARENT",
	SelfParent:          "SELF_PARENT",
	CyclicMove:          "CYCLIC_MOVE",
	InvalidTitle:        "INVALID_TITLE",
	CsrfMismatch:        "CSRF_MISMATCH",
	StateExpired:        "STATE_EXPIRED",
	TokenExchangeError:  "TOKEN_EXCHANGE_ERROR",
	ProfileFetchError:   "PROFILE_FETCH_ERROR",
	SessionPersistError: "SESSION_PERSIST_ERROR",
	Unauthorized:        "UNAUTHORIZED",
	SessionExpired:      "SESSION_EXPIRED",
	StorageError:        "STORAGE_ERROR",
}

// String returns the wire code of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Status returns the default HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case InvalidRequest, InvalidHierarchy, MissingParent, SelfParent, CyclicMove, InvalidTitle, StateExpired:
		return http.StatusBadRequest
	case Unauthorized, SessionExpired:
		return http.StatusUnauthorized
	case Forbidden, ForbiddenFolder, CsrfMismatch:
		return http.StatusForbidden
	case NotFound, FolderNotFound:
		return http.StatusNotFound
	case DuplicateName:
		return http.StatusConflict
	case ProfileFetchError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to users; Err keeps
// the underlying cause for logs and errors.Unwrap.
type Error struct {
	Err     error
	Message string
	Kind    Kind
	// Status overrides Kind.Status when non-zero.
	Status int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: NotFound})
// works without comparing messages. SelfParent also matches CyclicMove: moving
// a folder under itself is the one-node cycle.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind == SelfParent && t.Kind == CyclicMove {
		return true
	}
	return t.Kind == e.Kind
}

// HTTPStatus returns the status the error should be reported with.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.Status()
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// WithStatus creates an error whose HTTP status is decided by the caller.
func WithStatus(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Message: message, Status: status}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && errors.Is(err, &Error{Kind: kind})
}

// HTTPStatus maps any error to a response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the user-facing message of err. Unclassified errors
// never expose their text.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
