// Package apperr defines the error kinds shared by the authorization core and the
// HTTP layer.
package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindNotFound
	KindInvalidState
	KindConflict
)

// Sentinels usable with errors.Is against any *Error of the same kind.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrNotFound     = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Msg: "invalid state"}
	ErrConflict     = &Error{Kind: KindConflict, Msg: "conflict"}
)

// Error is an error with a kind and a client facing message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func InvalidState(msg string) error { return &Error{Kind: KindInvalidState, Msg: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps err so its details stay out of client responses.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// FromDB translates gorm errors into kinds. what names the missing entity.
func FromDB(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(what + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Conflict(what + " is still referenced")
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Internal("database error", err)
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show a client.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return http.StatusText(http.StatusInternalServerError)
	}
	return e.Msg
}
