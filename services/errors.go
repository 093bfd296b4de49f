package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindMalformed
	KindConflict
	KindNotFound
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error is returned by services for every failure a caller can act on.
// Msg is safe to show to clients; Err is the underlying cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func Malformed(msg string) *Error { return &Error{Kind: KindMalformed, Msg: msg} }
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Msg: msg} }
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Msg: msg} }

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "Server error", Err: err}
}

// KindOf reports the kind of err, treating anything that is not an *Error as
// internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// Store-level sentinels, translated into *Error by the services.
var (
	ErrDuplicateRecord = errors.New("daily record already exists")
	ErrEmailTaken      = errors.New("email already registered")
	ErrNotFound        = errors.New("not found")
)

// Client-facing messages.
const (
	MsgTasksNotObject  = "Tasks must be provided as an object"
	MsgInvalidDate     = "Invalid date format"
	MsgDateRequired    = "Date query parameter is required"
	MsgDuplicateRecord = "Points for this date already submitted"
	MsgNoRecordToday   = "No points found for today"
	MsgNoRecordForDate = "No points found for this date"
	MsgUserExists      = "User already exists"
	MsgInvalidCreds    = "Invalid credentials"
	MsgInvalidBody     = "Invalid request body"
	MsgNoToken         = "No token, authorization denied"
	MsgInvalidToken    = "Token is not valid"
)
