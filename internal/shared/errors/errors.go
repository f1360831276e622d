package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a lifecycle failure. Every kind is fatal.
type Kind int

const (
	KindUnknown Kind = iota
	KindUsage
	KindConfig
	KindResourceCreation
	KindBind
	KindListen
	KindAccept
	KindRead
	KindWrite
	KindLifecycle
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindUsage:            "usage",
	KindConfig:           "config",
	KindResourceCreation: "resource-creation",
	KindBind:             "bind",
	KindListen:           "listen",
	KindAccept:           "accept",
	KindRead:             "read",
	KindWrite:            "write",
	KindLifecycle:        "lifecycle",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is an error object with a kind and an underlying error.
type Error struct {
	kind    Kind
	message []interface{}
	inner   error
}

// Error implements error.Error().
// The message names the failing operation, the inner error carries the OS text.
func (err *Error) Error() string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprint(err.message...))

	if err.inner != nil {
		builder.WriteString(": ")
		builder.WriteString(err.inner.Error())
	}

	return builder.String()
}

// Base sets the underlying error.
func (err *Error) Base(e error) *Error {
	err.inner = e
	return err
}

func (err *Error) Unwrap() error {
	return err.inner
}

func (err *Error) Kind() Kind {
	return err.kind
}

// Is reports a match for any *Error of the same kind, so callers can write
// errors.Is(err, errors.NewError(errors.KindBind)).
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == err.kind
}

// String returns the string representation of this error.
func (err *Error) String() string {
	return err.Error()
}

// NewError returns a new error object of the given kind with message formed from given arguments.
func NewError(kind Kind, msg ...interface{}) *Error {
	return &Error{
		kind:    kind,
		message: msg,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}
