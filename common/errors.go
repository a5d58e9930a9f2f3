package common

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// Kind is the closed set of failure classes surfaced to callers, whatever the
// backend.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidBackend
	KindConfig
	KindUnauthorized
	KindNotImplemented
	KindConnection
	KindApi
	KindConversion
)

var kindNames = map[Kind]string{
	KindUnknown:        "UnknownError",
	KindInvalidBackend: "InvalidBackend",
	KindConfig:         "ConfigError",
	KindUnauthorized:   "Unauthorized",
	KindNotImplemented: "NotImplemented",
	KindConnection:     "ConnectionError",
	KindApi:            "ApiError",
	KindConversion:     "ConversionError",
}

func (k Kind) String() string {
	return kindNames[k]
}

// ConfigKind refines KindConfig errors.
type ConfigKind int

const (
	MissingField ConfigKind = iota + 1
	InvalidField
	ParsingHexError
)

var (
	ErrInvalidBackend = &Error{Kind: KindInvalidBackend}
	ErrConfig         = &Error{Kind: KindConfig}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrNotImplemented = &Error{Kind: KindNotImplemented}
	ErrConnection     = &Error{Kind: KindConnection}
	ErrApi            = &Error{Kind: KindApi}
	ErrConversion     = &Error{Kind: KindConversion}
	ErrUnknown        = &Error{Kind: KindUnknown}
)

// Error is the only error type returned by the adapters and the Node.
type Error struct {
	Kind Kind

	// Config errors only
	ConfigKind ConfigKind
	Field      string

	Message string

	// Connection errors only: the transport reported a timeout.
	Timeout bool

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfig:
		switch e.ConfigKind {
		case MissingField:
			return fmt.Sprintf("missing field: %s", e.Field)
		case InvalidField:
			return fmt.Sprintf("invalid field: %s", e.Field)
		case ParsingHexError:
			return fmt.Sprintf("error parsing field %s: expected hex string", e.Field)
		}

	case KindUnauthorized:
		if e.Message == "" {
			return "unauthorized credentials"
		}

	case KindConnection:
		if e.Timeout && e.Message == "" {
			return "connection timed out"
		}
	}

	if e.Message != "" {
		return e.Message
	}

	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on ConfigKind/Field when the target sets them, so
// that errors.Is(err, common.ErrUnauthorized) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	if t.ConfigKind != 0 && t.ConfigKind != e.ConfigKind {
		return false
	}

	return t.Field == "" || t.Field == e.Field
}

func NewMissingField(field string) *Error {
	return &Error{Kind: KindConfig, ConfigKind: MissingField, Field: field}
}

func NewInvalidField(field string, cause error) *Error {
	return &Error{Kind: KindConfig, ConfigKind: InvalidField, Field: field, Err: cause}
}

func NewParsingHexError(field string) *Error {
	return &Error{Kind: KindConfig, ConfigKind: ParsingHexError, Field: field}
}

func NewApiError(msg string) *Error {
	return &Error{Kind: KindApi, Message: msg}
}

func NewNotImplemented(msg string) *Error {
	return &Error{Kind: KindNotImplemented, Message: msg}
}

func NewConversionError(cause error, msg string) *Error {
	return &Error{Kind: KindConversion, Message: msg, Err: errors.WithStack(cause)}
}

// NewConnectionError classifies a failure that happened before a response was
// received.
func NewConnectionError(cause error) *Error {
	e := &Error{Kind: KindConnection, Err: errors.WithStack(cause)}

	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		e.Timeout = true
	}

	return e
}

// KindOf classifies any error; errors not produced by this module are
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}
