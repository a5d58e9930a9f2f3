package common

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	err := errors.Wrap(NewMissingField("macaroon"), "lnd config")

	assert.True(t, errors.Is(err, ErrConfig))
	assert.True(t, errors.Is(err, NewMissingField("macaroon")))
	assert.True(t, errors.Is(err, &Error{Kind: KindConfig, ConfigKind: MissingField}))

	assert.False(t, errors.Is(err, NewMissingField("url")))
	assert.False(t, errors.Is(err, NewParsingHexError("macaroon")))
	assert.False(t, errors.Is(err, ErrApi))
	assert.False(t, errors.Is(io.EOF, ErrApi))
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewMissingField("url"), "missing field: url"},
		{NewInvalidField("url", io.EOF), "invalid field: url"},
		{NewParsingHexError("tls_certificate"), "error parsing field tls_certificate: expected hex string"},
		{&Error{Kind: KindUnauthorized}, "unauthorized credentials"},
		{&Error{Kind: KindConnection, Timeout: true}, "connection timed out"},
		{NewApiError("no route"), "no route"},
		{NewConversionError(io.EOF, "bad bolt11"), "bad bolt11"},
		{&Error{Kind: KindConnection, Err: io.EOF}, "EOF"},
		{&Error{Kind: KindNotImplemented}, "NotImplemented"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, test.err.Error())
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(io.EOF))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindApi, KindOf(errors.Wrap(NewApiError("x"), "wrapped")))
	assert.Equal(t, "ConversionError", KindConversion.String())
}

func TestNewConnectionError(t *testing.T) {
	err := NewConnectionError(context.DeadlineExceeded)
	assert.True(t, err.Timeout)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "connection timed out", err.Error())

	err = NewConnectionError(context.Canceled)
	assert.False(t, err.Timeout)
	assert.True(t, errors.Is(err, ErrConnection))
}
