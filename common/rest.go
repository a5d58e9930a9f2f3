package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	PermissionDenied = "permission denied"

	// MaxResponseSize caps how much of a node's response body is read.
	MaxResponseSize = 4 << 20
)

// ErrorDecoder extracts the message from a backend's HTTP 500 body.
type ErrorDecoder func(body []byte) (string, error)

// RestClient is the HTTP transport shared by the REST backends. Header is
// attached to every request and is never logged.
type RestClient struct {
	Backend     Backend
	URL         *url.URL
	Client      *http.Client
	Header      http.Header
	DecodeError ErrorDecoder

	// MaxBodySize defaults to MaxResponseSize when zero.
	MaxBodySize int64
}

func (c RestClient) maxResponseSize() int64 {
	if c.MaxBodySize > 0 {
		return c.MaxBodySize
	}

	return MaxResponseSize
}

// Do performs one request and returns the body of a 200 response. Any other
// outcome is returned as an *Error.
func (c RestClient) Do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	endpoint := c.URL.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("can't build request for %s", path), Err: err}
	}

	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log.WithFields(log.Fields{
		"backend": c.Backend.String(),
		"method":  method,
		"path":    path,
	}).Debug("sending request")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, NewConnectionError(err)
	}

	defer func() { _ = res.Body.Close() }()

	resBytes, err := io.ReadAll(io.LimitReader(res.Body, c.maxResponseSize()+1))
	if err != nil {
		return nil, NewConnectionError(err)
	}

	if int64(len(resBytes)) > c.maxResponseSize() {
		return nil, NewConversionError(
			errors.Errorf("more than %d bytes", c.maxResponseSize()),
			fmt.Sprintf("%s response too large", c.Backend),
		)
	}

	return c.classify(res.StatusCode, resBytes)
}

func (c RestClient) classify(status int, body []byte) ([]byte, error) {
	switch status {
	case http.StatusOK:
		return body, nil

	case http.StatusInternalServerError:
		msg, err := c.DecodeError(body)
		if err != nil {
			return nil, NewConversionError(err, fmt.Sprintf("can't decode %s error response", c.Backend))
		}

		if strings.EqualFold(strings.TrimSpace(msg), PermissionDenied) {
			return nil, &Error{Kind: KindUnauthorized, Message: msg}
		}

		return nil, NewApiError(msg)

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &Error{Kind: KindUnauthorized, Message: fmt.Sprintf("%s rejected credentials (HTTP %d)", c.Backend, status)}

	default:
		return nil, &Error{
			Kind:    KindConnection,
			Message: fmt.Sprintf("unexpected HTTP status from %s: %d %s", c.Backend, status, http.StatusText(status)),
		}
	}
}

// Close releases idle keep-alive connections.
func (c RestClient) Close() {
	c.Client.CloseIdleConnections()
}
