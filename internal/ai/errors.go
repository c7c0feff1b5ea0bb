package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// ErrorKind groups completion failures by cause.
type ErrorKind string

const (
	KindAuth          ErrorKind = "auth"
	KindRateLimit     ErrorKind = "rate_limit"
	KindTransport     ErrorKind = "transport"
	KindAPI           ErrorKind = "api"
	KindEmptyResponse ErrorKind = "empty_response"
	KindCanceled      ErrorKind = "canceled"
)

// ErrEmptyResponse is returned when the provider answers without usable text.
var ErrEmptyResponse = errors.New("empty completion response")

// Error is a classified completion failure.
type Error struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion failed (%s, status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a completion error, or "" for nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return classify("", err).Kind
}

// classify turns any provider error into an *Error. Errors that are already
// classified keep their kind and gain the provider name if missing.
func classify(provider string, err error) *Error {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		if aiErr.Provider == "" {
			aiErr.Provider = provider
		}
		return aiErr
	}

	kind := KindAPI
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindCanceled
	case errors.Is(err, ErrEmptyResponse):
		kind = KindEmptyResponse
	case errors.As(err, &netErr), errors.As(err, &urlErr):
		kind = KindTransport
	}
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// kindForStatus maps an HTTP status from the provider to an error kind.
func kindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests:
		return KindRateLimit
	case code == 0:
		return KindTransport
	default:
		return KindAPI
	}
}
