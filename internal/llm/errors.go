package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"
)

// Kind classifies a failed completion.
type Kind string

const (
	KindConnection     Kind = "connection"
	KindTimeout        Kind = "timeout"
	KindRateLimit      Kind = "rate_limit"
	KindAuth           Kind = "auth"
	KindInvalidRequest Kind = "invalid_request"
	KindServer         Kind = "server"
	KindResponse       Kind = "response"
)

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("empty response")

// Error is a classified provider failure.
type Error struct {
	Provider   string
	Kind       Kind
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s (status %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether the request may succeed if retried.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindConnection, KindTimeout, KindRateLimit, KindServer:
		return true
	default:
		return false
	}
}

// IsTransient reports whether err is a transient *Error.
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Transient()
}

// KindOf returns the classification of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusTooManyRequests:
		return KindRateLimit
	case code >= 500 && code < 600:
		return KindServer
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		return KindInvalidRequest
	default:
		return KindResponse
	}
}

func statusError(provider string, code int, resp *http.Response, err error) *Error {
	return &Error{
		Provider:   provider,
		Kind:       kindForStatus(code),
		Status:     code,
		RetryAfter: parseRetryAfter(resp),
		Err:        err,
	}
}

// transportError classifies errors that carry no HTTP status.
func transportError(provider string, err error) *Error {
	kind := KindResponse

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT):
		kind = KindConnection
	case errors.As(err, &netErr):
		kind = KindConnection
	}

	return &Error{Provider: provider, Kind: kind, Err: err}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}
