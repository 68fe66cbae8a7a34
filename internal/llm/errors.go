package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies provider failures.
type Kind uint8

const (
	KindUnavailable Kind = iota + 1
	KindRateLimited
	KindInvalidOutput
	KindTruncated
)

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrUnavailable   = errors.New("llm provider unavailable")
	ErrRateLimited   = errors.New("llm rate limited")
	ErrInvalidOutput = errors.New("llm output does not match schema")
	ErrTruncated     = errors.New("llm output truncated at max tokens")
)

func (k Kind) sentinel() error {
	switch k {
	case KindRateLimited:
		return ErrRateLimited
	case KindInvalidOutput:
		return ErrInvalidOutput
	case KindTruncated:
		return ErrTruncated
	default:
		return ErrUnavailable
	}
}

// Error is returned by providers for every failed call.
type Error struct {
	Kind     Kind
	Provider string

	// RetryAfter is the server-requested wait for rate limits, if known.
	RetryAfter time.Duration

	// Content is the rejected output for KindInvalidOutput and
	// KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind.sentinel() }

// statusError classifies an HTTP status from a provider SDK error.
func statusError(provider string, status int, retryAfter time.Duration, err error) *Error {
	kind := KindUnavailable
	if status == http.StatusTooManyRequests {
		kind = KindRateLimited
	}
	return &Error{Kind: kind, Provider: provider, RetryAfter: retryAfter, Err: err}
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
