package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an upstream failure. Kinds are for logs and metrics only.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindAuth              Kind = "auth"
	KindRateLimit         Kind = "rate_limit"
	KindMalformedResponse Kind = "malformed_response"
	KindEmptyResult       Kind = "empty_result"
	KindUnavailable       Kind = "unavailable"
	KindStatus            Kind = "upstream_status"
)

// Kinds lists every Kind in a stable order.
var Kinds = []Kind{
	KindTimeout,
	KindAuth,
	KindRateLimit,
	KindMalformedResponse,
	KindEmptyResult,
	KindUnavailable,
	KindStatus,
}

// ErrEmptyResult indicates the API answered without usable text.
var ErrEmptyResult = errors.New("upstream returned no text")

// Error represents a failed call to the completion API.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("upstream %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("upstream %s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or KindUnavailable for unclassified errors.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	if errors.Is(err, ErrEmptyResult) {
		return KindEmptyResult
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnavailable
}

// IsUpstreamError checks if an error is an *Error.
func IsUpstreamError(err error) bool {
	var ue *Error
	return errors.As(err, &ue)
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindStatus
	}
}

func statusError(status int, message string) *Error {
	return &Error{Kind: kindForStatus(status), StatusCode: status, Message: message}
}

func transportError(ctx context.Context, err error) *Error {
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}
