// SPDX-License-Identifier: MIT

package provider

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ManuGH/dramahub/internal/resilience"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUpstreamUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrUpstreamStatus      = errors.New("upstream: unexpected status")
	ErrBadResponse         = errors.New("upstream: invalid response format or malformed data")
	ErrTimeout             = errors.New("upstream: request timed out")
	ErrRateLimited         = errors.New("upstream: local rate limit exceeded")
)

// Error wraps a sentinel with the failing operation and upstream details.
type Error struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // lower-level cause (e.g. net.Error)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("provider: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// Kind returns a short metric/log label for err.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "unavailable"
	}
}

func transportError(op string, err error) error {
	sentinel := ErrUpstreamUnavailable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		sentinel = ErrTimeout
	}
	return &Error{Sentinel: sentinel, Operation: op, Err: err}
}
