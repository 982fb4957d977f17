package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// APIError is a non-2xx response from a provider. The body is never
// propagated to resolution callers; it only feeds logs.
type APIError struct {
	Provider   string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d", e.Provider, e.StatusCode)
}

// IsRateLimited reports whether err is a provider rate-limit response
// (HTTP 429). Rate limits get a fixed cooldown instead of exponential
// backoff.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}

// IsTransient reports whether err is worth retrying: timeouts, rate
// limits and server-side failures. Anything else aborts the page loop.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
