// fbclient/errors.go
package fbclient

import (
	"fmt"
	"time"
)

// RateLimitError is returned when FreshBooks responds with HTTP 429. The
// RetryAfter duration comes from the Retry-After header, defaulting to 60s
// when the header is absent.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// AuthError is returned when FreshBooks responds with HTTP 401. The bearer
// token is invalid or expired and must be refreshed by the caller.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// APIError is returned for any other non-2xx FreshBooks response.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FreshBooks API error: %d", e.Status)
}
