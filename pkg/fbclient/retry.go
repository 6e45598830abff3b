// fbclient/retry.go
package fbclient

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// WithRetry runs op with exponential backoff, honoring the Retry-After hint
// on rate-limit errors. Auth and API errors are permanent and returned
// immediately. The webhook path does not use this; FreshBooks' own delivery
// retries cover transient failures there.
func WithRetry(ctx context.Context, op func() error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}

		var rateLimit *RateLimitError
		if errors.As(err, &rateLimit) {
			// Wait out the upstream hint before the next attempt.
			select {
			case <-time.After(rateLimit.RetryAfter):
				return err
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			}
		}

		var authErr *AuthError
		var apiErr *APIError
		if errors.As(err, &authErr) || errors.As(err, &apiErr) {
			return backoff.Permanent(err)
		}

		// Network or parse failure, retry with the default schedule.
		return err
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	return backoff.Retry(wrapped, backoff.WithMaxRetries(policy, 3))
}
