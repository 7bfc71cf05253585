package remote

import "time"

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// IsRetryable is a function that decides whether a failed attempt is worth repeating.
type IsRetryable func(err error) bool

const DefaultMaxRetries = 3

// Try executes an operation with default retry settings for network failures.
// It uses DefaultMaxRetries and IsNetworkFailure.
//
// Only idempotent reads should go through here. Submissions issue exactly one
// request per user action, so they never retry.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsNetworkFailure)
}

// WithRetries executes an operation with a retry mechanism.
// It attempts the operation up to maxRetries additional times.
func WithRetries(op Operation, maxRetries int, isRetryable IsRetryable) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if attempt == maxRetries {
			break
		}

		if isRetryable(err) {
			time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond) // Simple incremental backoff
		} else {
			return err
		}
	}
	return err
}

// IsNetworkFailure reports whether the error is a connectivity failure, the
// one class of failure where a repeat attempt can plausibly succeed.
func IsNetworkFailure(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == FailureNetwork
}
