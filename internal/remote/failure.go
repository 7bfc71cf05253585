package remote

import "errors"

// FailureKind classifies how a backend call failed.
type FailureKind int

const (
	// FailureNetwork means the request never completed (connection refused,
	// timeout, DNS, ...). The message is a generic connectivity hint.
	FailureNetwork FailureKind = iota
	// FailureServer means the request completed with a non-2xx status.
	// The message is the server-supplied one when present.
	FailureServer
)

// Generic user-facing messages used when the server supplies none.
const (
	genericNetworkMessage = "Connection error. Please try again."
	genericServerMessage  = "Request failed. Please try again later."
)

// Failure is the typed error returned by every Client call. Message is
// always safe to show to the user.
type Failure struct {
	Kind       FailureKind
	StatusCode int // 0 for network failures
	Message    string
	cause      error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.cause
}

// AsFailure extracts a *Failure from an error chain, if present.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// UserMessage returns a message suitable to show to the user for any error
// coming out of this package.
func UserMessage(err error) string {
	if f, ok := AsFailure(err); ok {
		return f.Message
	}
	return genericServerMessage
}
