package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a feed transport error that may be retriable
type NetworkError struct {
	Op        string // Operation that failed (e.g., "dial", "read", "subscribe")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrUnknownToken is returned when the catalog has no metadata for an address.
	ErrUnknownToken = errors.New("unknown token")

	// ErrUnpriceable is returned when an order's legs do not resolve to exactly
	// one base- and one quote-denominated amount under the active pair.
	ErrUnpriceable = errors.New("order not priceable under active pair")

	// ErrInvalidPair is returned when a trading pair is malformed.
	ErrInvalidPair = errors.New("invalid trading pair")

	// ErrStaleEpoch is returned when an event produced for a previous
	// subscription reaches the book after a pair change.
	ErrStaleEpoch = errors.New("stale subscription epoch")

	// ErrConnectionFailed is returned when the feed connection fails. Usually retriable.
	ErrConnectionFailed = errors.New("connection failed")
)
