package retry

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
	// ErrInvalidBaseDelay is returned when baseDelay is negative
	ErrInvalidBaseDelay = errors.New("baseDelay must not be negative")
	// ErrNilClassifier is returned when an Executor is built without a classifier
	ErrNilClassifier = errors.New("classifier must not be nil")
)
