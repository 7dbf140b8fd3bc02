package core

import "time"

// Category classifies an error for retry purposes. Transient categories are
// retry-eligible; permanent categories surface immediately.
type Category string

const (
	// CategoryTransientNetwork covers network failures and timeouts.
	CategoryTransientNetwork Category = "transient_network"
	// CategoryTransientResource covers resource exhaustion (quotas, backpressure).
	CategoryTransientResource Category = "transient_resource"
	// CategoryPermanentValidation covers rejected input; retrying cannot help.
	CategoryPermanentValidation Category = "permanent_validation"
	// CategoryPermanentUnknown covers everything not otherwise classified.
	CategoryPermanentUnknown Category = "permanent_unknown"
)

// Transient reports whether errors in this category may succeed on retry.
func (c Category) Transient() bool {
	return c == CategoryTransientNetwork || c == CategoryTransientResource
}

// ErrorEvent records one failed attempt of a named operation. Events are
// accumulated into process-wide counters and are read-only to everything
// but their recorder.
type ErrorEvent struct {
	Category  Category
	Operation string
	Attempt   int
	Timestamp time.Time
}

// EventRecorder accepts error events. Implementations must be safe for
// concurrent use.
type EventRecorder interface {
	Record(event ErrorEvent)
}
