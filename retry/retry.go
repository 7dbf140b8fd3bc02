// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retry

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/poiesic/docmem/core"
)

const (
	// DefaultMaxAttempts bounds the retry budget for a single operation.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the wait before the first retry; it doubles on
	// each subsequent retry.
	DefaultBaseDelay = 100 * time.Millisecond
)

// Classifier maps an error to a retry category. A nil error is never
// passed to it.
type Classifier func(error) core.Category

// Executor retries operations whose failures classify as transient.
// It holds no per-call state and is safe for concurrent use.
type Executor struct {
	classify    Classifier
	stats       *Stats
	maxAttempts int
	baseDelay   time.Duration
	jitter      bool
	logger      *slog.Logger
}

// Option is a functional option for configuring an Executor.
type Option func(*Executor)

// WithMaxAttempts sets the maximum number of attempts per operation.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		e.maxAttempts = n
	}
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(d time.Duration) Option {
	return func(e *Executor) {
		e.baseDelay = d
	}
}

// WithoutJitter disables the randomized component of the backoff delay.
// Intended for tests that assert on elapsed time.
func WithoutJitter() Option {
	return func(e *Executor) {
		e.jitter = false
	}
}

// WithLogger sets the logger used for attempt-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor. classify decides which failures are
// retried; stats receives an ErrorEvent for every failed attempt and must
// not be nil.
func NewExecutor(classify Classifier, stats *Stats, opts ...Option) (*Executor, error) {
	if classify == nil {
		return nil, ErrNilClassifier
	}
	if stats == nil {
		stats = NewStats()
	}

	e := &Executor{
		classify:    classify,
		stats:       stats,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		jitter:      true,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.maxAttempts <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	if e.baseDelay < 0 {
		return nil, ErrInvalidBaseDelay
	}
	return e, nil
}

// Stats returns the counter object attempts are recorded against.
func (e *Executor) Stats() *Stats {
	return e.stats
}

// Execute runs operation until it succeeds, fails permanently, exhausts the
// attempt budget, or ctx is cancelled. The error from the last attempt is
// returned unchanged; Execute never substitutes its own error for the
// operation's.
func (e *Executor) Execute(ctx context.Context, name string, operation func() error) error {
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				e.logger.Debug("operation succeeded after retry", "operation", name, "attempt", attempt)
			}
			return nil
		}

		category := e.classify(lastErr)
		e.stats.Record(core.ErrorEvent{
			Category:  category,
			Operation: name,
			Attempt:   attempt,
			Timestamp: time.Now(),
		})

		if !category.Transient() {
			e.logger.Debug("operation failed permanently", "operation", name, "category", category, "error", lastErr)
			return lastErr
		}

		e.logger.Debug("operation failed, will retry", "operation", name,
			"attempt", attempt, "maxAttempts", e.maxAttempts, "category", category, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == e.maxAttempts {
			break
		}

		// Exponential backoff: baseDelay * 2^(attempt-1)
		delay := e.baseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}
		if e.jitter && delay >= 2 {
			// Up to half the computed delay, to spread concurrent retries.
			delay += rand.N(delay / 2)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
