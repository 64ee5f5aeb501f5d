package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backoff retries an operation that fails with a [Transient] error, doubling
// the wait after each failed attempt.
type Backoff struct {
	Attempts int           // total tries; values below 1 mean one try
	Initial  time.Duration // wait before the second try
}

// DefaultBackoff is how remote backends retry their startup check.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second}

type transientError struct{ error }

func (e transientError) Unwrap() error { return e.error }

// Transient marks err as worth retrying. It returns nil for nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

// IsTransient reports whether err, or anything it wraps, was marked with
// [Transient].
func IsTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// Do calls op until it succeeds or returns an error not marked transient.
// It gives up when the attempts run out, returning the last cause, or when
// ctx ends, returning ctx.Err().
func (b Backoff) Do(ctx context.Context, op func(context.Context) error) error {
	wait := b.Initial
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt >= b.Attempts {
			if t, ok := err.(transientError); ok {
				err = t.error
			}
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
