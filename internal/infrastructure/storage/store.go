package storage

import (
	"context"
	"fmt"
	"time"
)

// Write retry policy: small fixed counts and delays, no exponential
// backoff. The store is a shared single resource and runs are serialized,
// so a transient failure either clears quickly or not at all.
const (
	writeAttempts = 3
	retryDelay    = 2 * time.Second
)

// PersistError reports rows that could not be written after batch retries
// and the per-row fallback were both exhausted. The batch is never
// silently dropped: the count reaches the operator.
type PersistError struct {
	Unwritten int
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist failed, %d rows unwritten: %v", e.Unwritten, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// withRetries runs op up to writeAttempts times with a fixed delay,
// respecting context cancellation between attempts.
func withRetries(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}
