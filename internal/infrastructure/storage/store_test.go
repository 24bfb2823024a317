package storage

import (
	"context"
	"errors"
	"testing"
)

func TestWithRetriesSucceedsEventually(t *testing.T) {
	attempts := 0
	err := withRetries(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestWithRetriesRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := withRetries(ctx, func() error {
		attempts++
		return errors.New("always failing")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt before the wait, got %d", attempts)
	}
}

func TestPersistErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota exceeded")
	err := &PersistError{Unwritten: 4, Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected unwrap to reach the cause")
	}
	var pe *PersistError
	if !errors.As(error(err), &pe) || pe.Unwritten != 4 {
		t.Fatalf("unexpected persist error: %v", err)
	}
}
