package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestStartRejectsInvalidExpression(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("not a cron spec", time.UTC)
	if err := s.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("* * * * *", time.UTC)
	ctx := context.Background()

	if err := s.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Second start is a no-op while running.
	if err := s.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("restart: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	// Stopping again is safe.
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("0 6 * * *", nil)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
