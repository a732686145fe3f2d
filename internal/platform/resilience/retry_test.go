package resilience

import (
	"context"
	"errors"
	"testing"
)

func TestRetry_StopsOnFirstSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), 3, 0, func(attempt int) error {
		calls++
		if attempt < 2 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("unexpected calls: got=%d want=2", calls)
	}
}

func TestRetry_ReturnsLastErrorAfterAllAttempts(t *testing.T) {
	t.Parallel()

	errLast := errors.New("attempt 3")
	calls := 0
	err := Retry(context.Background(), 3, 0, func(attempt int) error {
		calls++
		if attempt == 3 {
			return errLast
		}
		return errors.New("earlier")
	})
	if !errors.Is(err, errLast) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("unexpected calls: got=%d want=3", calls)
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 3, 0, func(int) error {
		calls++
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("unexpected calls: got=%d want=1", calls)
	}
}
