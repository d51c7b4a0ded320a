package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/events"
)

// fakeMirror implements StatusMirror for tests
type fakeMirror struct {
	fail  int // number of times to fail HSet before succeeding
	calls int
	key   string
	vals  map[string]interface{}
}

func (f *fakeMirror) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	f.calls++
	if f.calls <= f.fail {
		return errors.New("hset fail")
	}
	f.key = key
	f.vals = values
	return nil
}

func testEvent() *events.RideEvent {
	return &events.RideEvent{
		Type:       events.TypeRideStatusChanged,
		RideID:     12,
		UserID:     1,
		RiderID:    7,
		Status:     "Completed",
		OccurredAt: time.Now().UTC(),
	}
}

func TestMirrorStatusWithRetry_SucceedsAfterRetries(t *testing.T) {
	f := &fakeMirror{fail: 2}
	start := time.Now()
	if err := mirrorStatusWithRetry(context.Background(), f, testEvent(), 3, 10*time.Millisecond); err != nil {
		t.Fatalf("expected success, got err=%v", err)
	}
	if f.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", f.calls)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("expected at least one backoff")
	}
	if f.key != "ride:12" {
		t.Fatalf("key = %q, want ride:12", f.key)
	}
	if f.vals["status"] != "Completed" {
		t.Fatalf("values = %v", f.vals)
	}
}

func TestMirrorStatusWithRetry_FailsWhenExhausted(t *testing.T) {
	f := &fakeMirror{fail: 5}
	if err := mirrorStatusWithRetry(context.Background(), f, testEvent(), 3, 5*time.Millisecond); err == nil {
		t.Fatalf("expected error after retries")
	}
}
