package storelock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTryAcquireIsExclusivePerMovie(t *testing.T) {
	dir := t.TempDir()
	first, err := TryAcquire(dir, "abc")
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	if _, err := TryAcquire(dir, "abc"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	other, err := TryAcquire(dir, "xyz")
	if err != nil {
		t.Fatalf("different movie should not block: %v", err)
	}
	_ = other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := TryAcquire(dir, "abc")
	if err != nil {
		t.Fatalf("lock not released: %v", err)
	}
	_ = again.Release()
}

func TestAcquireWaitsUntilContextDone(t *testing.T) {
	dir := t.TempDir()
	held, err := TryAcquire(dir, "abc")
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := Acquire(ctx, dir, "abc"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy after timeout, got %v", err)
	}
}

func TestPathSanitizesID(t *testing.T) {
	if got := Path("/store", "../etc"); got == "/store/.locks/../etc.lock" {
		t.Fatalf("path escapes lock dir: %s", got)
	}
	var nilLock *Lock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}
