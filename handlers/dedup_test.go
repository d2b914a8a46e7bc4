package handlers

import (
	"testing"
	"time"
)

func TestViewDebouncerWindow(t *testing.T) {
	views := &viewDebouncer{
		last:   make(map[uint64]time.Time),
		window: 5 * time.Minute,
	}

	// First view is always recorded
	if !views.ShouldRecord(1) {
		t.Error("expected first view to be recorded")
	}

	// Immediate repeat falls inside the window
	if views.ShouldRecord(1) {
		t.Error("expected repeat view to be suppressed")
	}

	// A different album has its own window
	if !views.ShouldRecord(2) {
		t.Error("expected first view of another album to be recorded")
	}

	// Clearing reopens the window
	views.Clear(1)
	if !views.ShouldRecord(1) {
		t.Error("expected view after clear to be recorded")
	}
}

func TestViewDebouncerExpiredWindow(t *testing.T) {
	views := &viewDebouncer{
		last:   make(map[uint64]time.Time),
		window: 10 * time.Millisecond,
	}

	if !views.ShouldRecord(1) {
		t.Fatal("expected first view to be recorded")
	}
	time.Sleep(20 * time.Millisecond)
	if !views.ShouldRecord(1) {
		t.Error("expected view after window expiry to be recorded")
	}
}
