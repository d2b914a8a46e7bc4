package database

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "subwave_test.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPinLifecycle(t *testing.T) {
	d := newTestDatabase(t)

	if d.IsPinned(1) {
		t.Fatal("album 1 should not be pinned yet")
	}
	if err := d.Pin(1, "Bellevue", "Misteur Valaire"); err != nil {
		t.Fatalf("Pin failed: %v", err)
	}
	if !d.IsPinned(1) {
		t.Fatal("album 1 should be pinned")
	}

	// Re-pinning is an upsert, not a duplicate.
	if err := d.Pin(1, "Bellevue", "Misteur Valaire"); err != nil {
		t.Fatalf("re-Pin failed: %v", err)
	}
	pins, err := d.GetPins()
	if err != nil {
		t.Fatalf("GetPins failed: %v", err)
	}
	if len(pins) != 1 {
		t.Fatalf("got %d pins, want 1", len(pins))
	}
	if pins[0].AlbumID != 1 || pins[0].Name != "Bellevue" || pins[0].Artist != "Misteur Valaire" {
		t.Errorf("unexpected pin: %+v", pins[0])
	}
	if pins[0].PinnedAt.IsZero() {
		t.Error("pin timestamp should be set")
	}

	if err := d.Unpin(1); err != nil {
		t.Fatalf("Unpin failed: %v", err)
	}
	if d.IsPinned(1) {
		t.Fatal("album 1 should no longer be pinned")
	}

	// Unpinning an unknown album is a no-op.
	if err := d.Unpin(999); err != nil {
		t.Fatalf("Unpin of unknown album failed: %v", err)
	}
}

func TestGetPinsOrder(t *testing.T) {
	d := newTestDatabase(t)

	for i, name := range []string{"First", "Second", "Third"} {
		if err := d.Pin(uint64(i+1), name, "Artist"); err != nil {
			t.Fatalf("Pin failed: %v", err)
		}
	}

	pins, err := d.GetPins()
	if err != nil {
		t.Fatalf("GetPins failed: %v", err)
	}
	if len(pins) != 3 {
		t.Fatalf("got %d pins, want 3", len(pins))
	}
	// Newest pin first. Timestamps within one test run can collide at
	// the stored precision, so only check the set, not strict order,
	// unless the timestamps differ.
	seen := map[uint64]bool{}
	for _, p := range pins {
		seen[p.AlbumID] = true
	}
	for id := uint64(1); id <= 3; id++ {
		if !seen[id] {
			t.Errorf("pin %d missing from GetPins", id)
		}
	}
}

func TestBrowseHistory(t *testing.T) {
	d := newTestDatabase(t)

	for i := 0; i < 5; i++ {
		if err := d.RecordView(uint64(i+1), "Album", "Artist"); err != nil {
			t.Fatalf("RecordView failed: %v", err)
		}
	}

	records, err := d.GetRecentViews(3)
	if err != nil {
		t.Fatalf("GetRecentViews failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// Most recent insert wins on the id tiebreak.
	if records[0].AlbumID != 5 {
		t.Errorf("newest view = album %d, want 5", records[0].AlbumID)
	}
	for _, r := range records {
		if r.ViewedAt.IsZero() {
			t.Error("view timestamp should be set")
		}
	}
}

func TestGetRecentViewsDefaultLimit(t *testing.T) {
	d := newTestDatabase(t)

	for i := 0; i < 15; i++ {
		if err := d.RecordView(uint64(i+1), "Album", "Artist"); err != nil {
			t.Fatalf("RecordView failed: %v", err)
		}
	}

	records, err := d.GetRecentViews(0)
	if err != nil {
		t.Fatalf("GetRecentViews failed: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("got %d records, want the default 10", len(records))
	}
}

func TestStoredTimeFormatSortsChronologically(t *testing.T) {
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	// Fractions that are string prefixes of one another are the case
	// RFC3339Nano's zero-trimming gets wrong (".1Z" vs ".11Z").
	times := []time.Time{
		base.Add(2 * time.Millisecond),
		base.Add(100 * time.Millisecond),
		base.Add(110 * time.Millisecond),
		base.Add(time.Second),
	}
	for i, earlier := range times {
		for j, later := range times {
			if !earlier.Before(later) {
				continue
			}
			a := earlier.Format(storedTimeFormat)
			b := later.Format(storedTimeFormat)
			if a >= b {
				t.Errorf("time %d should sort before time %d: %q >= %q", i, j, a, b)
			}
		}
	}
}

func TestParseStoredTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"fixed width", "2026-08-25T10:00:00.100000000Z", time.Date(2026, 8, 25, 10, 0, 0, 100000000, time.UTC)},
		{"trimmed fraction", "2026-08-25T10:00:00.1Z", time.Date(2026, 8, 25, 10, 0, 0, 100000000, time.UTC)},
		{"no fraction", "2026-08-25T10:00:00Z", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseStoredTime(tt.text); !got.Equal(tt.want) {
				t.Errorf("parseStoredTime(%q) = %v; want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseStoredTimeFallback(t *testing.T) {
	got := parseStoredTime("not a timestamp")
	if since := time.Since(got); since < 0 || since > time.Minute {
		t.Errorf("unparsable timestamp should fall back to now, got %v", got)
	}
}
