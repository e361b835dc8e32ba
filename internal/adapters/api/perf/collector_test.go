package perf_test

import (
	"testing"
	"time"

	"canteen/internal/adapters/api/perf"
)

// TestCollector_RecordAndSnapshot tests basic aggregation per op.
func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := perf.NewCollector(16)
	now := time.Now()

	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "booking/week", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "booking/week", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "booking/add-attendance", StatusCode: 500, Failed: true, DurationMs: 5, Timestamp: now})
	c.Record(perf.Entry{Kind: perf.KindLocalQuery, Op: "attendance.Replace", DurationMs: 2, Timestamp: now})

	snap := c.Snapshot(time.Time{}, 10)

	if snap.TotalRecorded != 4 {
		t.Errorf("TotalRecorded = %d, want 4", snap.TotalRecorded)
	}
	if len(snap.BackendCalls) != 2 {
		t.Fatalf("BackendCalls = %d ops, want 2", len(snap.BackendCalls))
	}

	// Ranked by average duration descending: week (20ms) first.
	week := snap.BackendCalls[0]
	if week.Op != "booking/week" || week.Count != 2 || week.AvgMs != 20 || week.MaxMs != 30 {
		t.Errorf("week stat = %+v", week)
	}
	add := snap.BackendCalls[1]
	if add.Op != "booking/add-attendance" || add.Failures != 1 {
		t.Errorf("add stat = %+v", add)
	}

	if len(snap.LocalQueries) != 1 || snap.LocalQueries[0].Op != "attendance.Replace" {
		t.Errorf("LocalQueries = %+v", snap.LocalQueries)
	}
}

// TestCollector_RingOverwrite tests that old entries are overwritten once
// the ring is full.
func TestCollector_RingOverwrite(t *testing.T) {
	c := perf.NewCollector(2)
	now := time.Now()

	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "old", DurationMs: 1, Timestamp: now})
	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "new-1", DurationMs: 1, Timestamp: now})
	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "new-2", DurationMs: 1, Timestamp: now})

	snap := c.Snapshot(time.Time{}, 10)
	for _, s := range snap.BackendCalls {
		if s.Op == "old" {
			t.Error("oldest entry should have been overwritten")
		}
	}
	if snap.TotalRecorded != 3 {
		t.Errorf("TotalRecorded = %d, want 3", snap.TotalRecorded)
	}
}

// TestCollector_SinceFilter tests that stale entries are excluded.
func TestCollector_SinceFilter(t *testing.T) {
	c := perf.NewCollector(8)
	cutoff := time.Now()

	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "before", DurationMs: 1, Timestamp: cutoff.Add(-time.Minute)})
	c.Record(perf.Entry{Kind: perf.KindBackendCall, Op: "after", DurationMs: 1, Timestamp: cutoff.Add(time.Minute)})

	snap := c.Snapshot(cutoff, 10)
	if len(snap.BackendCalls) != 1 || snap.BackendCalls[0].Op != "after" {
		t.Errorf("BackendCalls = %+v, want only the entry after the cutoff", snap.BackendCalls)
	}
}
