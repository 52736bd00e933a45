package perf

import (
	"testing"
	"time"
)

// TestCollectorRecordAndCount tests that entries are counted.
func TestCollectorRecordAndCount(t *testing.T) {
	c := NewCollector(4)
	for i := 0; i < 10; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "/fees", DurationMs: 1, Timestamp: time.Now()})
	}
	if got := c.TotalRecorded(); got != 10 {
		t.Errorf("TotalRecorded() = %d, want 10", got)
	}
}

// TestCollectorRingOverwrite tests that the ring keeps only the newest entries.
func TestCollectorRingOverwrite(t *testing.T) {
	c := NewCollector(2)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "/a", DurationMs: 1, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "/b", DurationMs: 1, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "/c", DurationMs: 1, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2 (ring size)", snap.TotalRequests)
	}
}

// TestSnapshotAggregation tests percentile and slowest-path aggregation.
func TestSnapshotAggregation(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	for i := 1; i <= 10; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "/members", DurationMs: float64(i), Timestamp: now})
	}
	c.Record(Entry{Kind: KindQuery, Path: "ExecContext", DurationMs: 40, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 1)
	if snap.TotalRequests != 10 {
		t.Errorf("TotalRequests = %d, want 10", snap.TotalRequests)
	}
	if snap.RequestP50Ms < 1 || snap.RequestP50Ms > 10 {
		t.Errorf("RequestP50Ms = %f, want within recorded range", snap.RequestP50Ms)
	}
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths length = %d, want 1", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Path != "ExecContext" {
		t.Errorf("slowest path = %q, want the query op", snap.SlowestPaths[0].Path)
	}
}

// TestSnapshotExcludesOldEntries tests the since filter.
func TestSnapshotExcludesOldEntries(t *testing.T) {
	c := NewCollector(10)
	old := time.Now().Add(-time.Hour)
	c.Record(Entry{Kind: KindRequest, Path: "/old", DurationMs: 5, Timestamp: old})

	snap := c.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0 after since filter", snap.TotalRequests)
	}
}
