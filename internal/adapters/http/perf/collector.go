package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // HTTP path or database operation
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries. Writes are
// non-blocking; when full, the oldest entries are overwritten.
// Aggregation happens only on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0 (non-positive sizes fall back to DefaultRingSize)
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// PRE: e is a valid Entry
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
// PRE: none
// POST: returns count >= 0
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRequests int64
	RequestP50Ms  float64
	RequestP95Ms  float64
	SlowestPaths  []PathStat
}

// PathStat aggregates timing for a single path or database operation.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

// Snapshot aggregates entries recorded since the given time.
// PRE: topN > 0
// POST: Returns percentiles over requests and the topN slowest paths
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	entries := make([]Entry, 0, c.size)
	for _, e := range c.entries {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		entries = append(entries, e)
	}
	c.mu.Unlock()

	var durations []float64
	stats := make(map[string]*PathStat)
	var snap Snapshot
	for _, e := range entries {
		if e.Kind == KindRequest {
			snap.TotalRequests++
			durations = append(durations, e.DurationMs)
		}
		ps, ok := stats[e.Path]
		if !ok {
			ps = &PathStat{Path: e.Path}
			stats[e.Path] = ps
		}
		ps.Count++
		ps.TotalMs += e.DurationMs
		if e.DurationMs > ps.MaxMs {
			ps.MaxMs = e.DurationMs
		}
	}

	sort.Float64s(durations)
	snap.RequestP50Ms = percentile(durations, 0.50)
	snap.RequestP95Ms = percentile(durations, 0.95)

	for _, ps := range stats {
		ps.AvgMs = ps.TotalMs / float64(ps.Count)
	}
	snap.SlowestPaths = topByAvg(stats, topN)
	return snap
}

// percentile returns the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// topByAvg returns the n entries with the highest average duration.
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	all := make([]PathStat, 0, len(stats))
	for _, ps := range stats {
		all = append(all, *ps)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AvgMs > all[j].AvgMs })
	if len(all) > n {
		all = all[:n]
	}
	return all
}
