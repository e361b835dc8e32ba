package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// EntryKind distinguishes backend-call entries from local-store queries.
type EntryKind uint8

const (
	KindBackendCall EntryKind = iota
	KindLocalQuery
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Op         string // endpoint name or "store.Method"
	StatusCode int    // HTTP status (0 for local queries)
	Failed     bool   // transport failure or non-2xx
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries. Writes are
// non-blocking; when full, oldest entries are overwritten. Aggregation
// happens only on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	total   int64 // total entries ever written
}

// NewCollector creates a collector with the given ring capacity.
// PRE: none
// POST: returns a ready-to-use collector; size <= 0 falls back to the default
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer, overwriting the oldest entry
// when full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.total, 1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.total)
}

// OpStat aggregates timing for a single endpoint or store method.
type OpStat struct {
	Op       string
	Count    int
	Failures int
	AvgMs    float64
	MaxMs    float64
	TotalMs  float64
}

// Snapshot holds aggregated timing data computed on read.
type Snapshot struct {
	TotalRecorded int64
	BackendCalls  []OpStat // sorted by average duration, descending
	LocalQueries  []OpStat
}

// Snapshot aggregates the ring buffer into per-op stats. Entries older than
// since are skipped; each kind's list is capped at topN ops.
// PRE: none
// POST: returns per-op counts, failure counts and avg/max durations
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	backend := make(map[string]*OpStat)
	local := make(map[string]*OpStat)

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		byOp := backend
		if e.Kind == KindLocalQuery {
			byOp = local
		}
		s, ok := byOp[e.Op]
		if !ok {
			s = &OpStat{Op: e.Op}
			byOp[e.Op] = s
		}
		s.Count++
		if e.Failed {
			s.Failures++
		}
		s.TotalMs += e.DurationMs
		if e.DurationMs > s.MaxMs {
			s.MaxMs = e.DurationMs
		}
	}

	return Snapshot{
		TotalRecorded: c.TotalRecorded(),
		BackendCalls:  rankByAvg(backend, topN),
		LocalQueries:  rankByAvg(local, topN),
	}
}

// rankByAvg returns the ops sorted by average duration (descending), capped
// at n entries.
func rankByAvg(byOp map[string]*OpStat, n int) []OpStat {
	list := make([]OpStat, 0, len(byOp))
	for _, s := range byOp {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Op < list[j].Op
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
