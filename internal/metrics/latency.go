package metrics

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// LatencySnapshot aggregates the samples of one window.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// series holds samples of one kind in arrival order, so expiry only ever
// trims a prefix.
type series struct {
	at []time.Time
	ms []int64
}

func (s *series) expire(cutoff time.Time) {
	i := sort.Search(len(s.at), func(i int) bool { return !s.at[i].Before(cutoff) })
	if i == 0 {
		return
	}
	s.at = slices.Delete(s.at, 0, i)
	s.ms = slices.Delete(s.ms, 0, i)
}

// Latency keeps per-kind durations observed within the last maxAge.
type Latency struct {
	mu     sync.Mutex
	maxAge time.Duration
	now    func() time.Time
	byKind map[string]*series
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		maxAge: maxAge,
		now:    time.Now,
		byKind: make(map[string]*series),
	}
}

// Record adds one duration for kind. Negative durations count as zero.
func (l *Latency) Record(kind string, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.byKind[kind]
	if !ok {
		s = &series{}
		l.byKind[kind] = s
	}
	now := l.now()
	s.expire(now.Add(-l.maxAge))
	s.at = append(s.at, now)
	s.ms = append(s.ms, max(d.Milliseconds(), 0))
}

// Snapshot summarises every kind together.
func (l *Latency) Snapshot() LatencySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.maxAge)
	var all []int64
	for _, s := range l.byKind {
		s.expire(cutoff)
		all = append(all, s.ms...)
	}
	return summarize(all)
}

// ByKind summarises each kind that still has samples in the window.
func (l *Latency) ByKind() map[string]LatencySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.maxAge)
	out := make(map[string]LatencySnapshot, len(l.byKind))
	for kind, s := range l.byKind {
		s.expire(cutoff)
		if len(s.ms) == 0 {
			delete(l.byKind, kind)
			continue
		}
		out[kind] = summarize(slices.Clone(s.ms))
	}
	return out
}

// summarize sorts values in place.
func summarize(values []int64) LatencySnapshot {
	if len(values) == 0 {
		return LatencySnapshot{}
	}
	slices.Sort(values)

	var sum int64
	for _, v := range values {
		sum += v
	}
	return LatencySnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates between the closest ranks of sorted.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := pct / 100 * float64(len(sorted)-1)
	i := int(rank)
	if i+1 == len(sorted) {
		return float64(sorted[i])
	}
	lo, hi := float64(sorted[i]), float64(sorted[i+1])
	return lo + (hi-lo)*(rank-float64(i))
}
