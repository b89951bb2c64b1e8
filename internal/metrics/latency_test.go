package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move the window without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLatency(maxAge time.Duration) (*Latency, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	l := NewLatency(maxAge)
	l.now = clock.now
	return l, clock
}

func TestLatency_Percentiles(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	for _, ms := range []int{300, 100, 500, 200, 400} {
		l.Record("meeting", time.Duration(ms)*time.Millisecond)
	}

	snap := l.Snapshot()
	assert.Equal(t, 5, snap.Count)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.Equal(t, 300.0, snap.AvgMs)
	assert.Equal(t, 300.0, snap.P50Ms)
	assert.InDelta(t, 480.0, snap.P95Ms, 1e-9)
	assert.InDelta(t, 496.0, snap.P99Ms, 1e-9)
}

func TestLatency_ByKind(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	l.Record("meeting", 10*time.Millisecond)
	l.Record("meeting", 30*time.Millisecond)
	l.Record("panel", 100*time.Millisecond)

	kinds := l.ByKind()
	require.Len(t, kinds, 2)
	assert.Equal(t, 2, kinds["meeting"].Count)
	assert.Equal(t, 20.0, kinds["meeting"].AvgMs)
	assert.Equal(t, int64(100), kinds["panel"].MaxMs)

	all := l.Snapshot()
	assert.Equal(t, 3, all.Count)
	assert.Equal(t, int64(10), all.MinMs)
	assert.Equal(t, int64(100), all.MaxMs)
}

func TestLatency_ExpiresOldSamples(t *testing.T) {
	l, clock := newTestLatency(time.Minute)
	l.Record("meeting", 100*time.Millisecond)
	l.Record("panel", 150*time.Millisecond)

	clock.advance(40 * time.Second)
	l.Record("meeting", 200*time.Millisecond)

	clock.advance(30 * time.Second)
	snap := l.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(200), snap.MinMs)

	kinds := l.ByKind()
	assert.NotContains(t, kinds, "panel")
	assert.Equal(t, 1, kinds["meeting"].Count)

	clock.advance(time.Minute)
	assert.Equal(t, LatencySnapshot{}, l.Snapshot())
	assert.Empty(t, l.ByKind())
}

func TestLatency_NegativeDurationCountsAsZero(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	l.Record("panel", -10*time.Millisecond)
	snap := l.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(0), snap.MaxMs)
}

func TestLatency_Empty(t *testing.T) {
	assert.Equal(t, LatencySnapshot{}, NewLatency(0).Snapshot())
	assert.Empty(t, NewLatency(0).ByKind())
}
