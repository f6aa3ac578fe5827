// Package timing measures how long named stages of a run take.
package timing

import (
	"sync"
	"time"

	"pixelsorter/internal/logger"
)

// Span is an operation in progress; End records its duration
type Span struct {
	tracker   *Tracker
	operation string
	start     time.Time
}

// End records the elapsed time and returns it. Calling End on a zero Span is a no-op.
func (s Span) End() time.Duration {
	if s.tracker == nil {
		return 0
	}
	elapsed := time.Since(s.start)
	s.tracker.record(s.operation, elapsed)
	return elapsed
}

// Stat aggregates every recorded span of one operation
type Stat struct {
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Average returns Total/Count, or 0 when nothing was recorded
func (s Stat) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s *Stat) add(d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d
}

// Tracker collects span statistics per operation. Safe for concurrent use;
// a nil Tracker records nothing.
type Tracker struct {
	mu     sync.Mutex
	stats  map[string]*Stat
	logger logger.Logger
}

func NewTracker(log logger.Logger) *Tracker {
	return &Tracker{
		stats:  make(map[string]*Stat),
		logger: log,
	}
}

func (tt *Tracker) Start(operation string) Span {
	if tt == nil {
		return Span{}
	}
	return Span{tracker: tt, operation: operation, start: time.Now()}
}

func (tt *Tracker) record(operation string, d time.Duration) {
	tt.mu.Lock()
	stat, ok := tt.stats[operation]
	if !ok {
		stat = &Stat{}
		tt.stats[operation] = stat
	}
	stat.add(d)
	tt.mu.Unlock()

	if tt.logger != nil {
		tt.logger.Debug("Timing", "span finished", map[string]interface{}{
			"operation":   operation,
			"duration_ms": d.Milliseconds(),
		})
	}
}

// Stats returns a copy of the statistics for operation
func (tt *Tracker) Stats(operation string) Stat {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if stat, ok := tt.stats[operation]; ok {
		return *stat
	}
	return Stat{}
}

// Summary returns the total time spent per operation
func (tt *Tracker) Summary() map[string]time.Duration {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	totals := make(map[string]time.Duration, len(tt.stats))
	for operation, stat := range tt.stats {
		totals[operation] = stat.Total
	}
	return totals
}

// Reset forgets operation, or everything when operation is empty
func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if operation == "" {
		clear(tt.stats)
		return
	}
	delete(tt.stats, operation)
}
