package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

// StatusReporter is the rolling, in-run counterpart to the final
// DistributionStatistics/RunResult pipeline (§3): where RunResult is
// computed once at shutdown from every worker's full LatencySample buffer,
// StatusReporter logs a cheap rolling summary every PropertyStatusInterval
// seconds, the way OLTPBench's status thread does. Adapted from the
// teacher's OneMeasurementHdrHistogram (measurement.go), trading its
// multi-exporter plumbing for a single logrus line since the status line's
// destination is a log sink, an out-of-scope external collaborator (§1).
type StatusReporter struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	started   time.Time
	count     int64
}

// NewStatusReporter builds a reporter tracking latencies from 0 to
// maxLatencyNanos (nanoseconds) at sig significant decimal digits, matching
// the teacher's hdrhistogram construction in NewOneMeasurementHdrHistogram.
func NewStatusReporter(maxLatencyNanos int64, sig int) *StatusReporter {
	if sig < 1 {
		sig = 3
	}
	return &StatusReporter{
		histogram: hdrhistogram.New(0, maxLatencyNanos, sig),
		started:   time.Now(),
	}
}

// Observe records one completed attempt's latency in nanoseconds.
func (s *StatusReporter) Observe(latencyNanos int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histogram.RecordValue(latencyNanos)
	s.count++
}

// Summary returns a one-line rolling snapshot, in the teacher's format.
func (s *StatusReporter) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.started)
	return fmt.Sprintf("[status: count=%d elapsed=%s mean=%.0fns p90=%dns p99=%dns max=%dns]",
		s.count, elapsed, s.histogram.Mean(),
		s.histogram.ValueAtQuantile(90), s.histogram.ValueAtQuantile(99), s.histogram.Max())
}

// Run ticks every interval, logging Summary, until ctx is cancelled. Meant
// to run in its own goroutine alongside Orchestrator.Run's worker pool.
func (s *StatusReporter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			Infof("%s", s.Summary())
		case <-ctx.Done():
			return
		}
	}
}
