package bench

import "time"

// RunResult is produced once, at orchestrator shutdown, after every
// worker's LatencySamples have been merged (§3).
type RunResult struct {
	RunID                  string
	PhaseStats             map[string]*DistributionStatistics
	PhaseOutcomeHistograms map[string]map[string]int64
	StartedAt              time.Time
	EndedAt                time.Time
}

// WallClock returns the total run duration.
func (r *RunResult) WallClock() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
