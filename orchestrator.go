package bench

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Orchestrator is the ThreadBench of §2: it constructs workers sharing one
// WorkloadState, drives phase transitions on the schedule a RunConfig's
// Phases describe, runs the rate generator that feeds the work queue, and
// collects the final RunResult. Grounded on armadaproject-armada's
// broadside Runner (internal/broadside/orchestrator/runner.go), which this
// core follows for its wg.Add/goroutine/context-cancellation shape.
type Orchestrator struct {
	cfg      *RunConfig
	bstate   *BenchmarkState
	workload *WorkloadState
	workers  []*Worker
	conns    []*ConnectionManager

	status         *StatusReporter
	statusInterval time.Duration
}

// NewOrchestrator establishes one ConnectionManager and Worker per
// configured terminal. A failure to establish any one connection aborts
// the whole run before the measurement phase begins (§6: "non-zero on
// unrecoverable connection establishment failure").
func NewOrchestrator(ctx context.Context, cfg *RunConfig, registry map[string]TransactionExecutor) (*Orchestrator, error) {
	isolation, err := ParseIsolationLevel(cfg.IsolationLevel)
	if err != nil {
		return nil, fmt.Errorf("run config: %w", err)
	}

	cacheSize, err := cfg.Props.GetIntDefault(PropertyPreparedStatementCacheSize, 64)
	if err != nil {
		return nil, err
	}
	retryLimit, err := cfg.Props.GetIntDefault(PropertyRetryLimit, 10)
	if err != nil {
		return nil, err
	}
	jitterMillis, err := cfg.Props.GetIntDefault(PropertyRetryJitterMillis, 5)
	if err != nil {
		return nil, err
	}
	keyingScale, err := strconv.ParseFloat(cfg.Props.GetDefault(PropertyKeyingTimeScale, PropertyKeyingTimeScaleDefault), 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PropertyKeyingTimeScale, err)
	}
	noWait := cfg.Props.GetDefault(PropertyNoWait, PropertyNoWaitDefault) == "true"

	statusIntervalSeconds, err := cfg.Props.GetIntDefault(PropertyStatusInterval, 10)
	if err != nil {
		return nil, err
	}

	bstate := NewBenchmarkState(cfg.TotalTerminals)
	workload := NewWorkloadState(cfg.TotalTerminals, cfg.Phases, bstate, nil)
	classifier := NewErrorClassifier()
	histogram := NewConcurrentHistogram[string]()
	status := NewStatusReporter(int64(time.Hour), 3)

	workers := make([]*Worker, 0, cfg.TotalTerminals)
	conns := make([]*ConnectionManager, 0, cfg.TotalTerminals)
	for i := 0; i < cfg.TotalTerminals; i++ {
		cm, err := NewConnectionManager(ctx, cfg.Dialect, cfg.DSN, isolation, cacheSize)
		if err != nil {
			for _, prior := range conns {
				prior.Close()
			}
			return nil, fmt.Errorf("establishing connection for worker %d: %w", i, err)
		}
		conns = append(conns, cm)
		worker := NewWorker(i, cfg.Dialect, workload, bstate, cm, registry, classifier, histogram, retryLimit, int64(jitterMillis), keyingScale, noWait).WithStatusReporter(status)
		workers = append(workers, worker)
	}

	return &Orchestrator{cfg: cfg, bstate: bstate, workload: workload, workers: workers, conns: conns, status: status, statusInterval: time.Duration(statusIntervalSeconds) * time.Second}, nil
}

// rateGeneratorTick is the period of the ticker that feeds
// WorkloadState.AddToQueue for rate-limited phases.
const rateGeneratorTick = 10 * time.Millisecond

// Run starts every worker, drives the configured Phases to completion (or
// until ctx is cancelled), and returns the merged RunResult. Workers that
// are still mid-transaction when ctx is cancelled are given until their
// current database call unwinds; Run does not forcibly close connections
// out from under a live query.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()

	var wg sync.WaitGroup
	for _, w := range o.workers {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}

	tickerDone := make(chan struct{})
	go o.runRateGenerator(ctx, tickerDone)

	statusCtx, stopStatus := context.WithCancel(ctx)
	defer stopStatus()
	if o.status != nil {
		go o.status.Run(statusCtx, o.statusInterval)
	}

	// Releases every worker's BlockForStart barrier (§4.5).
	o.bstate.StartMeasure()

phaseLoop:
	for _, phase := range o.cfg.Phases {
		current := o.workload.SwitchToNextPhase()
		if current == nil {
			break
		}
		Infof("phase %s started: %d active terminals, mode=%v", phase.ID(), phase.ActiveTerminals(), phase.Mode())
		if phase.Duration() <= 0 {
			continue
		}
		select {
		case <-time.After(time.Duration(phase.Duration())):
		case <-ctx.Done():
			break phaseLoop
		}
	}
	// EXIT is set before the final switch so that the switch's broadcast
	// wakes every waiting worker into a state that ends its loop.
	o.bstate.Exit()
	o.workload.SwitchToNextPhase() // advances past the last configured phase: signals end of workload
	close(tickerDone)

	wg.Wait()

	for _, cm := range o.conns {
		if err := cm.Close(); err != nil {
			Warnf("closing connection: %v", err)
		}
	}

	result := o.collectResult(o.cfg.RunID.String(), started, time.Now())
	return result, nil
}

func (o *Orchestrator) runRateGenerator(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(rateGeneratorTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			phase := o.workload.CurrentPhase()
			if phase == nil || !phase.IsRateLimited() {
				continue
			}
			amount := int(phase.RatePerSecond() * rateGeneratorTick.Seconds())
			if amount < 1 {
				amount = 1
			}
			o.workload.AddToQueue(amount, false, nowNanos())
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// collectResult merges every worker's LatencySample buffer, grouped by
// phase, into a DistributionStatistics and a per-phase outcome histogram.
// Built directly from the samples rather than from the shared
// Worker.Histogram, which counts txn-type:outcome pairs across every phase,
// so a phase boundary always yields an exact, non-overlapping count.
func (o *Orchestrator) collectResult(runID string, started, ended time.Time) *RunResult {
	latenciesByPhase := map[string][]int64{}
	histogramsByPhase := map[string]*ConcurrentHistogram[string]{}

	for _, w := range o.workers {
		for _, s := range w.Samples() {
			latenciesByPhase[s.PhaseID] = append(latenciesByPhase[s.PhaseID], s.EndNs-s.StartNs)
			h, ok := histogramsByPhase[s.PhaseID]
			if !ok {
				h = NewConcurrentHistogram[string]()
				histogramsByPhase[s.PhaseID] = h
			}
			h.Put(s.TxnType+":"+s.Outcome.String(), 1)
		}
	}

	stats := make(map[string]*DistributionStatistics, len(latenciesByPhase))
	for phaseID, latencies := range latenciesByPhase {
		stats[phaseID] = NewDistributionStatistics(latencies)
	}

	histograms := make(map[string]map[string]int64, len(histogramsByPhase))
	for phaseID, h := range histogramsByPhase {
		histograms[phaseID] = h.Snapshot()
	}

	return &RunResult{
		RunID:                  runID,
		PhaseStats:             stats,
		PhaseOutcomeHistograms: histograms,
		StartedAt:              started,
		EndedAt:                ended,
	}
}
