package bench

import (
	"sync"
	"time"
)

// SubmittedProcedure is one unit of work in a WorkloadState's queue: a
// transaction type to execute plus the timestamp it was enqueued at.
type SubmittedProcedure struct {
	TxnType   string
	EnqueueNs int64
}

// TraceReader is the optional external collaborator (§6) that replays a
// pre-recorded sequence of transactions instead of a Phase's weighted mix.
type TraceReader interface {
	ProceduresFor(nowNs int64) []SubmittedProcedure
	PhaseComplete() bool
}

func nowNanos() int64 { return time.Now().UnixNano() }

// WorkloadState is the per-workload coordinator: a rate-limited work
// queue, worker wait/wake, and phase transitions. Its monitor (mu/cond) is
// used purely for wait/notify; the data invariants (queue contents,
// counters) are held by ordinary fields guarded by the same mutex, not by
// any lock-free structure — §9's "do not conflate the two" is honoured by
// keeping every field access behind mu and never relying on the cond for
// anything but wake-up.
type WorkloadState struct {
	mu   sync.Mutex
	cond *sync.Cond

	bstate *BenchmarkState
	trace  TraceReader

	totalTerminals int
	phases         []*Phase
	phaseIdx       int
	phase          *Phase

	queue []SubmittedProcedure

	workersWaiting  int
	workersWorking  int
	workerNeedSleep int
}

func NewWorkloadState(totalTerminals int, phases []*Phase, bstate *BenchmarkState, trace TraceReader) *WorkloadState {
	w := &WorkloadState{
		bstate:         bstate,
		trace:          trace,
		totalTerminals: totalTerminals,
		phases:         phases,
		phaseIdx:       -1,
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *WorkloadState) CurrentPhase() *Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *WorkloadState) QueueSize() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

func (w *WorkloadState) WorkersWaiting() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.workersWaiting
}

func (w *WorkloadState) WorkersWorking() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.workersWorking
}

// AddToQueue is called by the rate generator ticker. amount new procedures
// are appended (or, with a trace attached outside WARMUP, whatever the
// trace emits for nowNs); resetQueue drains the queue first. No-op for a
// nil, disabled, serial, or non-rate-limited current phase. After append,
// the queue is trimmed from the head down to RateQueueLimit — "prefer
// freshness under overload" — then up to min(amount, workersWaiting)
// waiters are woken.
func (w *WorkloadState) AddToQueue(amount int, resetQueue bool, nowNs int64) {
	w.mu.Lock()

	if resetQueue {
		w.queue = w.queue[:0]
	}

	phase := w.phase
	if phase == nil || phase.Disabled() || phase.IsSerial() || !phase.IsRateLimited() {
		w.mu.Unlock()
		return
	}

	if w.trace != nil && w.bstate.State() != StateWarmup {
		w.queue = append(w.queue, w.trace.ProceduresFor(nowNs)...)
	} else {
		for i := 0; i < amount; i++ {
			w.queue = append(w.queue, SubmittedProcedure{
				TxnType:   phase.ChooseTxnType(),
				EnqueueNs: nowNs,
			})
		}
	}

	if over := len(w.queue) - RateQueueLimit; over > 0 {
		w.queue = w.queue[over:]
	}

	wake := amount
	if wake > w.workersWaiting {
		wake = w.workersWaiting
	}
	w.mu.Unlock()

	for i := 0; i < wake; i++ {
		w.cond.Signal()
	}
}

func (w *WorkloadState) popFrontLocked() (SubmittedProcedure, bool) {
	if len(w.queue) == 0 {
		return SubmittedProcedure{}, false
	}
	proc := w.queue[0]
	w.queue = w.queue[1:]
	return proc, true
}

// FetchWork returns one SubmittedProcedure, or ok=false meaning the caller
// should leave its work loop (phase ended, or global state reached
// DONE/EXIT). It also returns ok=false if the current phase changed while
// the caller was blocked, so the Worker re-enters via StayAwake and picks
// up the new phase rather than acting on a stale one.
func (w *WorkloadState) FetchWork(workerID int) (SubmittedProcedure, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	phase := w.phase
	if phase == nil {
		return SubmittedProcedure{}, false
	}

	switch {
	case phase.IsSerial():
		for w.bstate.State() == StateLatencyComplete && w.phase == phase {
			w.cond.Wait()
		}
		if w.phase != phase || w.bstate.ShouldTerminate() {
			return SubmittedProcedure{}, false
		}
		w.workersWorking++
		return SubmittedProcedure{TxnType: phase.NextSerialTxnType(), EnqueueNs: nowNanos()}, true

	case !phase.IsRateLimited():
		w.workersWorking++
		return SubmittedProcedure{TxnType: phase.ChooseTxnType(), EnqueueNs: nowNanos()}, true

	default:
		if proc, ok := w.popFrontLocked(); ok {
			w.workersWorking++
			// A trace still in WARMUP is peeked, not consumed: push the
			// item back so the real measurement phase replays it. This is
			// the dedicated peek primitive recorded in DESIGN.md in place
			// of the source's racy re-enqueue-without-the-monitor.
			if w.trace != nil && w.bstate.State() == StateWarmup {
				w.queue = append([]SubmittedProcedure{proc}, w.queue...)
			}
			return proc, true
		}

		w.workersWaiting++
		for {
			if proc, ok := w.popFrontLocked(); ok {
				w.workersWaiting--
				w.workersWorking++
				return proc, true
			}
			if w.phase != phase || w.bstate.ShouldTerminate() {
				w.workersWaiting--
				return SubmittedProcedure{}, false
			}
			w.cond.Wait()
		}
	}
}

// FinishedWork must be called exactly once per FetchWork call that
// returned ok=true, regardless of which of the three branches (serial,
// unlimited-rate, rate-limited) produced the work.
func (w *WorkloadState) FinishedWork() {
	w.mu.Lock()
	w.workersWorking--
	w.mu.Unlock()
}

// SwitchToNextPhase advances to the next configured Phase (or nil, meaning
// the workload is over), draining the queue, resetting the new phase's
// serial cursor, and setting workerNeedSleep so that exactly
// activeTerminals workers remain awake (all sleep for a disabled phase,
// none at the end of the workload). Every waiter is woken to observe the
// transition.
func (w *WorkloadState) SwitchToNextPhase() *Phase {
	w.mu.Lock()
	w.phaseIdx++
	if w.phaseIdx >= len(w.phases) {
		w.phase = nil
	} else {
		w.phase = w.phases[w.phaseIdx]
		w.phase.ResetSerial()
	}
	w.queue = w.queue[:0]

	switch {
	case w.phase == nil:
		w.workerNeedSleep = 0
	case w.phase.Disabled():
		w.workerNeedSleep = w.totalTerminals
	default:
		w.workerNeedSleep = w.totalTerminals - w.phase.ActiveTerminals()
	}
	w.mu.Unlock()
	w.cond.Broadcast()
	return w.phase
}

// StayAwake is called by each worker at the top of every iteration. While
// workerNeedSleep > 0, the worker decrements it and blocks, so exactly
// activeTerminals workers remain awake per phase.
func (w *WorkloadState) StayAwake() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.workerNeedSleep > 0 {
		w.workerNeedSleep--
		w.cond.Wait()
	}
}

// SignalDone reports this worker's terminal exit to the shared
// BenchmarkState and, if it was the last live worker, wakes every
// remaining waiter on this workload's queue so they observe DONE/EXIT and
// return from FetchWork/StayAwake.
func (w *WorkloadState) SignalDone() int {
	remaining := w.bstate.SignalDone()
	w.cond.Broadcast()
	return remaining
}
