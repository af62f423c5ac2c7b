package bench

import "sync"

// State is a tag in BenchmarkState's global lifecycle graph.
type State uint8

const (
	StateInit State = iota
	StateWarmup
	StateMeasure
	StateColdQuery
	StateHotQuery
	StateLatencyComplete
	StateDone
	StateExit
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateWarmup:
		return "WARMUP"
	case StateMeasure:
		return "MEASURE"
	case StateColdQuery:
		return "COLD_QUERY"
	case StateHotQuery:
		return "HOT_QUERY"
	case StateLatencyComplete:
		return "LATENCY_COMPLETE"
	case StateDone:
		return "DONE"
	case StateExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

// BenchmarkState is the process-wide lifecycle state machine:
//
//	INIT --startMeasure--> MEASURE
//	  |                      |
//	  +--skipWarmup----------+
//	WARMUP --timeExpires--> MEASURE
//	MEASURE --serialEntry--> COLD_QUERY --firstResult--> HOT_QUERY
//	HOT_QUERY --signalLatencyComplete--> LATENCY_COMPLETE
//	any --signalDone (last worker)--> DONE
//	DONE --orchestrator tears down--> EXIT
//
// Transitions broadcast on this type's own sync.Cond, which wakes callers
// blocked in BlockForStart or Wait. Workers blocked in WorkloadState's
// StayAwake/FetchWork wait on WorkloadState's cond instead and re-observe
// this state only when that cond is broadcast.
type BenchmarkState struct {
	mu         sync.Mutex
	cond       *sync.Cond
	state      State
	liveWorkers int
}

func NewBenchmarkState(totalWorkers int) *BenchmarkState {
	b := &BenchmarkState{state: StateInit, liveWorkers: totalWorkers}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *BenchmarkState) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// set transitions unconditionally and wakes every waiter. Transition
// legality is the Orchestrator's responsibility, not this type's — it is
// a coordinator, not a validator of its own caller.
func (b *BenchmarkState) set(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
	b.cond.Broadcast()
}

func (b *BenchmarkState) StartMeasure()           { b.set(StateMeasure) }
func (b *BenchmarkState) StartWarmup()            { b.set(StateWarmup) }
func (b *BenchmarkState) TimeExpires()            { b.set(StateMeasure) }
func (b *BenchmarkState) SerialEntry()            { b.set(StateColdQuery) }
func (b *BenchmarkState) FirstResult()            { b.set(StateHotQuery) }
func (b *BenchmarkState) SignalLatencyComplete()  { b.set(StateLatencyComplete) }
func (b *BenchmarkState) Exit()                   { b.set(StateExit) }

// BlockForStart is a barrier: every worker calls it once at startup and
// none proceeds until the Orchestrator calls StartMeasure/StartWarmup to
// move state past INIT.
func (b *BenchmarkState) BlockForStart() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.state == StateInit {
		b.cond.Wait()
	}
}

// Wait blocks until state changes from cur, returning the new state. Used
// by code that needs to re-observe state after a blocking wait rather than
// polling.
func (b *BenchmarkState) Wait(cur State) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.state == cur {
		b.cond.Wait()
	}
	return b.state
}

// SignalDone decrements the live-worker count and, when it reaches zero,
// advances state to DONE. Returns the remaining live-worker count.
func (b *BenchmarkState) SignalDone() int {
	b.mu.Lock()
	b.liveWorkers--
	remaining := b.liveWorkers
	done := remaining <= 0
	if done {
		b.state = StateDone
	}
	b.mu.Unlock()
	b.cond.Broadcast()
	return remaining
}

// ShouldTerminate reports whether a worker observing this state should
// leave its work loop.
func (b *BenchmarkState) ShouldTerminate() bool {
	s := b.State()
	return s == StateExit || s == StateDone
}
