package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func rateLimitedPhase(t *testing.T, active int) *Phase {
	t.Helper()
	p, err := NewPhase(PhaseConfig{
		ID:              "measure",
		Mode:            ModeRateLimited,
		ActiveTerminals: active,
		Mix:             []WeightedTxnType{{TxnType: "NEW_ORDER", Weight: 1}},
	})
	require.NoError(t, err)
	return p
}

func TestWorkloadStateAddAndFetch(t *testing.T) {
	phase := rateLimitedPhase(t, 4)
	b := NewBenchmarkState(4)
	b.StartMeasure()
	w := NewWorkloadState(4, []*Phase{phase}, b, nil)
	w.SwitchToNextPhase()

	w.AddToQueue(3, false, nowNanos())
	require.Equal(t, 3, w.QueueSize())

	proc, ok := w.FetchWork(0)
	require.True(t, ok)
	require.Equal(t, "NEW_ORDER", proc.TxnType)
	require.Equal(t, 2, w.QueueSize())
	w.FinishedWork()
}

func TestWorkloadStateSwitchToNextPhaseDrainsQueue(t *testing.T) {
	phase1 := rateLimitedPhase(t, 2)
	phase2 := rateLimitedPhase(t, 1)
	b := NewBenchmarkState(2)
	b.StartMeasure()
	w := NewWorkloadState(2, []*Phase{phase1, phase2}, b, nil)
	w.SwitchToNextPhase()
	w.AddToQueue(5, false, nowNanos())
	require.Equal(t, 5, w.QueueSize())

	w.SwitchToNextPhase()
	require.Equal(t, 0, w.QueueSize())
}

func TestWorkloadStateEndOfWorkloadReturnsNilPhase(t *testing.T) {
	phase := rateLimitedPhase(t, 1)
	b := NewBenchmarkState(1)
	b.StartMeasure()
	w := NewWorkloadState(1, []*Phase{phase}, b, nil)
	require.NotNil(t, w.SwitchToNextPhase())
	require.Nil(t, w.SwitchToNextPhase())
}

func TestWorkloadStateFetchWorkBlocksThenDelivers(t *testing.T) {
	phase := rateLimitedPhase(t, 1)
	b := NewBenchmarkState(1)
	b.StartMeasure()
	w := NewWorkloadState(1, []*Phase{phase}, b, nil)
	w.SwitchToNextPhase()

	results := make(chan bool, 1)
	go func() {
		_, ok := w.FetchWork(0)
		results <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, w.WorkersWaiting())

	w.AddToQueue(1, false, nowNanos())

	select {
	case ok := <-results:
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("FetchWork never woke up after AddToQueue")
	}
}

func TestWorkloadStateFetchWorkUnblocksOnExit(t *testing.T) {
	phase := rateLimitedPhase(t, 1)
	b := NewBenchmarkState(1)
	b.StartMeasure()
	w := NewWorkloadState(1, []*Phase{phase}, b, nil)
	w.SwitchToNextPhase()

	results := make(chan bool, 1)
	go func() {
		_, ok := w.FetchWork(0)
		results <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	b.Exit()
	w.cond.Broadcast()

	select {
	case ok := <-results:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("FetchWork never unblocked on Exit")
	}
}

func TestWorkloadStateStayAwakeLimitsActiveWorkers(t *testing.T) {
	phase := rateLimitedPhase(t, 1)
	b := NewBenchmarkState(2)
	b.StartMeasure()
	w := NewWorkloadState(2, []*Phase{phase}, b, nil)
	w.SwitchToNextPhase()

	awake := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func(id int) {
			w.StayAwake()
			awake <- id
		}(i)
	}

	time.Sleep(30 * time.Millisecond)
	require.Len(t, awake, 1)
}
