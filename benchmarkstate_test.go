package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBenchmarkStateBlockForStartReleasesOnTransition(t *testing.T) {
	b := NewBenchmarkState(1)
	released := make(chan struct{})

	go func() {
		b.BlockForStart()
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("BlockForStart returned before any transition out of INIT")
	case <-time.After(20 * time.Millisecond):
	}

	b.StartMeasure()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("BlockForStart did not release after StartMeasure")
	}
	require.Equal(t, StateMeasure, b.State())
}

func TestBenchmarkStateSignalDoneReachesDoneAtZero(t *testing.T) {
	b := NewBenchmarkState(2)
	require.Equal(t, 1, b.SignalDone())
	require.False(t, b.ShouldTerminate())
	require.Equal(t, 0, b.SignalDone())
	require.True(t, b.ShouldTerminate())
	require.Equal(t, StateDone, b.State())
}

func TestBenchmarkStateExitTerminates(t *testing.T) {
	b := NewBenchmarkState(5)
	require.False(t, b.ShouldTerminate())
	b.Exit()
	require.True(t, b.ShouldTerminate())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "MEASURE", StateMeasure.String())
	require.Equal(t, "HOT_QUERY", StateHotQuery.String())
}
