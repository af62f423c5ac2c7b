package bench

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testDBError struct {
	class DBError
}

func (e *testDBError) Error() string { return "test db error" }

type successExecutor struct{}

func (successExecutor) Execute(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error {
	return nil
}

// scriptedExecutor returns errs[call] on its call-th invocation (nil meaning
// success), then nil forever after the script is exhausted.
type scriptedExecutor struct {
	errs []error
	call int
}

func (s *scriptedExecutor) Execute(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error {
	if s.call >= len(s.errs) {
		return nil
	}
	err := s.errs[s.call]
	s.call++
	return err
}

func setupWorkerFixture(t *testing.T) (*Worker, *ConnectionManager) {
	t.Helper()
	registerFakeDialect(t)
	RegisterDialectTranslator("faketest", func(err error) (DBError, bool) {
		var tdErr *testDBError
		if errors.As(err, &tdErr) {
			return tdErr.class, true
		}
		return DBError{}, false
	})

	cm, err := NewConnectionManager(context.Background(), "faketest", "dsn", sql.LevelSerializable, 4)
	require.NoError(t, err)

	phase, err := NewPhase(PhaseConfig{
		ID:              "measure",
		Mode:            ModeRateLimited,
		ActiveTerminals: 1,
		Mix:             []WeightedTxnType{{TxnType: "NEW_ORDER", Weight: 1}},
	})
	require.NoError(t, err)

	b := NewBenchmarkState(1)
	b.StartMeasure()
	ws := NewWorkloadState(1, []*Phase{phase}, b, nil)
	ws.SwitchToNextPhase()

	w := NewWorker(0, "faketest", ws, b, cm, map[string]TransactionExecutor{}, NewErrorClassifier(), NewConcurrentHistogram[string](), 3, 0, 0.001, true)
	return w, cm
}

func TestWorkerAttemptSuccess(t *testing.T) {
	w, _ := setupWorkerFixture(t)
	w.Registry["NEW_ORDER"] = successExecutor{}

	outcome := w.attempt(context.Background(), "NEW_ORDER")
	require.Equal(t, OutcomeSuccess, outcome)
}

func TestWorkerRunEndsOnExit(t *testing.T) {
	w, _ := setupWorkerFixture(t)
	w.Registry["NEW_ORDER"] = successExecutor{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	w.BState.Exit()
	w.Workload.cond.Broadcast()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after BenchmarkState.Exit")
	}
	require.True(t, w.BState.ShouldTerminate())
}

func TestWorkerRetryDifferentOutcome(t *testing.T) {
	w, _ := setupWorkerFixture(t)
	w.Registry["NEW_ORDER"] = &scriptedExecutor{
		errs: []error{&testDBError{class: DBError{SQLState: "02000", HasState: true}}},
	}

	outcome := w.attempt(context.Background(), "NEW_ORDER")
	require.Equal(t, OutcomeRetry, outcome)
}

func TestWorkerFatalOutcomeReconnects(t *testing.T) {
	w, _ := setupWorkerFixture(t)
	w.Registry["NEW_ORDER"] = &scriptedExecutor{
		errs: []error{&testDBError{class: DBError{SQLState: "XX000", HasState: true}}},
	}

	outcome := w.attempt(context.Background(), "NEW_ORDER")
	require.Equal(t, OutcomeError, outcome)
	require.NotNil(t, w.Conn.DB())
}

func TestWorkerRetryThenSucceed(t *testing.T) {
	w, _ := setupWorkerFixture(t)
	w.Registry["NEW_ORDER"] = &scriptedExecutor{
		errs: []error{&testDBError{class: DBError{Code: 1213, SQLState: "40001", HasState: true}}, nil},
	}

	outcome := w.attempt(context.Background(), "NEW_ORDER")
	require.Equal(t, OutcomeSuccess, outcome)
}
