package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOrchestratorEndToEndRun(t *testing.T) {
	registerFakeDialect(t)

	measure, err := NewPhase(PhaseConfig{
		ID:              "measure",
		Mode:            ModeRateLimited,
		ActiveTerminals: 2,
		RatePerSecond:   200,
		Duration:        MillisecondToNanosecond(120),
		Mix:             []WeightedTxnType{{TxnType: "NEW_ORDER", Weight: 1}},
	})
	require.NoError(t, err)

	props := NewProperties()
	props.Add(PropertyDialect, "faketest")
	props.Add(PropertyTotalTerminals, "2")
	props.Add(PropertyNoWait, "true")

	cfg := &RunConfig{
		Benchmark:      "tpcc-demo",
		Dialect:        "faketest",
		DSN:            "dsn",
		IsolationLevel: "serializable",
		TotalTerminals: 2,
		Phases:         []*Phase{measure},
		Props:          props,
	}

	registry := map[string]TransactionExecutor{
		"NEW_ORDER": successExecutor{},
	}

	orch, err := NewOrchestrator(context.Background(), cfg, registry)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := orch.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)

	stats, ok := result.PhaseStats["measure"]
	require.True(t, ok)
	require.Greater(t, stats.Count, int64(0))

	hist, ok := result.PhaseOutcomeHistograms["measure"]
	require.True(t, ok)
	require.Greater(t, hist["NEW_ORDER:success"], int64(0))
}
