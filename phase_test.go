package bench

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPhaseRejectsBadConfig(t *testing.T) {
	_, err := NewPhase(PhaseConfig{ID: "p1", ActiveTerminals: -1})
	require.Error(t, err)

	_, err = NewPhase(PhaseConfig{ID: "p2", Mode: ModeRateLimited})
	require.Error(t, err)

	_, err = NewPhase(PhaseConfig{
		ID:   "p3",
		Mode: ModeRateLimited,
		Mix:  []WeightedTxnType{{TxnType: "NEW_ORDER", Weight: 0}},
	})
	require.Error(t, err)
}

func TestPhaseChooseTxnTypeStaysWithinMix(t *testing.T) {
	p, err := NewPhase(PhaseConfig{
		ID:              "measure",
		Mode:            ModeRateLimited,
		ActiveTerminals: 4,
		Mix: []WeightedTxnType{
			{TxnType: "NEW_ORDER", Weight: 45},
			{TxnType: "PAYMENT", Weight: 43},
			{TxnType: "DELIVERY", Weight: 4},
		},
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		txn := p.ChooseTxnType()
		seen[txn] = true
		require.Contains(t, []string{"NEW_ORDER", "PAYMENT", "DELIVERY"}, txn)
	}
}

func TestPhaseSerialCursorWrapsAndResets(t *testing.T) {
	p, err := NewPhase(PhaseConfig{
		ID:   "serial",
		Mode: ModeSerial,
		Mix: []WeightedTxnType{
			{TxnType: "A", Weight: 1},
			{TxnType: "B", Weight: 1},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "A", p.NextSerialTxnType())
	require.Equal(t, "B", p.NextSerialTxnType())
	require.Equal(t, "A", p.NextSerialTxnType())

	p.ResetSerial()
	require.Equal(t, "A", p.NextSerialTxnType())
}

func TestPhaseDisabledAllowsEmptyMix(t *testing.T) {
	p, err := NewPhase(PhaseConfig{ID: "cooldown", Mode: ModeDisabled})
	require.NoError(t, err)
	require.True(t, p.Disabled())
}
