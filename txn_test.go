package bench

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDemoRegistryCoversStandardFiveTxnTypes(t *testing.T) {
	registry, err := DemoRegistry(10, NewProperties())
	require.NoError(t, err)
	for _, txnType := range []string{"NEW_ORDER", "PAYMENT", "ORDER_STATUS", "DELIVERY", "STOCK_LEVEL"} {
		_, ok := registry[txnType]
		require.True(t, ok, "missing executor for %s", txnType)
	}
}

func TestDemoRegistryExecutorsRunAgainstFakeConnection(t *testing.T) {
	registerFakeDialect(t)
	cm, err := NewConnectionManager(context.Background(), "faketest", "dsn", sql.LevelSerializable, 4)
	require.NoError(t, err)
	defer cm.Close()

	registry, err := DemoRegistry(5, NewProperties())
	require.NoError(t, err)
	ctx := context.Background()
	for txnType, executor := range registry {
		tx, err := cm.DB().BeginTx(ctx, &sql.TxOptions{Isolation: cm.IsolationLevel()})
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(1))
		err = executor.Execute(ctx, tx, cm, rng)
		if err != nil {
			require.ErrorIs(t, err, ErrUserAbort, "unexpected error for %s", txnType)
			require.NoError(t, tx.Rollback())
			continue
		}
		require.NoError(t, tx.Commit())
	}
}
