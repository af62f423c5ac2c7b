package bench

import (
	"context"
	"database/sql"
	"math/rand"
	"strconv"

	"github.com/oltpgo/tpccdrive/generator"
)

// NewOrderUserAbortFraction is TPC-C §2.4.1.4's rule that roughly 1% of
// NewOrder transactions deliberately roll back on an invalid item number,
// counted as a USER_ABORT outcome rather than an error (§7).
const NewOrderUserAbortFraction = 0.01

// DemoRegistry builds a minimal TransactionExecutor set that exercises the
// dialect/session/generator plumbing end to end without implementing the
// real TPC-C transaction bodies (out of scope, §1). Each executor selects
// its parameters with the generator package the way a real implementation
// would (NEW_ORDER and PAYMENT pick a warehouse through a hotspot
// generator; the other three take no parameters) and issues a single
// placeholder statement against the live *sql.Tx.
//
// warehouses is the configured warehouse count (TPC-C's scale factor);
// props supplies HotspotDataFraction/HotspotOpnFraction (config.go); callers
// wire a real schema's worth of NewOrder/Payment/... bodies in place of
// these by replacing entries in the returned map.
func DemoRegistry(warehouses int, props Properties) (map[string]TransactionExecutor, error) {
	if warehouses < 1 {
		warehouses = 1
	}
	hotsetFraction, err := strconv.ParseFloat(props.GetDefault(HotspotDataFraction, HotspotDataFractionDefault), 64)
	if err != nil {
		return nil, err
	}
	hotOpnFraction, err := strconv.ParseFloat(props.GetDefault(HotspotOpnFraction, HotspotOpnFractionDefault), 64)
	if err != nil {
		return nil, err
	}
	warehouseGen, err := generator.NewHotspotIntegerGenerator(1, int64(warehouses), hotsetFraction, hotOpnFraction)
	if err != nil {
		return nil, err
	}

	return map[string]TransactionExecutor{
		"NEW_ORDER":    newOrderExecutor{warehouseGen: warehouseGen},
		"PAYMENT":      paymentExecutor{warehouseGen: warehouseGen},
		"ORDER_STATUS": placeholderExecutor{query: "SELECT 1"},
		"DELIVERY":     placeholderExecutor{query: "SELECT 1"},
		"STOCK_LEVEL":  placeholderExecutor{query: "SELECT 1"},
	}, nil
}

// stmtOnTx prepares query once per session (via prep's WorkerSession cache,
// keyed by the query text) and binds the cached *sql.Stmt into the current
// transaction, so repeat calls across attempts reuse the same prepared
// statement instead of re-parsing it every time.
func stmtOnTx(ctx context.Context, tx *sql.Tx, prep Preparer, query string) (*sql.Stmt, error) {
	stmt, err := prep.Prepare(ctx, query, query)
	if err != nil {
		return nil, err
	}
	return tx.StmtContext(ctx, stmt), nil
}

type placeholderExecutor struct {
	query string
}

func (p placeholderExecutor) Execute(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error {
	stmt, err := stmtOnTx(ctx, tx, prep, p.query)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx)
	return err
}

type newOrderExecutor struct {
	warehouseGen *generator.HotspotIntegerGenerator
}

func (n newOrderExecutor) Execute(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error {
	warehouseID := n.warehouseGen.NextInt()
	stmt, err := stmtOnTx(ctx, tx, prep, "SELECT ?")
	if err != nil {
		return err
	}
	if rng.Float64() < NewOrderUserAbortFraction {
		// Simulates the item-not-found rollback §2.4.1.4 mandates, after
		// having already touched the session the way a real check would.
		if _, err := stmt.ExecContext(ctx, warehouseID); err != nil {
			return err
		}
		return ErrUserAbort
	}
	_, err = stmt.ExecContext(ctx, warehouseID)
	return err
}

type paymentExecutor struct {
	warehouseGen *generator.HotspotIntegerGenerator
}

func (p paymentExecutor) Execute(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error {
	warehouseID := p.warehouseGen.NextInt()
	stmt, err := stmtOnTx(ctx, tx, prep, "SELECT ?")
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, warehouseID)
	return err
}
