package bench

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/oltpgo/tpccdrive/generator"
)

// Outcome classifies one completed attempt of a transaction, independent
// of ErrorClass: ErrorClass is the Worker's in-flight reaction, Outcome is
// what gets recorded once the attempt is over.
type Outcome uint8

const (
	OutcomeSuccess Outcome = iota
	OutcomeUserAbort
	OutcomeRetry
	OutcomeError
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUserAbort:
		return "user-abort"
	case OutcomeRetry:
		return "retry"
	case OutcomeError:
		return "error"
	default:
		return "skipped"
	}
}

// LatencySample is produced per attempt and appended to a Worker's own
// buffer; no cross-worker synchronization is needed because each buffer
// has exactly one writer.
type LatencySample struct {
	WorkerID int
	PhaseID  string
	TxnType  string
	StartNs  int64
	EndNs    int64
	Outcome  Outcome
}

// ErrUserAbort is the sentinel a TransactionExecutor returns to signal a
// deliberate rollback that is part of the benchmark's own specification
// (e.g. TPC-C's 1% NewOrder rollback), not a database error.
var ErrUserAbort = errors.New("bench: user abort")

// Preparer is the narrow view of ConnectionManager a TransactionExecutor
// needs to reach the per-session prepared statement cache (§4.6, WorkerSession
// §3): prepare once per key, keyed however the executor likes (typically the
// query text itself), and bind the result into the current *sql.Tx with
// tx.StmtContext.
type Preparer interface {
	Prepare(ctx context.Context, key, query string) (*sql.Stmt, error)
}

// TransactionExecutor is the out-of-scope transaction library's contract
// (§6): given a live *sql.Tx, the Preparer backing that session's prepared
// statement cache, and an rng for parameter selection, run one transaction
// body, returning nil on success, ErrUserAbort on a deliberate abort, or any
// other error as a database/transport failure.
type TransactionExecutor interface {
	Execute(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error
}

// TransactionExecutorFunc adapts a plain function to TransactionExecutor.
type TransactionExecutorFunc func(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error

func (f TransactionExecutorFunc) Execute(ctx context.Context, tx *sql.Tx, prep Preparer, rng *rand.Rand) error {
	return f(ctx, tx, prep, rng)
}

// keyingTimeSeconds and thinkTimeMeanSeconds are TPC-C §5.2.5.7's per-
// transaction keying and minimum-mean-think times, grounded on
// cockroachdb's tpcc worker.go txs table. Transaction types outside this
// benchmark's standard five fall back to the DELIVERY/STOCK_LEVEL figures.
var keyingTimeSeconds = map[string]float64{
	"NEW_ORDER":    18,
	"PAYMENT":      3,
	"ORDER_STATUS": 2,
	"DELIVERY":     2,
	"STOCK_LEVEL":  2,
}

var thinkTimeMeanSeconds = map[string]float64{
	"NEW_ORDER":    12,
	"PAYMENT":      12,
	"ORDER_STATUS": 10,
	"DELIVERY":     5,
	"STOCK_LEVEL":  5,
}

const defaultKeyingTimeSeconds = 2
const defaultThinkTimeMeanSeconds = 5

// Worker is one virtual terminal: it owns a ConnectionManager, pulls work
// from a shared WorkloadState, executes the chosen transaction, classifies
// outcomes, retries, and records latency samples into its own buffer.
type Worker struct {
	ID       int
	Dialect  string
	Workload *WorkloadState
	BState   *BenchmarkState
	Conn     *ConnectionManager

	Registry   map[string]TransactionExecutor
	Classifier *ErrorClassifier
	Histogram  *ConcurrentHistogram[string]
	Status     *StatusReporter

	RetryLimit        int
	RetryJitterMillis int64
	KeyingTimeScale   float64
	NoWait            bool

	rng     *rand.Rand
	samples []LatencySample
}

func NewWorker(id int, dialect string, workload *WorkloadState, bstate *BenchmarkState, conn *ConnectionManager, registry map[string]TransactionExecutor, classifier *ErrorClassifier, histogram *ConcurrentHistogram[string], retryLimit int, retryJitterMillis int64, keyingTimeScale float64, noWait bool) *Worker {
	return &Worker{
		ID:                id,
		Dialect:           dialect,
		Workload:          workload,
		BState:            bstate,
		Conn:              conn,
		Registry:          registry,
		Classifier:        classifier,
		Histogram:         histogram,
		RetryLimit:        retryLimit,
		RetryJitterMillis: retryJitterMillis,
		KeyingTimeScale:   keyingTimeScale,
		NoWait:            noWait,
		rng:               rand.New(rand.NewSource(rand.Int63() + int64(id))),
	}
}

// WithStatusReporter attaches a shared StatusReporter that every completed
// attempt reports its latency to, for the periodic rolling summary
// (PropertyStatusInterval). Optional: nil (the default) disables status
// reporting.
func (w *Worker) WithStatusReporter(r *StatusReporter) *Worker {
	w.Status = r
	return w
}

// Samples returns the worker's accumulated LatencySamples. Safe to call
// only after the worker's Run goroutine has exited.
func (w *Worker) Samples() []LatencySample { return w.samples }

// Run is the worker's main loop (§4.7). It returns when BenchmarkState
// reaches DONE/EXIT or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.BState.BlockForStart()

	for {
		w.Workload.StayAwake()
		if w.BState.ShouldTerminate() || ctx.Err() != nil {
			break
		}

		phase := w.Workload.CurrentPhase()
		noWait := w.NoWait || (phase != nil && phase.NoWait())
		proc, ok := w.Workload.FetchWork(w.ID)
		if !ok {
			if w.BState.ShouldTerminate() || ctx.Err() != nil {
				break
			}
			continue // phase changed under us; re-enter via stayAwake
		}

		if !noWait {
			sleep(w.keyingTime(proc.TxnType))
		}

		startNs := nowNanos()
		outcome := w.attempt(ctx, proc.TxnType)
		endNs := nowNanos()

		phaseID := ""
		if phase != nil {
			phaseID = phase.ID()
		}
		w.samples = append(w.samples, LatencySample{
			WorkerID: w.ID,
			PhaseID:  phaseID,
			TxnType:  proc.TxnType,
			StartNs:  startNs,
			EndNs:    endNs,
			Outcome:  outcome,
		})
		if w.Histogram != nil {
			w.Histogram.Put(proc.TxnType+":"+outcome.String(), 1)
		}
		if w.Status != nil {
			w.Status.Observe(endNs - startNs)
		}

		w.Workload.FinishedWork()

		if !noWait {
			sleep(w.thinkTime(proc.TxnType))
		}
	}

	w.Workload.SignalDone()
}

func (w *Worker) keyingTime(txnType string) time.Duration {
	seconds, ok := keyingTimeSeconds[txnType]
	if !ok {
		seconds = defaultKeyingTimeSeconds
	}
	return time.Duration(seconds * w.KeyingTimeScale * float64(time.Second))
}

// thinkTime draws from a negative-exponential distribution truncated at
// 10x its mean (TPC-C §5.2.5.4), using the shared generator package's
// thread-safe NextFloat64.
func (w *Worker) thinkTime(txnType string) time.Duration {
	mean, ok := thinkTimeMeanSeconds[txnType]
	if !ok {
		mean = defaultThinkTimeMeanSeconds
	}
	mean *= w.KeyingTimeScale
	t := -math.Log(generator.NextFloat64()) * mean
	if t > mean*10 {
		t = mean * 10
	}
	return time.Duration(t * float64(time.Second))
}

func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// attempt runs the retry loop for one SubmittedProcedure (§4.7 step 5) and
// returns the Outcome to record.
func (w *Worker) attempt(ctx context.Context, txnType string) Outcome {
	executor, ok := w.Registry[txnType]
	if !ok {
		Warnf("worker %d: no transaction executor registered for %s", w.ID, txnType)
		return OutcomeSkipped
	}

	for attempt := 0; attempt < w.RetryLimit; attempt++ {
		if ctx.Err() != nil {
			return OutcomeError
		}

		err := w.executeOnce(ctx, executor)
		if err == nil {
			return OutcomeSuccess
		}
		if errors.Is(err, ErrUserAbort) {
			return OutcomeUserAbort
		}

		translator, hasTranslator := lookupTranslator(w.Dialect)
		dbErr, recognised := DBError{}, false
		if hasTranslator {
			dbErr, recognised = translator(err)
		}
		if !recognised {
			// transport failure: reconnect and retry the same procedure.
			Warnf("worker %d: transport failure on %s, reconnecting: %v", w.ID, txnType, err)
			if rerr := w.Conn.Reconnect(ctx); rerr != nil {
				Errorf("worker %d: reconnect failed: %v", w.ID, rerr)
			}
			continue
		}

		switch w.Classifier.Classify(dbErr) {
		case ClassRetry, ClassUnknown:
			time.Sleep(w.retryJitter())
			continue
		case ClassRetryDifferent:
			return OutcomeRetry
		case ClassUserAbort:
			return OutcomeUserAbort
		case ClassFatal:
			Errorf("worker %d: fatal error on %s, reconnecting: %v", w.ID, txnType, err)
			if rerr := w.Conn.Reconnect(ctx); rerr != nil {
				Errorf("worker %d: reconnect failed: %v", w.ID, rerr)
			}
			return OutcomeError
		}
	}
	return OutcomeError
}

func (w *Worker) retryJitter() time.Duration {
	if w.RetryJitterMillis <= 0 {
		return 0
	}
	return time.Duration(w.rng.Int63n(w.RetryJitterMillis+1)) * time.Millisecond
}

func (w *Worker) executeOnce(ctx context.Context, executor TransactionExecutor) (err error) {
	db := w.Conn.DB()
	if db == nil {
		return errors.New("no live database session")
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: w.Conn.IsolationLevel()})
	if err != nil {
		return err
	}

	if err = executor.Execute(ctx, tx, w.Conn, w.rng); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			Warnf("worker %d: rollback after failed transaction also failed: %v", w.ID, rbErr)
		}
		return err
	}
	return tx.Commit()
}
