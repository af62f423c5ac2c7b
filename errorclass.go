package bench

import "sync"

// ErrorTranslator extracts a DBError from a dialect's native driver error.
// ok=false means the error carries no recognisable vendor code/sqlstate at
// all — a transport failure rather than a database-level rejection — and
// the Worker should reconnect rather than consult the ErrorClassifier.
type ErrorTranslator func(err error) (DBError, bool)

var (
	translatorMu sync.Mutex
	translators  = map[string]ErrorTranslator{}
)

// RegisterDialectTranslator attaches the error-translation half of §9's
// per-dialect capability set ({execute, classify}) to a dialect tag. The
// ErrorClassifier itself stays dialect-agnostic; only the extraction of a
// DBError from a driver-specific error type is per-dialect.
func RegisterDialectTranslator(tag string, t ErrorTranslator) {
	translatorMu.Lock()
	defer translatorMu.Unlock()
	translators[tag] = t
}

func lookupTranslator(tag string) (ErrorTranslator, bool) {
	translatorMu.Lock()
	defer translatorMu.Unlock()
	t, ok := translators[tag]
	return t, ok
}

// ErrorClass is the Worker's instruction for how to react to a database
// error, distinct from the error itself: the boundary between "this failed"
// (error) and "here is how to proceed" (ErrorClass) is kept explicit so the
// attempt loop in worker.go never has to re-derive policy from a raw code.
type ErrorClass uint8

const (
	// ClassUnknown is the zero value so a forgotten classification defaults
	// to the conservative "retry with a cap" behavior rather than silently
	// succeeding.
	ClassUnknown ErrorClass = iota
	ClassRetry
	ClassRetryDifferent
	ClassUserAbort
	ClassFatal
)

func (c ErrorClass) String() string {
	switch c {
	case ClassRetry:
		return "RETRY"
	case ClassRetryDifferent:
		return "RETRY_DIFFERENT"
	case ClassUserAbort:
		return "USER_ABORT"
	case ClassFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// DBError is the minimal shape an ErrorClassifier needs from a database
// driver error: a vendor-specific numeric code and, where the driver
// surfaces one, a SQLSTATE. Drivers that only expose one of the two are
// still classified (see Classify): an error without a SQLSTATE is RETRY,
// and one without a vendor code is probed with Code 0.
type DBError struct {
	Code     int
	SQLState string
	HasState bool
}

type codeStateKey struct {
	code     int
	sqlState string
}

// ErrorClassifier is a pure mapping from (vendor code, SQLSTATE) to an
// ErrorClass, seeded from the vendor codes OLTPBench's SQLExceptionHandler
// treats authoritatively. It holds no state past construction, so a single
// instance is safe to share across every Worker regardless of dialect.
type ErrorClassifier struct {
	exact      map[codeStateKey]ErrorClass
	byState    map[string]ErrorClass
	forceFatal map[string]bool
}

// NewErrorClassifier builds the classifier with the spec-mandated seeded
// entries. The three tables are consulted in order — exact match, then
// SQLSTATE-only, then the forced-fatal set — and the first match wins.
func NewErrorClassifier() *ErrorClassifier {
	c := &ErrorClassifier{
		exact:      make(map[codeStateKey]ErrorClass),
		byState:    make(map[string]ErrorClass),
		forceFatal: make(map[string]bool),
	}

	// MySQL
	c.exact[codeStateKey{1213, "40001"}] = ClassRetry // deadlock
	c.exact[codeStateKey{1205, "41000"}] = ClassRetry // lock wait timeout

	// SQL Server
	c.exact[codeStateKey{1205, "40001"}] = ClassRetry // deadlock victim

	// Oracle
	c.exact[codeStateKey{8177, "72000"}] = ClassRetry // can't serialize access

	// DB2
	c.exact[codeStateKey{-911, "40001"}] = ClassRetry          // deadlock/timeout
	c.exact[codeStateKey{0, "57014"}] = ClassRetryDifferent    // query cancelled
	c.exact[codeStateKey{-952, "57014"}] = ClassRetryDifferent // query cancelled, explicit code

	// PostgreSQL
	c.byState["40001"] = ClassRetry // serialization_failure
	c.byState["02000"] = ClassRetryDifferent

	c.forceFatal["53200"] = true // out_of_memory
	c.forceFatal["XX000"] = true // internal_error

	return c
}

// Classify returns the ErrorClass for err, consulting exact (code,state),
// then state-only, then the forced-fatal set, in that order. A nil SQLSTATE
// (HasState=false) is treated as RETRY per the spec's seed scenarios — most
// drivers that omit SQLSTATE do so on transient network conditions.
func (c *ErrorClassifier) Classify(err DBError) ErrorClass {
	if !err.HasState {
		return ClassRetry
	}
	if class, ok := c.exact[codeStateKey{err.Code, err.SQLState}]; ok {
		return class
	}
	if class, ok := c.byState[err.SQLState]; ok {
		return class
	}
	if c.forceFatal[err.SQLState] {
		return ClassFatal
	}
	return ClassUnknown
}
