package bench

const (
	// The dialect to drive: one of the registered dialect tags (mysql,
	// postgres, oracle, db2, sqlserver, tibero).
	PropertyDialect = "dialect"
	// The DSN/connection string for the target database. Formatting this
	// per-dialect is an external collaborator's job; this engine treats it
	// as an opaque string handed to the dialect's Open.
	PropertyDSN = "dsn"
	// Session isolation level; defaults to serializable for TPC-C.
	PropertyIsolationLevel        = "isolationlevel"
	PropertyIsolationLevelDefault = "serializable"
	// Total number of virtual terminals (workers) across all phases.
	PropertyTotalTerminals        = "terminals"
	PropertyTotalTerminalsDefault = "1"
	// Benchmark name, surfaced in logs and the results stream.
	PropertyBenchmark = "benchmark"
	// Seconds between StatusReporter rolling summaries (status.go).
	PropertyStatusInterval        = "status.interval"
	PropertyStatusIntervalDefault = "10"

	// How many times a worker re-attempts a transaction classified as
	// RETRY/UNKNOWN before it is forcibly converted to an error outcome.
	PropertyRetryLimit        = "worker.retrylimit"
	PropertyRetryLimitDefault = "10"
	// Upper bound, in milliseconds, of the jitter applied before a RETRY
	// attempt (uniform in [0, jitter]).
	PropertyRetryJitterMillis        = "worker.retryjittermillis"
	PropertyRetryJitterMillisDefault = "5"
	// Scales TPC-C §5.2.5.7 keying times (seconds) down for fast test runs;
	// 1.0 reproduces the spec's real keying times.
	PropertyKeyingTimeScale        = "worker.keyingtimescale"
	PropertyKeyingTimeScaleDefault = "1.0"
	// When true, workers skip keying-time and think-time sleeps entirely
	// (throughput-bound rather than terminal-bound runs).
	PropertyNoWait        = "worker.nowait"
	PropertyNoWaitDefault = "false"

	// Per-session prepared statement cache capacity (golang-lru).
	PropertyPreparedStatementCacheSize        = "connection.preparedcachesize"
	PropertyPreparedStatementCacheSizeDefault = "64"
	// Reconnect backoff ladder (cenkalti/backoff/v4 ExponentialBackOff).
	PropertyReconnectInitialBackoff        = "connection.reconnect.initialbackoff"
	PropertyReconnectInitialBackoffDefault = "50ms"
	PropertyReconnectMaxBackoff             = "connection.reconnect.maxbackoff"
	PropertyReconnectMaxBackoffDefault      = "1s"
	PropertyReconnectMultiplier             = "connection.reconnect.multiplier"
	PropertyReconnectMultiplierDefault      = "2.0"

	// RateQueueLimit is the logical bound on WorkloadState's work queue
	// (§4.4): the oldest entries are trimmed once the queue grows past it.
	RateQueueLimit = 10000

	// Hotspot key access pattern, reused by the demo transaction executor
	// to bias warehouse/item selection the way a real TPC-C loader would.
	HotspotDataFraction        = "hotspotdatafraction"
	HotspotDataFractionDefault = "0.2"
	HotspotOpnFraction         = "hotspotopnfraction"
	HotspotOpnFractionDefault  = "0.8"
)
