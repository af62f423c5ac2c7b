package bench

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru"
)

// DialectOpener opens a *sql.DB for one registered dialect tag. The
// per-DBMS connection-string formatting behind it is an external
// collaborator's job (§1 Non-goals) — this core only needs an opaque DSN
// handed through to the dialect's driver.
type DialectOpener func(dsn string) (*sql.DB, error)

var (
	dialectMu      sync.Mutex
	dialectOpeners = map[string]DialectOpener{}
)

// RegisterDialect adds an opener for tag (e.g. "mysql", "postgres") to the
// registry ConnectionManager consults. Dialects with no real Go driver
// anywhere in the retrieved corpus (oracle, db2, sqlserver, tibero) are
// registered by the dialect package with an opener that always fails with
// "no driver available in this build"; a tag that is not registered at all
// fails with "not available in this build".
func RegisterDialect(tag string, opener DialectOpener) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	dialectOpeners[tag] = opener
}

func lookupDialect(tag string) (DialectOpener, bool) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	opener, ok := dialectOpeners[tag]
	return opener, ok
}

// ParseIsolationLevel maps the RunConfig/Properties isolation-level name
// onto database/sql's enum. TPC-C defaults to serializable.
func ParseIsolationLevel(name string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "serializable":
		return sql.LevelSerializable, nil
	case "repeatable read", "repeatableread":
		return sql.LevelRepeatableRead, nil
	case "read committed", "readcommitted":
		return sql.LevelReadCommitted, nil
	case "read uncommitted", "readuncommitted":
		return sql.LevelReadUncommitted, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unknown isolation level %q", name)
	}
}

// ConnectionManager is a worker's single session: one *sql.DB restricted
// to a single logical connection for the worker's lifetime, a prepared
// statement LRU, and transparent reconnect with a capped exponential
// backoff ladder. Not shared across workers (§5).
type ConnectionManager struct {
	dialect        string
	dsn            string
	isolationLevel sql.IsolationLevel

	mu            sync.Mutex
	db            *sql.DB
	preparedCache *lru.Cache
}

func NewConnectionManager(ctx context.Context, dialect, dsn string, isolationLevel sql.IsolationLevel, cacheSize int) (*ConnectionManager, error) {
	cache, err := lru.NewWithEvict(cacheSize, func(_ interface{}, value interface{}) {
		if stmt, ok := value.(*sql.Stmt); ok {
			stmt.Close()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("creating prepared statement cache: %w", err)
	}

	cm := &ConnectionManager{
		dialect:        dialect,
		dsn:            dsn,
		isolationLevel: isolationLevel,
		preparedCache:  cache,
	}
	if err := cm.connect(ctx); err != nil {
		return nil, err
	}
	return cm, nil
}

func (cm *ConnectionManager) connect(ctx context.Context) error {
	opener, ok := lookupDialect(cm.dialect)
	if !ok {
		return fmt.Errorf("dialect %q not available in this build", cm.dialect)
	}

	db, err := opener(cm.dsn)
	if err != nil {
		return fmt.Errorf("opening %s connection: %w", cm.dialect, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("pinging %s connection: %w", cm.dialect, err)
	}

	cm.mu.Lock()
	if cm.db != nil {
		cm.db.Close()
	}
	cm.db = db
	cm.mu.Unlock()
	cm.preparedCache.Purge()
	return nil
}

// Reconnect closes the current session, if any, and reopens it with a
// capped exponential backoff ladder (InitialInterval=50ms, Multiplier=2,
// MaxInterval=1s, unbounded elapsed time) grounded on
// cenkalti/backoff/v4's ExponentialBackOff, retrying until ctx is
// cancelled — the Orchestrator's shutdown signal is this ctx's
// cancellation.
func (cm *ConnectionManager) Reconnect(ctx context.Context) error {
	cm.mu.Lock()
	if cm.db != nil {
		cm.db.Close()
		cm.db = nil
	}
	cm.mu.Unlock()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.Multiplier = 2
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		err := cm.connect(ctx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// DB returns the live *sql.DB handle. Callers must not retain it across a
// Reconnect — always re-fetch via DB() after classifying an error as
// FATAL or transport failure.
func (cm *ConnectionManager) DB() *sql.DB {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.db
}

func (cm *ConnectionManager) IsolationLevel() sql.IsolationLevel {
	return cm.isolationLevel
}

// Prepare returns a cached *sql.Stmt for key, preparing it against the
// live session on a cache miss. The cache is invalidated wholesale on
// every reconnect (connect() calls Purge), since a *sql.Stmt from a closed
// *sql.DB is unusable.
func (cm *ConnectionManager) Prepare(ctx context.Context, key, query string) (*sql.Stmt, error) {
	if v, ok := cm.preparedCache.Get(key); ok {
		return v.(*sql.Stmt), nil
	}

	db := cm.DB()
	if db == nil {
		return nil, fmt.Errorf("connection manager: no live session for %s", cm.dialect)
	}
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("preparing statement %s: %w", key, err)
	}
	cm.preparedCache.Add(key, stmt)
	return stmt, nil
}

func (cm *ConnectionManager) Close() error {
	cm.preparedCache.Purge()
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.db == nil {
		return nil
	}
	err := cm.db.Close()
	cm.db = nil
	return err
}
