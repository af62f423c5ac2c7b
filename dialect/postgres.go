package dialect

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	bench "github.com/oltpgo/tpccdrive"
)

const Postgres = "postgres"

func init() {
	bench.RegisterDialect(Postgres, openPostgres)
	bench.RegisterDialectTranslator(Postgres, translatePostgresError)
}

func openPostgres(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

// lib/pq surfaces the SQLSTATE directly as pq.Error.Code; Postgres has no
// separate vendor-numeric code, so DBError.Code is left at its zero value
// (matching the ErrorClassifier's own Postgres seed entries, which key on
// SQLSTATE alone).
func translatePostgresError(err error) (bench.DBError, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return bench.DBError{}, false
	}
	return bench.DBError{SQLState: string(pqErr.Code), HasState: true}, true
}
