// Package dialect registers the per-DBMS driver openers and error
// translators that bench's ConnectionManager and ErrorClassifier consult
// through a small tagged-variant registry (§9: "one tagged variant per
// dialect is sufficient"), rather than a per-DBMS class hierarchy.
package dialect

import (
	"database/sql"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"

	bench "github.com/oltpgo/tpccdrive"
)

const Mysql = "mysql"

func init() {
	bench.RegisterDialect(Mysql, openMysql)
	bench.RegisterDialectTranslator(Mysql, translateMysqlError)
}

func openMysql(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

// mysqlSQLStates fills in the SQLSTATE go-sql-driver/mysql does not always
// surface for the two vendor codes this core's ErrorClassifier is seeded
// with (§4.1). Unlisted codes translate with HasState=false, which the
// classifier treats as RETRY — conservative for codes this dialect
// doesn't specifically recognise.
var mysqlSQLStates = map[uint16]string{
	1213: "40001", // deadlock
	1205: "41000", // lock wait timeout
}

func translateMysqlError(err error) (bench.DBError, bool) {
	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) {
		return bench.DBError{}, false
	}
	code := int(myErr.Number)
	if state, ok := mysqlSQLStates[myErr.Number]; ok {
		return bench.DBError{Code: code, SQLState: state, HasState: true}, true
	}
	return bench.DBError{Code: code, HasState: false}, true
}
