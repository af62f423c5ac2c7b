package dialect

import (
	"database/sql"
	"fmt"

	bench "github.com/oltpgo/tpccdrive"
)

// Oracle, DB2, SQLServer and Tibero are registered as recognised dialect
// tags with no working driver: no Go driver for any of the four exists
// anywhere in the retrieved corpus, and fabricating one would violate the
// "never fabricate dependencies" rule. Registering the tag (rather than
// leaving it entirely unknown) gives a clear, specific failure instead of
// ConnectionManager's generic "not available in this build" message.
const (
	Oracle   = "oracle"
	DB2      = "db2"
	SQLServer = "sqlserver"
	Tibero   = "tibero"
)

func init() {
	for _, tag := range []string{Oracle, DB2, SQLServer, Tibero} {
		tag := tag
		bench.RegisterDialect(tag, func(dsn string) (*sql.DB, error) {
			return nil, fmt.Errorf("dialect %q: no driver available in this build", tag)
		})
	}
}
