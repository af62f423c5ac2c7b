package bench

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorClassifierSeeds(t *testing.T) {
	c := NewErrorClassifier()

	cases := []struct {
		name  string
		err   DBError
		class ErrorClass
	}{
		{"mysql deadlock", DBError{Code: 1213, SQLState: "40001", HasState: true}, ClassRetry},
		{"mysql lock timeout", DBError{Code: 1205, SQLState: "41000", HasState: true}, ClassRetry},
		{"sqlserver deadlock", DBError{Code: 1205, SQLState: "40001", HasState: true}, ClassRetry},
		{"oracle serialization", DBError{Code: 8177, SQLState: "72000", HasState: true}, ClassRetry},
		{"db2 deadlock", DBError{Code: -911, SQLState: "40001", HasState: true}, ClassRetry},
		{"db2 query cancelled zero code", DBError{Code: 0, SQLState: "57014", HasState: true}, ClassRetryDifferent},
		{"db2 query cancelled explicit code", DBError{Code: -952, SQLState: "57014", HasState: true}, ClassRetryDifferent},
		{"postgres serialization", DBError{Code: 0, SQLState: "40001", HasState: true}, ClassRetry},
		{"postgres oom", DBError{Code: 0, SQLState: "53200", HasState: true}, ClassFatal},
		{"postgres internal error", DBError{Code: 0, SQLState: "XX000", HasState: true}, ClassFatal},
		{"no data", DBError{Code: 0, SQLState: "02000", HasState: true}, ClassRetryDifferent},
		{"nil sqlstate", DBError{Code: 42, HasState: false}, ClassRetry},
		{"unrecognised", DBError{Code: 9999, SQLState: "99999", HasState: true}, ClassUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.class, c.Classify(tc.err))
		})
	}
}

func TestErrorClassifierDeterministic(t *testing.T) {
	c := NewErrorClassifier()
	err := DBError{Code: 1213, SQLState: "40001", HasState: true}
	first := c.Classify(err)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, c.Classify(err))
	}
}

func TestErrorClassString(t *testing.T) {
	require.Equal(t, "RETRY", ClassRetry.String())
	require.Equal(t, "RETRY_DIFFERENT", ClassRetryDifferent.String())
	require.Equal(t, "USER_ABORT", ClassUserAbort.String())
	require.Equal(t, "FATAL", ClassFatal.String())
	require.Equal(t, "UNKNOWN", ClassUnknown.String())
}
