package bench

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// logger is the process-wide structured logger. Call sites that have
// run/worker/phase context available should use WithFields rather than the
// bare Infof/Warnf/... helpers below, which exist mainly for early startup
// logging before a run id has been assigned.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLogLevel maps the six level names (verbose, debug, info, warn, error,
// quiet) onto logrus levels; any other name selects info.
func SetLogLevel(name string) {
	switch name {
	case "verbose", "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	case "quiet":
		logger.SetLevel(logrus.PanicLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// WithFields returns an entry pre-populated with context (run_id, worker_id,
// phase, ...). The Orchestrator and Worker currently log through the bare
// helpers below, without fields, and ConnectionManager does not log.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Verbosef(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Printf and EPrintf are plain, unleveled output for the CLI's own
// human-facing messages (usage, summaries) as opposed to operational logs.
func Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
	fmt.Println("")
}

func EPrintf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr, "")
}
