// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels.
//
// Design goals:
//   - Simple API (Errorf, Infof, Debugf, Tracef)
//   - Centralized verbosity control
//   - Zero formatting logic at call sites
//   - Delegates formatting and output to logrus
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("quoting %s", ticker)
//	logger.Debugf("spot=%f vol=%f", spot, vol)
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

// log is the package-wide logrus instance.
var log = logrus.New()

// init configures the logger used by this package.
func init() {
	// Write all log output to standard error (stderr).
	// This ensures logs are separated from normal program output,
	// which is especially important for CLI tools and pipelines.
	log.SetOutput(os.Stderr)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})

	log.SetLevel(logrus.InfoLevel)
}

// SetVerbosity sets the global logging verbosity.
// Typically called once during application startup
// (e.g. after parsing CLI flags).
func SetVerbosity(v int) {
	switch Level(v) {
	case Error:
		log.SetLevel(logrus.ErrorLevel)
	case Info:
		log.SetLevel(logrus.InfoLevel)
	case Debug:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.TraceLevel)
	}
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

// Infof logs an informational message.
// Use this for major lifecycle events.
func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

// Debugf logs debugging information.
// Use this for diagnostic output useful during development.
func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	log.Tracef(format, args...)
}
