package contract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log formats accepted by InitLogging.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Logger is the process-wide structured logger. Output goes to stderr so
// that stdout stays reserved for tables.
var Logger = logrus.New()

// InitLogging configures Logger from the --log-level and --log-format values.
func InitLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	Logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", LogFormatText:
		Logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case LogFormatJSON:
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q. must be text, json", format)
	}
	return nil
}

// SetLogOutput redirects Logger, mostly for tests.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	Logger.SetOutput(w)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}
