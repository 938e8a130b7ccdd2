package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process logger. ConfigureLogger adjusts it once at startup.
var Log = logrus.New()

// ConfigureLogger sets level and format ("text" or "json") for the shared logger.
func ConfigureLogger(level, format string, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	Log.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	Log.WithFields(logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).Info(message)
}

// LogError is LogEvent at error level with the cause attached.
func LogError(requestID, module, action string, err error) {
	Log.WithFields(logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).WithError(err).Error(action + " failed")
}
