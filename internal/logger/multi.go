package logger

import (
	"github.com/harrison/snippetcheck/internal/models"
	"github.com/harrison/snippetcheck/internal/verifier"
)

// MultiLogger fans events out to several loggers, typically a console
// logger for the user and a file logger for the record.
type MultiLogger struct {
	loggers []verifier.Logger
}

// NewMultiLogger creates a MultiLogger delegating to the given loggers.
func NewMultiLogger(loggers ...verifier.Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// LogRunStart forwards to all loggers.
func (ml *MultiLogger) LogRunStart(source string, totalBlocks int) {
	for _, l := range ml.loggers {
		l.LogRunStart(source, totalBlocks)
	}
}

// LogBlockResult forwards to all loggers, returning the last error.
func (ml *MultiLogger) LogBlockResult(entry models.ReportEntry) error {
	var lastErr error
	for _, l := range ml.loggers {
		if err := l.LogBlockResult(entry); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// LogSummary forwards to all loggers.
func (ml *MultiLogger) LogSummary(report *models.Report) {
	for _, l := range ml.loggers {
		l.LogSummary(report)
	}
}
