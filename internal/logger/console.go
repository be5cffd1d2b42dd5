// Package logger provides logging implementations for verification runs.
//
// Loggers receive run progress at the document, block, and summary levels.
// Implementations are thread-safe: blocks may execute concurrently and
// report their results from multiple goroutines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/snippetcheck/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with timestamps and thread
// safety. All output is prefixed with [HH:MM:SS] timestamps. It supports
// log level filtering, and color output is automatically enabled for
// terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided
// io.Writer. If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive);
// empty or invalid levels default to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// The color library's NoColor flag already folds in TTY
		// detection and the NO_COLOR env var.
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates
// it. Returns "info" for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		cl.writer.Write([]byte(fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)))
		return
	}
	cl.writer.Write([]byte(fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)))
}

func colorLevel(level string) string {
	switch strings.ToUpper(level) {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogRunStart logs the start of a document verification at INFO level.
// Format: "[HH:MM:SS] Verifying <source>: <count> blocks"
func (cl *ConsoleLogger) LogRunStart(source string, totalBlocks int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	name := source
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(source)
	}
	fmt.Fprintf(cl.writer, "[%s] Verifying %s: %d blocks\n", ts, name, totalBlocks)
}

// LogBlockResult logs one block's verdict at DEBUG level.
// Format: "[HH:MM:SS] <label>: <verdict>"
func (cl *ConsoleLogger) LogBlockResult(entry models.ReportEntry) error {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return nil
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	verdict := models.VerdictSkip
	if entry.Result != nil {
		verdict = entry.Result.Verdict
	}

	verdictText := string(verdict)
	if cl.colorOutput {
		switch verdict {
		case models.VerdictPass:
			verdictText = color.New(color.FgGreen).Sprint(verdictText)
		case models.VerdictFail:
			verdictText = color.New(color.FgRed).Sprint(verdictText)
		case models.VerdictSkip:
			verdictText = color.New(color.FgYellow).Sprint(verdictText)
		}
	}

	_, err := fmt.Fprintf(cl.writer, "[%s] %s: %s\n", timestamp(), entry.Block.Label(), verdictText)
	return err
}

// LogSummary logs the verification summary at INFO level.
func (cl *ConsoleLogger) LogSummary(report *models.Report) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var output string
	if cl.colorOutput {
		header := color.New(color.Bold).Sprint("=== Verification Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] Total blocks: %d (runnable: %d)\n", ts, report.TotalBlocks, report.RunnableBlocks)
		output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgGreen).Sprintf("Passed: %d", report.Passed))
		if report.Failed > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgRed).Sprintf("Failed: %d", report.Failed))
		} else {
			output += fmt.Sprintf("[%s] Failed: %d\n", ts, report.Failed)
		}
		output += fmt.Sprintf("[%s] Skipped: %d\n", ts, report.Skipped)
		output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(report.Duration))
	} else {
		output = fmt.Sprintf("[%s] === Verification Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Total blocks: %d (runnable: %d)\n", ts, report.TotalBlocks, report.RunnableBlocks)
		output += fmt.Sprintf("[%s] Passed: %d\n", ts, report.Passed)
		output += fmt.Sprintf("[%s] Failed: %d\n", ts, report.Failed)
		output += fmt.Sprintf("[%s] Skipped: %d\n", ts, report.Skipped)
		output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(report.Duration))
	}

	if report.Partial {
		output += fmt.Sprintf("[%s] Run was cancelled; report covers processed blocks only\n", ts)
	}

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogRunStart is a no-op implementation.
func (n *NoOpLogger) LogRunStart(source string, totalBlocks int) {}

// LogBlockResult is a no-op implementation.
func (n *NoOpLogger) LogBlockResult(entry models.ReportEntry) error { return nil }

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(report *models.Report) {}
