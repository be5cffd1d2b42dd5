package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/snippetcheck/internal/models"
)

// FileLogger logs verification events to files in a log directory.
// It creates one run-<id>.log per invocation and maintains a latest.log
// symlink pointing to the most recent run. It is thread-safe.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing into logDir, creating the
// directory if needed. Each run gets a unique file name so concurrent
// invocations in the same directory never collide.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runID := uuid.NewString()[:8]
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s-%s.log", time.Now().Format("20060102-150405"), runID))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Best-effort latest.log symlink; some filesystems refuse symlinks
	// and the run log itself is what matters.
	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		os.Remove(symlinkPath)
	}
	_ = os.Symlink(filepath.Base(runFile), symlinkPath)

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.write(fmt.Sprintf("=== snippetcheck run log ===\nStarted at: %s\n\n", time.Now().Format(time.RFC3339)))
	return fl, nil
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

func (fl *FileLogger) write(s string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return
	}
	fl.runLog.WriteString(s)
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogRunStart records the document being verified.
func (fl *FileLogger) LogRunStart(source string, totalBlocks int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.write(fmt.Sprintf("[%s] Verifying %s: %d blocks\n", timestamp(), source, totalBlocks))
}

// LogBlockResult records one block's verdict with its detail lines.
func (fl *FileLogger) LogBlockResult(entry models.ReportEntry) error {
	if !fl.shouldLog("debug") {
		return nil
	}

	verdict := models.VerdictSkip
	if entry.Result != nil {
		verdict = entry.Result.Verdict
	}

	line := fmt.Sprintf("[%s] %s (%s:%d): %s",
		timestamp(), entry.Block.Label(), filepath.Base(entry.Block.SourceFile), entry.Block.StartLine, verdict)
	if entry.Result != nil && entry.Result.Err != "" {
		line += fmt.Sprintf(" (%s)", entry.Result.Err)
	}
	fl.write(line + "\n")
	return nil
}

// LogSummary records the final counts.
func (fl *FileLogger) LogSummary(report *models.Report) {
	if !fl.shouldLog("info") {
		return
	}
	fl.write(fmt.Sprintf("\n[%s] Summary: %d blocks, %d runnable, %d passed, %d failed, %d skipped (%s)\n",
		timestamp(), report.TotalBlocks, report.RunnableBlocks,
		report.Passed, report.Failed, report.Skipped, formatDuration(report.Duration)))
	if report.Partial {
		fl.write(fmt.Sprintf("[%s] Run was cancelled before completion\n", timestamp()))
	}
}
