package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/snippetcheck/internal/config"
	"github.com/harrison/snippetcheck/internal/expect"
	"github.com/harrison/snippetcheck/internal/fileutil"
	"github.com/harrison/snippetcheck/internal/logger"
	"github.com/harrison/snippetcheck/internal/models"
	"github.com/harrison/snippetcheck/internal/parser"
	"github.com/harrison/snippetcheck/internal/report"
	"github.com/harrison/snippetcheck/internal/runner"
	"github.com/harrison/snippetcheck/internal/runner/ecmascript"
	"github.com/harrison/snippetcheck/internal/runner/goscript"
	"github.com/harrison/snippetcheck/internal/verifier"
)

// NewVerifyCommand creates the verify command
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <document-or-directory>...",
		Short: "Execute code blocks and compare their output against the document",
		Long: `Verify the code blocks in one or more tutorial documents.

Each document is parsed for code blocks, every block carrying a trailing
expected-output comment is executed with the runner registered for its
language tag, and the captured output is compared line by line against
the expectation. Blocks without an expectation are illustrative and are
never executed. Directories are scanned recursively for AsciiDoc and
Markdown files.

Configuration is loaded from .snippetcheck/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Verify a single tutorial
  snippetcheck verify docs/getting-started.adoc

  # Verify every document under docs/
  snippetcheck verify docs/

  # Only run blocks tagged "go", four at a time
  snippetcheck verify --only go --max-concurrency 4 docs/

  # Other options
  snippetcheck verify --timeout 30s tutorial.md
  snippetcheck verify --config custom.yaml tutorial.md
  snippetcheck verify --no-color tutorial.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: verifyCommand,
	}

	// Add flags
	cmd.Flags().String("config", "", "Path to config file (default: .snippetcheck/config.yaml)")
	cmd.Flags().StringSlice("only", nil, "Restrict execution to blocks with these language tags")
	cmd.Flags().String("timeout", "", "Maximum execution time per block (e.g., 10s, 1m)")
	cmd.Flags().Int("max-concurrency", -1, "Number of blocks executed in parallel (-1 = use config)")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().Bool("verbose", false, "Show per-block progress (same as --log-level debug)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")

	return cmd
}

// verifyCommand implements the verify command logic
func verifyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Build flag pointers for merge (only values the user actually set)
	var timeoutPtr *time.Duration
	if cmd.Flags().Changed("timeout") {
		timeoutStr, _ := cmd.Flags().GetString("timeout")
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid timeout format %q: %w", timeoutStr, err)
		}
		timeoutPtr = &timeout
	}

	var maxConcurrencyPtr *int
	if cmd.Flags().Changed("max-concurrency") {
		maxConcurrency, _ := cmd.Flags().GetInt("max-concurrency")
		maxConcurrencyPtr = &maxConcurrency
	}

	var logDirPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDir, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &logDir
	}

	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &logLevel
	} else if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		debug := "debug"
		logLevelPtr = &debug
	}

	var onlyPtr *[]string
	if cmd.Flags().Changed("only") {
		only, _ := cmd.Flags().GetStringSlice("only")
		onlyPtr = &only
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(timeoutPtr, maxConcurrencyPtr, logDirPtr, logLevelPtr, onlyPtr)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	documents, err := discoverAll(args)
	if err != nil {
		return err
	}

	// Parse everything before executing anything: a malformed document is
	// fatal to the whole invocation, so it must surface before any block
	// from any document runs.
	parsed := make([][]models.Block, len(documents))
	for i, document := range documents {
		blocks, err := parser.ParseFile(document)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", document, err)
		}
		parsed[i] = blocks
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	// Console progress goes to stderr so stdout stays a clean report.
	consoleLog := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()
	multiLog := logger.NewMultiLogger(consoleLog, fileLog)

	engine := verifier.New(registry, expect.New(cfg.CommentPrefixes), multiLog, verifier.Options{
		Timeout:        cfg.Timeout,
		MaxConcurrency: cfg.MaxConcurrency,
		Only:           cfg.Only,
	})

	noColor, _ := cmd.Flags().GetBool("no-color")
	useColor := report.DetectColor(cmd.OutOrStdout()) && !noColor
	emitter := report.NewEmitter(cmd.OutOrStdout(), useColor)

	// Ctrl-C cancels in-flight blocks; completed verdicts are still
	// reported, with the partial marker set.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := 0
	partial := false
	for i, document := range documents {
		if len(documents) > 1 {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", document)
		}

		rep := engine.Verify(ctx, document, parsed[i])
		if err := emitter.Emit(rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		failed += rep.Failed
		partial = partial || rep.Partial
		if rep.Partial {
			break
		}
	}

	if failed > 0 || partial {
		return &verificationError{failed: failed, partial: partial}
	}
	return nil
}

// loadConfig loads configuration from --config or the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// discoverAll resolves path arguments into the sorted list of documents.
func discoverAll(args []string) ([]string, error) {
	var documents []string
	seen := make(map[string]bool)
	for _, arg := range args {
		result, err := fileutil.DiscoverDocuments(arg)
		if err != nil {
			return nil, err
		}
		for _, file := range result.Files {
			if !seen[file] {
				seen[file] = true
				documents = append(documents, file)
			}
		}
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("no documents found under %v", args)
	}
	return documents, nil
}

// buildRegistry registers the built-in runners plus any external
// interpreters named in the configuration. Config entries override
// built-ins for the same tag.
func buildRegistry(cfg *config.Config) (*runner.Registry, error) {
	registry := runner.NewRegistry()
	registry.Register("go", goscript.New())
	registry.Register("golang", goscript.New())
	js := ecmascript.New()
	registry.Register("js", js)
	registry.Register("javascript", js)

	for tag, argv := range cfg.Runners {
		execRunner, err := runner.NewExecRunner(argv)
		if err != nil {
			return nil, fmt.Errorf("runner %q: %w", tag, err)
		}
		registry.Register(tag, execRunner)
	}
	return registry, nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
