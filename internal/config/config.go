// Package config loads snippetcheck configuration from YAML files and
// merges it with CLI flags. Flags take precedence over the file, the file
// over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents snippetcheck configuration options.
type Config struct {
	// Timeout is the maximum execution time per block.
	Timeout time.Duration `yaml:"timeout"`

	// MaxConcurrency is the number of blocks executed in parallel.
	// 1 means sequential execution.
	MaxConcurrency int `yaml:"max_concurrency"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written.
	LogDir string `yaml:"log_dir"`

	// Only restricts verification to these language tags when non-empty.
	Only []string `yaml:"only"`

	// CommentPrefixes overrides the expected-output comment prefix per
	// language tag, e.g. {"demo": ";;"}.
	CommentPrefixes map[string]string `yaml:"comment_prefixes"`

	// Runners maps language tags to external interpreter argv
	// templates; {code} is replaced with the block's code, or the code
	// is piped to stdin when no placeholder is present.
	//
	//	runners:
	//	  python: ["python3", "-c", "{code}"]
	//	  bb: ["bb", "-"]
	Runners map[string][]string `yaml:"runners"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		MaxConcurrency: 1,
		LogLevel:       "info",
		LogDir:         filepath.Join(".snippetcheck", "logs"),
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations arrive as strings ("10s", "1m30s"); parse via an
	// intermediate struct.
	type yamlConfig struct {
		Timeout         string              `yaml:"timeout"`
		MaxConcurrency  int                 `yaml:"max_concurrency"`
		LogLevel        string              `yaml:"log_level"`
		LogDir          string              `yaml:"log_dir"`
		Only            []string            `yaml:"only"`
		CommentPrefixes map[string]string   `yaml:"comment_prefixes"`
		Runners         map[string][]string `yaml:"runners"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.MaxConcurrency != 0 {
		cfg.MaxConcurrency = yamlCfg.MaxConcurrency
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if len(yamlCfg.Only) > 0 {
		cfg.Only = yamlCfg.Only
	}
	if len(yamlCfg.CommentPrefixes) > 0 {
		cfg.CommentPrefixes = yamlCfg.CommentPrefixes
	}
	if len(yamlCfg.Runners) > 0 {
		cfg.Runners = yamlCfg.Runners
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .snippetcheck/config.yaml in
// the specified directory. If the directory or file doesn't exist, returns
// default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".snippetcheck", "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration. Non-nil flag
// values override configuration values, letting flags take precedence
// over config file settings.
func (c *Config) MergeWithFlags(timeout *time.Duration, maxConcurrency *int, logDir *string, logLevel *string, only *[]string) {
	if timeout != nil {
		c.Timeout = *timeout
	}
	if maxConcurrency != nil {
		c.MaxConcurrency = *maxConcurrency
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if only != nil {
		c.Only = *only
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be >= 1, got %d", c.MaxConcurrency)
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	for tag, argv := range c.Runners {
		if len(argv) == 0 {
			return fmt.Errorf("runner %q has an empty argv template", tag)
		}
	}
	return nil
}
