// Package config provides application configuration management with support for
// command-line flags, environment variables, .env files and an optional YAML file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Identity backends.
const (
	IDBackendSQLite = "sqlite"
	IDBackendBadger = "badger"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Logger   LoggerConfig   `koanf:"logger"`
	Metadata MetadataConfig `koanf:"metadata"`
	Library  LibraryConfig  `koanf:"library"`
	Identity IdentityConfig `koanf:"identity"`
	Scanner  ScannerConfig  `koanf:"scanner"`
	Probe    ProbeConfig    `koanf:"probe"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `koanf:"environment"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `koanf:"level"`
}

// MetadataConfig holds the location of the catalog database and art files.
type MetadataConfig struct {
	BasePath string `koanf:"base_path"`
}

// DatabasePath returns the path of the SQLite catalog.
func (m MetadataConfig) DatabasePath() string {
	return filepath.Join(m.BasePath, "hearth.db")
}

// IdentityPath returns the directory of the badger identity sequence.
func (m MetadataConfig) IdentityPath() string {
	return filepath.Join(m.BasePath, "ids")
}

// LibraryConfig holds media library configuration.
type LibraryConfig struct {
	// Path can be empty; nothing is scanned until it is set.
	Path string `koanf:"path"`
}

// IdentityConfig selects the identity allocator backend.
type IdentityConfig struct {
	Backend string `koanf:"backend"` // sqlite or badger
}

// ScannerConfig holds library scanning configuration.
type ScannerConfig struct {
	Workers  int           `koanf:"workers"`  // concurrent files (default: 4)
	Rate     float64       `koanf:"rate"`     // files per second, 0 = unlimited
	Watch    bool          `koanf:"watch"`    // keep watching the library after the initial scan
	Debounce time.Duration `koanf:"debounce"` // quiet period before a changed file is re-indexed
}

// ProbeConfig holds metadata extraction configuration.
type ProbeConfig struct {
	// FFprobePath overrides auto-detection of the ffprobe binary.
	FFprobePath string `koanf:"ffprobe_path"`
}

// MetricsConfig holds Prometheus exposition configuration.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // empty disables the metrics listener
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"ENV":           "app.environment",
	"LOG_LEVEL":     "logger.level",
	"METADATA_PATH": "metadata.base_path",
	"LIBRARY_PATH":  "library.path",
	"ID_BACKEND":    "identity.backend",
	"SCAN_WORKERS":  "scanner.workers",
	"SCAN_RATE":     "scanner.rate",
	"SCAN_DEBOUNCE": "scanner.debounce",
	"WATCH":         "scanner.watch",
	"FFPROBE_PATH":  "probe.ffprobe_path",
	"METRICS_ADDR":  "metrics.addr",
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"env":           "app.environment",
	"log-level":     "logger.level",
	"metadata-path": "metadata.base_path",
	"library-path":  "library.path",
	"id-backend":    "identity.backend",
	"scan-workers":  "scanner.workers",
	"scan-rate":     "scanner.rate",
	"scan-debounce": "scanner.debounce",
	"watch":         "scanner.watch",
	"ffprobe-path":  "probe.ffprobe_path",
	"metrics-addr":  "metrics.addr",
}

func defaultConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Identity: IdentityConfig{Backend: IDBackendSQLite},
		Scanner: ScannerConfig{
			Workers:  4,
			Debounce: 500 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file (-config or CONFIG_PATH).
// 5. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit command-line arguments.
func Load(args []string) (*Config, error) {
	fset := flag.NewFlagSet("hearth", flag.ContinueOnError)
	fset.String("env", "", "Environment (development, staging, production)")
	fset.String("log-level", "", "Log level (debug, info, warn, error)")
	fset.String("metadata-path", "", "Base path for the catalog database and art")
	fset.String("library-path", "", "Path to the media library")
	fset.String("id-backend", "", "Identity allocator backend (sqlite, badger)")
	fset.Int("scan-workers", 0, "Files indexed concurrently (default: 4)")
	fset.Float64("scan-rate", 0, "Files indexed per second, 0 for unlimited")
	fset.Duration("scan-debounce", 0, "Quiet period before re-indexing a changed file (default: 500ms)")
	fset.Bool("watch", false, "Watch the library for changes after the initial scan")
	fset.String("ffprobe-path", "", "Path to ffprobe binary (default: auto-detect)")
	fset.String("metrics-addr", "", "Address for the Prometheus metrics listener")
	envFile := fset.String("env-file", ".env", "Path to .env file")
	configFile := fset.String("config", "", "Path to YAML config file")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is not an error.
	if err := loadEnvFile(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := getConfigValue(*configFile, "CONFIG_PATH", ""); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var flagErr error
	fset.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && flagErr == nil {
			flagErr = k.Set(key, f.Value.String())
		}
	})
	if flagErr != nil {
		return nil, fmt.Errorf("failed to apply flags: %w", flagErr)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Expand and validate metadata path.
	if err := cfg.expandMetadataPath(); err != nil {
		return nil, fmt.Errorf("invalid metadata path: %w", err)
	}

	// Expand and validate library path.
	if err := cfg.expandLibraryPath(); err != nil {
		return nil, fmt.Errorf("invalid library path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform keeps known, non-empty environment variables.
func envTransform(key, value string) (string, any) {
	path, ok := envKeys[key]
	if !ok || value == "" {
		return "", nil
	}
	return path, value
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Metadata.BasePath == "" {
		return errors.New("metadata base path cannot be empty after expansion")
	}

	switch c.Identity.Backend {
	case IDBackendSQLite, IDBackendBadger:
	default:
		return fmt.Errorf("invalid id backend: %s (must be sqlite or badger)", c.Identity.Backend)
	}

	if c.Scanner.Workers < 1 {
		return fmt.Errorf("scan workers must be at least 1, got %d", c.Scanner.Workers)
	}
	if c.Scanner.Rate < 0 {
		return fmt.Errorf("scan rate cannot be negative, got %g", c.Scanner.Rate)
	}
	if c.Scanner.Debounce < 0 {
		return fmt.Errorf("scan debounce cannot be negative, got %s", c.Scanner.Debounce)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandMetadataPath expands ~ and makes the path absolute.
// Defaults to ~/Hearth/metadata.
func (c *Config) expandMetadataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Hearth", "metadata")

	expanded, err := expandPath(c.Metadata.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Metadata.BasePath = expanded
	return nil
}

// expandLibraryPath expands ~ and makes the path absolute.
// If empty, leaves it empty.
func (c *Config) expandLibraryPath() error {
	if c.Library.Path == "" {
		return nil
	}

	expanded, err := expandPath(c.Library.Path, "")
	if err != nil {
		return err
	}
	c.Library.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	f, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
