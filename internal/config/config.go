package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the root configuration for timelog, stored in ~/.timelog/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// File is the path of the YAML document holding projects and entries.
	// Relative paths are resolved against the working directory.
	File string `json:"file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// ReportFormat is the default output of the report command: md, csv or json.
	ReportFormat string `json:"report_format"`
}

const (
	DefaultFile         = ".timelog.yaml"
	DefaultLogLevel     = "warn"
	DefaultReportFormat = "md"

	// EnvFile overrides Config.File.
	EnvFile = "TIMELOG_FILE"
	// EnvLogLevel overrides Config.LogLevel.
	EnvLogLevel = "TIMELOG_LOG_LEVEL"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		File:         DefaultFile,
		LogLevel:     DefaultLogLevel,
		ReportFormat: DefaultReportFormat,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// timelog configuration – ~/.timelog/config.json
//
// All settings are optional. Environment variables TIMELOG_FILE and
// TIMELOG_LOG_LEVEL (also read from a .env file in the working directory)
// take precedence over this file; the --file flag takes precedence over both.
{
  // Path of the timelog document. Relative paths are resolved against the
  // directory timelog is run from, so every directory can keep its own log.
  "file": ".timelog.yaml",

  // Diagnostic log level written to stderr: debug, info, warn, error.
  "log_level": "warn",

  // Default output format of "timelog report": md, csv or json.
  "report_format": "md"
}
`

// FilePath returns the path to ~/.timelog/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timelog", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.timelog/config.json, creating it with annotated defaults on
// first run, and applies environment overrides.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return applyEnv(defaultConfig()), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path. A missing file is created from
// the annotated template. Variables from a .env file in the working
// directory are loaded before environment overrides are applied; variables
// already set in the process environment win.
func LoadFrom(path string) (Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return applyEnv(defaultConfig()), nil
	}
	if err != nil {
		return applyEnv(defaultConfig()), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return applyEnv(defaultConfig()), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.File == "" {
		cfg.File = DefaultFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = DefaultReportFormat
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvFile)); v != "" {
		cfg.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
