package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "sigma-report.yml"
	DefaultPattern    = "*.yml"

	envInput       = "SIGMA_REPORT_INPUT"
	envOutput      = "SIGMA_REPORT_OUTPUT"
	envLogic       = "SIGMA_REPORT_LOGIC"
	envPattern     = "SIGMA_REPORT_PATTERN"
	envFormat      = "SIGMA_REPORT_FORMAT"
	envSummaryFile = "SIGMA_REPORT_SUMMARY_FILE"
)

// UsageError reports invalid command line or configuration input. It is
// raised before any rule file is read.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// Usagef builds a UsageError.
func Usagef(format string, args ...interface{}) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// IsUsageError reports whether err wraps a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// Loader merges configuration coming from files, environment variables, and CLI flags.
type Loader struct {
	ConfigPath string
}

// RuntimeConfig is the immutable run configuration handed to the export.
type RuntimeConfig struct {
	InputDir    string
	OutputFile  string
	Logic       bool
	Pattern     string
	Format      string
	SummaryFile string
}

// Overrides captures values coming from the config file, env vars or CLI flags.
type Overrides struct {
	InputDir    string
	OutputFile  string
	Logic       *bool
	Pattern     string
	Format      string
	SummaryFile string
}

// DefaultRuntimeConfig returns the baseline configuration when no overrides are provided.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Pattern: DefaultPattern,
	}
}

// Load resolves the final runtime configuration.
func (l Loader) Load(override Overrides) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg.apply(fileOv)
	}

	cfg.apply(overridesFromEnv())
	cfg.apply(override)

	return cfg, nil
}

// ValidateInput checks the settings needed to read the rule library.
func (c RuntimeConfig) ValidateInput() error {
	if c.InputDir == "" {
		return Usagef("--input is required")
	}

	if !dirExists(c.InputDir) {
		return Usagef("path to input directory (%s) of detection files is invalid", c.InputDir)
	}

	if !doublestar.ValidatePattern(c.Pattern) {
		return Usagef("invalid rule pattern %q", c.Pattern)
	}

	return nil
}

// Validate checks the full export configuration before any rule is read.
func (c RuntimeConfig) Validate() error {
	if err := c.ValidateInput(); err != nil {
		return err
	}

	if c.OutputFile == "" {
		return Usagef("--output is required")
	}

	if dirExists(c.OutputFile) {
		return Usagef("output path (%s) is a directory", c.OutputFile)
	}

	if !dirExists(filepath.Dir(c.OutputFile)) {
		return Usagef("path to directory (%s) for output file is invalid", c.OutputFile)
	}

	return nil
}

// Resolve returns a copy with input, output and summary paths made absolute.
func (c RuntimeConfig) Resolve() (RuntimeConfig, error) {
	for _, p := range []*string{&c.InputDir, &c.OutputFile, &c.SummaryFile} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return c, err
		}
		*p = abs
	}
	return c, nil
}

func (c *RuntimeConfig) apply(src Overrides) {
	if src.InputDir != "" {
		c.InputDir = src.InputDir
	}

	if src.OutputFile != "" {
		c.OutputFile = src.OutputFile
	}

	if src.Logic != nil {
		c.Logic = *src.Logic
	}

	if src.Pattern != "" {
		c.Pattern = src.Pattern
	}

	if src.Format != "" {
		c.Format = strings.ToLower(src.Format)
	}

	if src.SummaryFile != "" {
		c.SummaryFile = src.SummaryFile
	}
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Overrides{}, err
	}

	type rawConfig struct {
		Input       string `yaml:"input"`
		Output      string `yaml:"output"`
		Logic       *bool  `yaml:"logic"`
		Pattern     string `yaml:"pattern"`
		Format      string `yaml:"format"`
		SummaryFile string `yaml:"summaryFile"`
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, err
	}

	return Overrides{
		InputDir:    raw.Input,
		OutputFile:  raw.Output,
		Logic:       raw.Logic,
		Pattern:     raw.Pattern,
		Format:      raw.Format,
		SummaryFile: raw.SummaryFile,
	}, nil
}

func overridesFromEnv() Overrides {
	ov := Overrides{}

	if value := os.Getenv(envInput); value != "" {
		ov.InputDir = value
	}

	if value := os.Getenv(envOutput); value != "" {
		ov.OutputFile = value
	}

	if value := os.Getenv(envLogic); value != "" {
		parsed := ParseBool(value)
		ov.Logic = &parsed
	}

	if value := os.Getenv(envPattern); value != "" {
		ov.Pattern = value
	}

	if value := os.Getenv(envFormat); value != "" {
		ov.Format = strings.TrimSpace(value)
	}

	if value := os.Getenv(envSummaryFile); value != "" {
		ov.SummaryFile = value
	}

	return ov
}

// ParseBool accepts "true", "1" and "yes" (any case) as true.
func ParseBool(value string) bool {
	v := strings.TrimSpace(value)
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || v == "1"
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
