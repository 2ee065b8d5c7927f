// Package config carries the run configuration for the notice
// extractor, populated from command line flags and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultMaxPagesBack   = 5
	DefaultMinCharsForOCR = 200
	DefaultOCRDPI         = 300
	DefaultOCRLanguages   = "rus+eng"
	DefaultLogLevel       = "info"
)

// Config holds all configuration for an extraction run.
type Config struct {
	// Input is a PDF file or a directory scanned recursively for PDFs.
	Input string
	// Output is the results file; .csv extension or the CSV flag
	// selects CSV format, anything else gets plain text lines.
	Output string
	CSV    bool

	// Page fallback tuning.
	MaxPagesBack   int
	MinCharsForOCR int

	// OCR settings.
	OCREnabled   bool
	ForceOCR     bool
	OCRDPI       int
	OCRLanguages string

	// Batch settings. Workers 0 selects one worker per CPU.
	Workers int

	// Integration with a wrapping GUI or script.
	ProgressStdout bool
	CancelFile     string
	DebugDumpDir   string

	LogLevel string
	Version  string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxPagesBack:   DefaultMaxPagesBack,
		MinCharsForOCR: DefaultMinCharsForOCR,
		OCREnabled:     true,
		OCRDPI:         DefaultOCRDPI,
		OCRLanguages:   DefaultOCRLanguages,
		LogLevel:       DefaultLogLevel,
		Version:        "1.0.0",
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.Input, &cfg.Output, &cfg.CancelFile, &cfg.DebugDumpDir} {
		if *p != "" {
			if abs, err := filepath.Abs(*p); err == nil {
				*p = abs
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("NOTICE_EXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("input", cfg.Input)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("csv", cfg.CSV)
	viper.SetDefault("max-pages-back", cfg.MaxPagesBack)
	viper.SetDefault("min-chars-for-ocr", cfg.MinCharsForOCR)
	viper.SetDefault("no-ocr", !cfg.OCREnabled)
	viper.SetDefault("force-ocr", cfg.ForceOCR)
	viper.SetDefault("dpi", cfg.OCRDPI)
	viper.SetDefault("lang", cfg.OCRLanguages)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("progress-stdout", cfg.ProgressStdout)
	viper.SetDefault("cancel-file", cfg.CancelFile)
	viper.SetDefault("debug-dump-text", cfg.DebugDumpDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("input", cfg.Input, "PDF file or directory to process")
	pflag.String("output", cfg.Output, "Results file (.csv or .txt)")
	pflag.Bool("csv", cfg.CSV, "Write CSV output regardless of extension")
	pflag.Int("max-pages-back", cfg.MaxPagesBack, "How many pages to inspect from the end (0 = all)")
	pflag.Int("min-chars-for-ocr", cfg.MinCharsForOCR, "Text-layer length below which OCR is attempted")
	pflag.Bool("no-ocr", !cfg.OCREnabled, "Disable OCR entirely")
	pflag.Bool("force-ocr", cfg.ForceOCR, "OCR every page, skipping the text layer")
	pflag.Int("dpi", cfg.OCRDPI, "OCR rendering DPI")
	pflag.String("lang", cfg.OCRLanguages, "OCR language hints, Tesseract style (e.g. rus+eng)")
	pflag.Int("workers", cfg.Workers, "Parallel documents (0 = one per CPU)")
	pflag.Bool("progress-stdout", cfg.ProgressStdout, "Emit JSON progress events on stdout")
	pflag.String("cancel-file", cfg.CancelFile, "Stop processing once this file exists")
	pflag.String("debug-dump-text", cfg.DebugDumpDir, "Directory for per-page text dumps")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"input", "output", "csv", "max-pages-back", "min-chars-for-ocr",
		"no-ocr", "force-ocr", "dpi", "lang", "workers",
		"progress-stdout", "cancel-file", "debug-dump-text", "loglevel",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExtracts tracking numbers and access codes from postal notification PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input=notice.pdf --output=results.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=/mail/inbox --output=results.csv --workers=4\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=scan.pdf --output=r.txt --force-ocr --dpi=400\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (prefix NOTICE_EXTRACT_):\n")
		fmt.Fprintf(os.Stderr, "  NOTICE_EXTRACT_INPUT, NOTICE_EXTRACT_OUTPUT, NOTICE_EXTRACT_LANG, ...\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Input = viper.GetString("input")
	cfg.Output = viper.GetString("output")
	cfg.CSV = viper.GetBool("csv")
	cfg.MaxPagesBack = viper.GetInt("max-pages-back")
	cfg.MinCharsForOCR = viper.GetInt("min-chars-for-ocr")
	cfg.OCREnabled = !viper.GetBool("no-ocr")
	cfg.ForceOCR = viper.GetBool("force-ocr")
	cfg.OCRDPI = viper.GetInt("dpi")
	cfg.OCRLanguages = viper.GetString("lang")
	cfg.Workers = viper.GetInt("workers")
	cfg.ProgressStdout = viper.GetBool("progress-stdout")
	cfg.CancelFile = viper.GetString("cancel-file")
	cfg.DebugDumpDir = viper.GetString("debug-dump-text")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input path cannot be empty")
	}
	if c.Output == "" {
		return errors.New("output path cannot be empty")
	}
	if c.MaxPagesBack < 0 {
		return errors.New("max-pages-back cannot be negative")
	}
	if c.MinCharsForOCR < 0 {
		return errors.New("min-chars-for-ocr cannot be negative")
	}
	if c.OCRDPI < 72 || c.OCRDPI > 1200 {
		return fmt.Errorf("dpi must be between 72 and 1200, got %d", c.OCRDPI)
	}
	if c.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	if c.ForceOCR && !c.OCREnabled {
		return errors.New("force-ocr cannot be combined with no-ocr")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Output: %s, CSV: %t, MaxPagesBack: %d, MinCharsForOCR: %d, "+
			"OCREnabled: %t, ForceOCR: %t, OCRDPI: %d, OCRLanguages: %s, Workers: %d}",
		c.Input, c.Output, c.CSV, c.MaxPagesBack, c.MinCharsForOCR,
		c.OCREnabled, c.ForceOCR, c.OCRDPI, c.OCRLanguages, c.Workers)
}
