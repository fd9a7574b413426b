// Package config provides configuration management for marklet builds using
// Viper for flexible configuration loading from files, environment variables,
// and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with MARKLET_ prefix, validation, and security checks. It manages
// component scanning paths, build pipeline settings, and the style property
// allow-list.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/marklet/internal/validation"
)

// MaxWorkers caps the configurable compile concurrency.
const MaxWorkers = 64

type Config struct {
	Components ComponentsConfig `mapstructure:"components" yaml:"components" json:"components"`
	Build      BuildConfig      `mapstructure:"build" yaml:"build" json:"build"`
	Style      StyleConfig      `mapstructure:"style" yaml:"style" json:"style"`
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	// TargetComponents holds component names given as CLI arguments,
	// never read from the config file.
	TargetComponents []string `mapstructure:"-" yaml:"-" json:"-"`
}

type ComponentsConfig struct {
	ScanPaths       []string `mapstructure:"scan_paths" yaml:"scan_paths" json:"scan_paths"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
}

type BuildConfig struct {
	Output      string `mapstructure:"output" yaml:"output" json:"output"`
	Minify      bool   `mapstructure:"minify" yaml:"minify" json:"minify"`
	Workers     int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	Compress    bool   `mapstructure:"compress" yaml:"compress" json:"compress"`
	Loader      string `mapstructure:"loader" yaml:"loader" json:"loader"`
	MaxURIBytes int    `mapstructure:"max_uri_bytes" yaml:"max_uri_bytes" json:"max_uri_bytes"`
}

type StyleConfig struct {
	AllowProperties []string `mapstructure:"allow_properties" yaml:"allow_properties" json:"allow_properties"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Apply defaults for scan paths only if not explicitly set
	if !viper.IsSet("components.scan_paths") && len(config.Components.ScanPaths) == 0 {
		config.Components.ScanPaths = []string{"./components"}
	}

	// Handle scan_paths set via viper (workaround for viper slice handling)
	if viper.IsSet("components.scan_paths") && len(config.Components.ScanPaths) == 0 {
		scanPaths := viper.GetStringSlice("components.scan_paths")
		if len(scanPaths) > 0 {
			config.Components.ScanPaths = scanPaths
		}
	}

	// An explicitly empty exclude list stays empty
	if !viper.IsSet("components.exclude_patterns") && len(config.Components.ExcludePatterns) == 0 {
		config.Components.ExcludePatterns = []string{"*_draft.html", "*.bak"}
	}

	// Apply default values for BuildConfig if not set
	if config.Build.Output == "" {
		config.Build.Output = "dist"
	}

	// Minification is opt-out, so the zero value cannot be trusted
	if !viper.IsSet("build.minify") {
		config.Build.Minify = true
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	// Validate configuration values
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// EffectiveWorkers resolves the configured worker count: 0 means one worker
// per CPU, capped at 8.
func (c *Config) EffectiveWorkers() int {
	if c.Build.Workers > 0 {
		return c.Build.Workers
	}
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return workers
}

// Default returns the configuration a project gets with an empty config file.
func Default() *Config {
	return &Config{
		Components: ComponentsConfig{
			ScanPaths:       []string{"./components"},
			ExcludePatterns: []string{"*_draft.html", "*.bak"},
		},
		Build: BuildConfig{
			Output: "dist",
			Minify: true,
		},
		LogLevel: "info",
	}
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	if err := validateComponentsConfig(&config.Components); err != nil {
		return fmt.Errorf("components config: %w", err)
	}

	if err := validateLogLevel(config.LogLevel); err != nil {
		return err
	}

	return nil
}

// validateBuildConfig validates build configuration values
func validateBuildConfig(config *BuildConfig) error {
	if config.Workers < 0 || config.Workers > MaxWorkers {
		return fmt.Errorf("workers %d is not in valid range 0-%d", config.Workers, MaxWorkers)
	}

	if config.MaxURIBytes < 0 {
		return fmt.Errorf("max_uri_bytes must not be negative, got %d", config.MaxURIBytes)
	}

	if config.Output != "" {
		if err := validation.ValidateOutputPath(config.Output); err != nil {
			return fmt.Errorf("invalid output path '%s': %w", config.Output, err)
		}
	}

	// Loader template path, when set, follows the same rules as other paths
	if config.Loader != "" {
		if err := validation.ValidatePath(config.Loader); err != nil {
			return fmt.Errorf("invalid loader path '%s': %w", config.Loader, err)
		}
		if filepath.IsAbs(config.Loader) {
			return fmt.Errorf("loader should be relative path: %s", config.Loader)
		}
	}

	return nil
}

// validateComponentsConfig validates components configuration values
func validateComponentsConfig(config *ComponentsConfig) error {
	for _, path := range config.ScanPaths {
		if err := validation.ValidateScanPath(path); err != nil {
			return fmt.Errorf("invalid scan path '%s': %w", path, err)
		}
	}

	for _, pattern := range config.ExcludePatterns {
		if err := validation.ValidateExcludePattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	return nil
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", level)
	}
}
