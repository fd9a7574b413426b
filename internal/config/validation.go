package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/conneroisu/marklet/internal/validation"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("❌ Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("⚠️  Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

// ValidateConfigWithDetails performs comprehensive validation with detailed
// feedback, including filesystem checks the fast Load() validation skips.
// Used by the doctor command.
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateBuildConfigDetails(&config.Build, result)
	validateComponentsConfigDetails(&config.Components, result)
	validateStyleConfigDetails(&config.Style, result)
	validateLogLevelDetails(config.LogLevel, result)

	result.Valid = !result.HasErrors()

	return result
}

func validateBuildConfigDetails(config *BuildConfig, result *ValidationResult) {
	if config.Workers < 0 || config.Workers > MaxWorkers {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "build.workers",
			Value:   config.Workers,
			Message: fmt.Sprintf("workers %d is not in valid range 0-%d", config.Workers, MaxWorkers),
			Suggestions: []string{
				"Use 0 to size the pool from the CPU count",
				fmt.Sprintf("Use a value between 1 and %d", MaxWorkers),
			},
		})
	} else if config.Workers > runtime.NumCPU()*2 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "build.workers",
			Value:   config.Workers,
			Message: fmt.Sprintf("workers %d exceeds twice the CPU count (%d), extra workers only add contention", config.Workers, runtime.NumCPU()),
			Suggestions: []string{
				"Use 0 to size the pool from the CPU count",
			},
		})
	}

	if config.MaxURIBytes < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "build.max_uri_bytes",
			Value:   config.MaxURIBytes,
			Message: "budget must not be negative",
			Suggestions: []string{
				"Use 0 for no budget",
				"Browsers commonly accept URIs up to ~64KB; 65536 is a practical ceiling",
			},
		})
	} else if config.MaxURIBytes > 0 && config.MaxURIBytes < 1024 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "build.max_uri_bytes",
			Value:   config.MaxURIBytes,
			Message: fmt.Sprintf("budget of %d bytes is smaller than the loader alone, builds will always fail", config.MaxURIBytes),
			Suggestions: []string{
				"Raise the budget or use 0 for no budget",
			},
		})
	}

	if config.Output != "" {
		if err := validation.ValidateOutputPath(config.Output); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "build.output",
				Value:   config.Output,
				Message: err.Error(),
				Suggestions: []string{
					"Use a relative path from the project root",
					"Avoid parent directory references (..)",
				},
			})
		}
	}

	if config.Loader != "" {
		if err := validation.ValidatePath(config.Loader); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "build.loader",
				Value:   config.Loader,
				Message: err.Error(),
				Suggestions: []string{
					"Point build.loader at a template file inside the project",
				},
			})
		} else if !pathExists(config.Loader) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "build.loader",
				Value:   config.Loader,
				Message: "loader template does not exist",
				Suggestions: []string{
					"Create the template or clear build.loader to use the builtin loader",
					"Check for typos in the path",
				},
			})
		}
	}
}

func validateComponentsConfigDetails(config *ComponentsConfig, result *ValidationResult) {
	if len(config.ScanPaths) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "components.scan_paths",
			Value:   config.ScanPaths,
			Message: "no scan paths specified - no components will be found",
			Suggestions: []string{
				"Add './components' to scan for component files",
			},
		})
	}

	for i, path := range config.ScanPaths {
		if err := validation.ValidateScanPath(path); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("components.scan_paths[%d]", i),
				Value:   path,
				Message: err.Error(),
				Suggestions: []string{
					"Use relative paths from project root",
					"Avoid parent directory references (..)",
				},
			})
			continue
		}

		// Check if path exists
		if !pathExists(path) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("components.scan_paths[%d]", i),
				Value:   path,
				Message: "directory does not exist",
				Suggestions: []string{
					"Create the directory: mkdir -p " + path,
					"Remove the path if not needed",
					"Check for typos in the path",
				},
			})
		}
	}

	for i, pattern := range config.ExcludePatterns {
		if err := validation.ValidateExcludePattern(pattern); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("components.exclude_patterns[%d]", i),
				Value:   pattern,
				Message: err.Error(),
				Suggestions: []string{
					"Use glob patterns like '*_draft.html'",
				},
			})
		}
	}
}

func validateStyleConfigDetails(config *StyleConfig, result *ValidationResult) {
	for i, property := range config.AllowProperties {
		trimmed := strings.TrimSpace(strings.ToLower(property))
		if trimmed == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("style.allow_properties[%d]", i),
				Value:   property,
				Message: "empty property name",
				Suggestions: []string{
					"Remove the empty entry",
				},
			})
			continue
		}

		if validation.IsAllowedProperty(trimmed) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("style.allow_properties[%d]", i),
				Value:   property,
				Message: "property is already on the builtin allow-list",
				Suggestions: []string{
					"Remove the redundant entry",
				},
			})
		}
	}
}

func validateLogLevelDetails(level string, result *ValidationResult) {
	if err := validateLogLevel(level); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   level,
			Message: err.Error(),
			Suggestions: []string{
				"Use one of: debug, info, warn, error",
			},
		})
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
