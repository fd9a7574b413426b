package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/registry"
	"github.com/conneroisu/marklet/internal/scanner"
	"github.com/conneroisu/marklet/internal/types"
	"github.com/conneroisu/marklet/internal/validation"
)

var (
	validateFormat string
	validatePaths  []string
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:     "validate [component...]",
	Aliases: []string{"v"},
	Short:   "Validate component sources without building",
	Long: `Validate component source files and report every finding, not just the
first. Checks cover:

- File parseability (metadata comment, section structure)
- Component names and duplicate detection
- Style sections against the CSS property allow-list
- Script sections for constructs that would break the inline loader
- Template sections for smuggled script/style/link elements

Examples:
  marklet validate                    # Validate all components
  marklet validate clock speed-dial   # Validate specific components
  marklet validate --format json      # Output results as JSON`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().
		StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
	validateCmd.Flags().
		StringSliceVar(&validatePaths, "path", nil, "Additional paths to scan for components")
}

// ValidationResult reports the findings for a single component source.
type ValidationResult struct {
	Component string   `json:"component"`
	File      string   `json:"file"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// ValidationSummary aggregates results across the validated set.
type ValidationSummary struct {
	Total   int                `json:"total"`
	Valid   int                `json:"valid"`
	Invalid int                `json:"invalid"`
	Results []ValidationResult `json:"results"`
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	componentRegistry := registry.NewComponentRegistry()
	componentScanner := scanner.NewComponentScanner(componentRegistry)
	componentScanner.SetExcludePatterns(cfg.Components.ExcludePatterns)
	defer func() {
		if closeErr := componentScanner.Close(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "Warning: error shutting down scanner:", closeErr)
		}
	}()

	scanPaths := cfg.Components.ScanPaths
	if len(validatePaths) > 0 {
		scanPaths = append(scanPaths, validatePaths...)
	}

	// Scan file by file so one broken source cannot mask another.
	collector := errors.NewErrorCollector()
	for _, path := range scanPaths {
		files, err := componentScanner.DiscoverFiles(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to scan directory %s: %v\n", path, err)
			continue
		}

		for _, file := range files {
			if err := componentScanner.ScanFile(file); err != nil {
				collector.Add(componentErrorFrom(err, file))
			}
		}
	}

	allComponents := componentRegistry.GetAll()
	if len(allComponents) == 0 && !collector.HasErrors() {
		fmt.Println("No components found to validate")
		return nil
	}

	componentsToValidate := allComponents
	if len(args) > 0 {
		componentsToValidate = filterComponents(allComponents, args)
	}

	summary := ValidationSummary{
		Results: make([]ValidationResult, 0, len(componentsToValidate)),
	}

	// Files that never parsed have no registry entry, report them first.
	for _, ce := range collector.GetErrors() {
		summary.Results = append(summary.Results, ValidationResult{
			Component: componentLabel(ce),
			File:      ce.File,
			Valid:     false,
			Errors:    []string{ce.Message},
			Warnings:  []string{},
		})
	}

	for _, component := range componentsToValidate {
		summary.Results = append(summary.Results, validateComponent(component, cfg))
	}

	for _, result := range summary.Results {
		summary.Total++
		if result.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
	}

	switch validateFormat {
	case "json":
		return outputValidationJSON(summary)
	case "text":
		return outputValidationText(summary)
	default:
		return fmt.Errorf("unsupported format: %s", validateFormat)
	}
}

// componentErrorFrom converts a scan failure into a collector entry, keeping
// the location details a structured error carries.
func componentErrorFrom(err error, file string) errors.ComponentError {
	if me, ok := errors.AsMarkletError(err); ok {
		ce := errors.ComponentError{
			Component: me.Component,
			File:      me.FilePath,
			Line:      me.Line,
			Column:    me.Column,
			Message:   me.Message,
			Severity:  errors.ErrorSeverityError,
		}
		if ce.File == "" {
			ce.File = file
		}
		return ce
	}

	return errors.ComponentError{
		File:     file,
		Message:  err.Error(),
		Severity: errors.ErrorSeverityError,
	}
}

func componentLabel(ce errors.ComponentError) string {
	if ce.Component != "" {
		return ce.Component
	}
	return ce.File
}

// filterComponents narrows the validated set to the requested names.
func filterComponents(components []*types.Component, names []string) []*types.Component {
	byName := make(map[string]*types.Component, len(components))
	for _, component := range components {
		byName[component.Name] = component
	}

	selected := make([]*types.Component, 0, len(names))
	for _, name := range names {
		if component, exists := byName[name]; exists {
			selected = append(selected, component)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: component '%s' not found\n", name)
		}
	}

	return selected
}

// validateComponent runs every section check and keeps collecting after the
// first failure so the report names all problems at once.
func validateComponent(component *types.Component, cfg *config.Config) ValidationResult {
	result := ValidationResult{
		Component: component.Name,
		File:      component.FilePath,
		Valid:     true,
		Errors:    make([]string, 0),
		Warnings:  make([]string, 0),
	}

	addError := func(err error) {
		if err == nil {
			return
		}
		result.Valid = false
		if me, ok := errors.AsMarkletError(err); ok {
			result.Errors = append(result.Errors, me.Message)
			return
		}
		result.Errors = append(result.Errors, err.Error())
	}

	addError(validation.ComponentName(component.Name))
	addError(validation.StyleSource(component.Style, cfg.Style.AllowProperties))
	addError(validation.ScriptSource(component.Script))
	addError(validation.MarkupSource(component.Markup))

	if strings.TrimSpace(component.Markup) == "" {
		result.Warnings = append(result.Warnings, "template section is empty, the component renders nothing")
	}
	if component.Description == "" {
		result.Warnings = append(result.Warnings, "metadata has no description")
	}

	return result
}

func outputValidationText(summary ValidationSummary) error {
	fmt.Printf("Validation Summary:\n")
	fmt.Printf("  Total components: %d\n", summary.Total)
	fmt.Printf("  Valid: %d\n", summary.Valid)
	fmt.Printf("  Invalid: %d\n", summary.Invalid)
	fmt.Println()

	for _, result := range summary.Results {
		status := "✅"
		if !result.Valid {
			status = "❌"
		}

		fmt.Printf("%s %s (%s)\n", status, result.Component, result.File)

		for _, err := range result.Errors {
			fmt.Printf("    Error: %s\n", err)
		}

		for _, warning := range result.Warnings {
			fmt.Printf("    Warning: %s\n", warning)
		}

		if len(result.Errors) > 0 || len(result.Warnings) > 0 {
			fmt.Println()
		}
	}

	if summary.Invalid > 0 {
		return fmt.Errorf("validation failed: %d invalid components", summary.Invalid)
	}

	fmt.Println("✅ All components are valid!")

	return nil
}

func outputValidationJSON(summary ValidationSummary) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(summary); err != nil {
		return err
	}

	if summary.Invalid > 0 {
		return fmt.Errorf("validation failed: %d invalid components", summary.Invalid)
	}

	return nil
}
