package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/conneroisu/marklet/internal/build"
	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/registry"
	"github.com/conneroisu/marklet/internal/scanner"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose project configuration and setup issues",
	Long: `Diagnose the project setup and report anything that would make a build fail
or behave unexpectedly. Checks cover:

- Config file parseability (raw YAML lint plus typed load)
- Configuration value validation with suggestions
- Scan path existence and contents
- Output directory writability
- Custom loader template parseability
- Component name collisions across source files

Examples:
  marklet doctor                    # Full project diagnosis
  marklet doctor --verbose          # Include informational results
  marklet doctor --format json      # Output as JSON for tooling`,
	RunE: runDoctor,
}

var (
	doctorVerbose bool
	doctorFormat  string
)

// DiagnosticResult represents the result of a diagnostic check
type DiagnosticResult struct {
	Name       string                 `json:"name"`
	Category   string                 `json:"category"`
	Status     string                 `json:"status"` // "ok", "warning", "error", "info"
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// DoctorReport represents the complete diagnostic report
type DoctorReport struct {
	Timestamp   time.Time          `json:"timestamp"`
	Environment map[string]string  `json:"environment"`
	Results     []DiagnosticResult `json:"results"`
	Summary     ReportSummary      `json:"summary"`
}

// ReportSummary provides an overview of diagnostic results
type ReportSummary struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Info     int `json:"info"`
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Show informational results too")
	doctorCmd.Flags().StringVarP(&doctorFormat, "format", "f", "text", "Output format (text|json)")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Marklet Project Doctor")
	fmt.Println("=========================")
	fmt.Println()

	report := &DoctorReport{
		Timestamp:   time.Now(),
		Environment: gatherEnvironmentInfo(),
		Results:     []DiagnosticResult{},
	}

	// The config check always runs first; later checks use whatever
	// configuration could be loaded, falling back to defaults.
	cfg, configResult := checkConfiguration()
	report.Results = append(report.Results, configResult)

	checks := []func(*config.Config) DiagnosticResult{
		checkScanPaths,
		checkOutputDirectory,
		checkLoaderTemplate,
		checkComponentCollisions,
	}
	for _, check := range checks {
		report.Results = append(report.Results, check(cfg))
	}

	if doctorFormat == "text" {
		for _, result := range report.Results {
			if !doctorVerbose && result.Status == "info" {
				continue
			}
			displayResult(result)
		}
	}

	report.Summary = calculateSummary(report.Results)

	switch doctorFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to output report: %w", err)
		}
	case "text":
		fmt.Println("\n📊 Summary")
		fmt.Println("==========")
		displaySummary(report.Summary)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", doctorFormat)
	}

	if report.Summary.Errors > 0 {
		return fmt.Errorf("doctor found %d problems", report.Summary.Errors)
	}

	return nil
}

func gatherEnvironmentInfo() map[string]string {
	env := map[string]string{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"go_version": runtime.Version(),
	}

	if wd, err := os.Getwd(); err == nil {
		env["working_dir"] = wd
	}
	if used := viper.ConfigFileUsed(); used != "" {
		env["config_file"] = used
	}

	return env
}

// checkConfiguration lints the config file as raw YAML before the typed load,
// so a syntax error is reported as such instead of as a cryptic unmarshal
// failure, then runs the detailed value validation.
func checkConfiguration() (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Name:     "Configuration",
		Category: "config",
		Status:   "ok",
	}

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		if _, err := os.Stat(".marklet.yml"); os.IsNotExist(err) {
			result.Status = "info"
			result.Message = "No .marklet.yml found, using built-in defaults"
			result.Suggestion = "Run 'marklet init' to create a project config"
			return config.Default(), result
		}
		configPath = ".marklet.yml"
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read config file %s: %v", configPath, err)
		return config.Default(), result
	}

	var lint map[string]interface{}
	if err := yamlv2.Unmarshal(raw, &lint); err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file is not valid YAML: %v", err)
		result.Suggestion = "Fix the syntax error, or regenerate the file with 'marklet init --force'"
		return config.Default(), result
	}

	cfg, err := config.Load()
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file does not load: %v", err)
		return config.Default(), result
	}

	details := config.ValidateConfigWithDetails(cfg)
	if details.HasErrors() {
		result.Status = "error"
		result.Message = fmt.Sprintf("Configuration has %d invalid values", len(details.Errors))
		result.Details = map[string]interface{}{"findings": details.String()}
		return cfg, result
	}
	if details.HasWarnings() {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Configuration loads but has %d warnings", len(details.Warnings))
		result.Details = map[string]interface{}{"findings": details.String()}
		return cfg, result
	}

	result.Message = fmt.Sprintf("Config file %s is valid", configPath)
	return cfg, result
}

func checkScanPaths(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Scan Paths",
		Category: "components",
		Status:   "ok",
	}

	missing := []string{}
	empty := []string{}
	total := 0

	reg := registry.NewComponentRegistry()
	scan := scanner.NewComponentScanner(reg)
	scan.SetExcludePatterns(cfg.Components.ExcludePatterns)
	defer func() { _ = scan.Close() }()

	for _, path := range cfg.Components.ScanPaths {
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			missing = append(missing, path)
			continue
		}

		files, err := scan.DiscoverFiles(path)
		if err != nil {
			missing = append(missing, path)
			continue
		}
		if len(files) == 0 {
			empty = append(empty, path)
		}
		total += len(files)
	}

	switch {
	case len(missing) > 0:
		result.Status = "error"
		result.Message = fmt.Sprintf("Scan paths do not exist: %v", missing)
		result.Suggestion = "Create the directory or fix components.scan_paths"
	case total == 0:
		result.Status = "warning"
		result.Message = "Scan paths exist but contain no component files"
		result.Suggestion = "Add .html component files or run 'marklet generate <name>'"
	default:
		result.Message = fmt.Sprintf("Found %d component files", total)
		if len(empty) > 0 {
			result.Details = map[string]interface{}{"empty_paths": empty}
		}
	}

	return result
}

func checkOutputDirectory(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Output Directory",
		Category: "build",
		Status:   "ok",
	}

	outputDir := cfg.Build.Output
	if info, err := os.Stat(outputDir); err == nil {
		if !info.IsDir() {
			result.Status = "error"
			result.Message = fmt.Sprintf("Output path %s exists but is not a directory", outputDir)
			return result
		}
	} else if !os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot stat output path %s: %v", outputDir, err)
		return result
	}

	// Probe writability at the deepest existing ancestor, since the emit
	// stage creates missing directories itself.
	probeDir := filepath.Clean(outputDir)
	for {
		if info, err := os.Stat(probeDir); err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(probeDir)
		if parent == probeDir {
			break
		}
		probeDir = parent
	}
	probe, err := os.CreateTemp(probeDir, ".marklet-doctor-*")
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Output location %s is not writable: %v", outputDir, err)
		return result
	}
	probePath := probe.Name()
	_ = probe.Close()
	_ = os.Remove(probePath)

	result.Message = fmt.Sprintf("Output directory %s is writable", outputDir)
	return result
}

func checkLoaderTemplate(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Loader Template",
		Category: "build",
		Status:   "ok",
	}

	if cfg.Build.Loader == "" {
		result.Status = "info"
		result.Message = "Using the embedded loader template"
		return result
	}

	source, err := build.LoaderSource(cfg.Build.Loader)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read loader template: %v", err)
		return result
	}

	// A dry splice catches both parse errors and unknown placeholders.
	if _, err := build.SpliceLoader(source, build.LoaderData{Registry: "{}", Version: "doctor"}); err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Loader template does not render: %v", err)
		result.Suggestion = "The template may reference placeholders beyond .Registry, .Version and .Preselect"
		return result
	}

	result.Message = fmt.Sprintf("Custom loader template %s renders", cfg.Build.Loader)
	return result
}

func checkComponentCollisions(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Component Names",
		Category: "components",
		Status:   "ok",
	}

	reg := registry.NewComponentRegistry()
	scan := scanner.NewComponentScanner(reg)
	scan.SetExcludePatterns(cfg.Components.ExcludePatterns)
	defer func() { _ = scan.Close() }()

	collisions := []string{}
	parseFailures := 0
	for _, path := range cfg.Components.ScanPaths {
		files, err := scan.DiscoverFiles(path)
		if err != nil {
			continue
		}
		for _, file := range files {
			if err := scan.ScanFile(file); err != nil {
				if me, ok := errors.AsMarkletError(err); ok && me.Code == errors.ErrCodeDuplicateName {
					collisions = append(collisions, file)
				} else {
					parseFailures++
				}
			}
		}
	}

	switch {
	case len(collisions) > 0:
		result.Status = "error"
		result.Message = fmt.Sprintf("Component name collisions in: %v", collisions)
		result.Suggestion = "Each component needs a unique name across all scan paths"
	case parseFailures > 0:
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d component files do not parse", parseFailures)
		result.Suggestion = "Run 'marklet validate' for the full findings list"
	default:
		result.Message = fmt.Sprintf("All %d component names are unique", reg.Count())
	}

	return result
}

func displayResult(result DiagnosticResult) {
	icon := "✅"
	switch result.Status {
	case "warning":
		icon = "⚠️ "
	case "error":
		icon = "❌"
	case "info":
		icon = "ℹ️ "
	}

	fmt.Printf("%s %s: %s\n", icon, result.Name, result.Message)
	if result.Suggestion != "" {
		fmt.Printf("   💡 %s\n", result.Suggestion)
	}
	if doctorVerbose {
		if findings, ok := result.Details["findings"].(string); ok && findings != "" {
			fmt.Println(findings)
		}
	}
}

func calculateSummary(results []DiagnosticResult) ReportSummary {
	summary := ReportSummary{Total: len(results)}

	for _, result := range results {
		switch result.Status {
		case "ok":
			summary.OK++
		case "warning":
			summary.Warnings++
		case "error":
			summary.Errors++
		case "info":
			summary.Info++
		}
	}

	return summary
}

func displaySummary(summary ReportSummary) {
	fmt.Printf("Total checks: %d\n", summary.Total)
	fmt.Printf("✅ OK: %d\n", summary.OK)
	if summary.Warnings > 0 {
		fmt.Printf("⚠️  Warnings: %d\n", summary.Warnings)
	}
	if summary.Errors > 0 {
		fmt.Printf("❌ Errors: %d\n", summary.Errors)
	}
	if summary.Info > 0 {
		fmt.Printf("ℹ️  Info: %d\n", summary.Info)
	}
}
