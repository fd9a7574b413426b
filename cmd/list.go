package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/registry"
	"github.com/conneroisu/marklet/internal/scanner"
	"github.com/conneroisu/marklet/internal/types"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all discovered components",
	Long: `List all discovered components with their metadata. Shows component names,
titles, versions and file paths, and optionally full metadata and section
sizes.

Examples:
  marklet list                    # List all components in table format
  marklet list -f json            # Output as JSON
  marklet list --format csv       # Output as CSV
  marklet list -m                 # Include description, author and tags
  marklet list -s                 # Include per-section byte sizes
  marklet list -ms -f yaml        # Everything, as YAML`,
	RunE: runList,
}

var (
	listFlags     *StandardFlags
	listWithMeta  bool
	listWithSizes bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddOutputFlags(listCmd, "table")

	listCmd.Flags().
		BoolVarP(&listWithMeta, "with-meta", "m", false, "Include description, author and tags")
	listCmd.Flags().
		BoolVarP(&listWithSizes, "with-sizes", "s", false, "Include per-section byte sizes")

	AddFlagValidation(listCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml", "csv"})
	})
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	componentRegistry := registry.NewComponentRegistry()
	componentScanner := scanner.NewComponentScanner(componentRegistry)
	componentScanner.SetExcludePatterns(cfg.Components.ExcludePatterns)
	defer func() {
		if closeErr := componentScanner.Close(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "Warning: error shutting down scanner:", closeErr)
		}
	}()

	for _, scanPath := range cfg.Components.ScanPaths {
		if err := componentScanner.ScanDirectory(scanPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to scan directory %s: %v\n", scanPath, err)
		}
	}

	components := componentRegistry.GetAll()
	if len(components) == 0 {
		fmt.Println("No components found.")
		return nil
	}

	switch strings.ToLower(listFlags.Format) {
	case "json":
		return outputListJSON(components)
	case "yaml":
		return outputListYAML(components)
	case "table":
		return outputListTable(components)
	case "csv":
		return outputListCSV(components)
	default:
		return fmt.Errorf("unsupported format: %s", listFlags.Format)
	}
}

// listItem builds the serializable view of one component honoring the
// --with-meta and --with-sizes flags.
func listItem(component *types.Component) map[string]interface{} {
	item := map[string]interface{}{
		"name":      component.Name,
		"title":     component.Title,
		"version":   component.Version,
		"file_path": component.FilePath,
	}

	if listWithMeta {
		item["description"] = component.Description
		item["author"] = component.Author
		item["tags"] = component.Tags
	}

	if listWithSizes {
		item["sizes"] = map[string]interface{}{
			"markup": len(component.Markup),
			"style":  len(component.Style),
			"script": len(component.Script),
			"source": component.SourceBytes,
		}
	}

	return item
}

func outputListJSON(components []*types.Component) error {
	output := make([]map[string]interface{}, len(components))
	for i, component := range components {
		output[i] = listItem(component)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputListYAML(components []*types.Component) error {
	output := make([]map[string]interface{}, len(components))
	for i, component := range components {
		output[i] = listItem(component)
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(output)
}

func outputListTable(components []*types.Component) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	header := "NAME\tTITLE\tVERSION\tFILE"
	if listWithMeta {
		header += "\tDESCRIPTION\tAUTHOR\tTAGS"
	}
	if listWithSizes {
		header += "\tMARKUP\tSTYLE\tSCRIPT"
	}
	fmt.Fprintln(w, header)

	for _, component := range components {
		row := fmt.Sprintf("%s\t%s\t%s\t%s",
			component.Name,
			component.Title,
			component.Version,
			component.FilePath,
		)

		if listWithMeta {
			row += fmt.Sprintf("\t%s\t%s\t%s",
				component.Description,
				component.Author,
				strings.Join(component.Tags, ", "),
			)
		}

		if listWithSizes {
			row += fmt.Sprintf("\t%d\t%d\t%d",
				len(component.Markup),
				len(component.Style),
				len(component.Script),
			)
		}

		fmt.Fprintln(w, row)
	}

	fmt.Fprintf(w, "\nTotal: %d components\n", len(components))

	return nil
}

func outputListCSV(components []*types.Component) error {
	header := "name,title,version,file_path"
	if listWithMeta {
		header += ",description,author,tags"
	}
	if listWithSizes {
		header += ",markup_bytes,style_bytes,script_bytes"
	}
	fmt.Println(header)

	for _, component := range components {
		row := fmt.Sprintf("%s,%s,%s,%s",
			csvField(component.Name),
			csvField(component.Title),
			csvField(component.Version),
			csvField(component.FilePath),
		)

		if listWithMeta {
			row += fmt.Sprintf(",%s,%s,%s",
				csvField(component.Description),
				csvField(component.Author),
				csvField(strings.Join(component.Tags, ";")),
			)
		}

		if listWithSizes {
			row += fmt.Sprintf(",%d,%d,%d",
				len(component.Markup),
				len(component.Style),
				len(component.Script),
			)
		}

		fmt.Println(row)
	}

	return nil
}

// csvField quotes a value when it would break the row.
func csvField(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
