package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/scaffolding"
)

var generateCmd = &cobra.Command{
	Use:     "generate <name>",
	Aliases: []string{"g"},
	Short:   "Scaffold a new component from a builtin template",
	Long: `Scaffold a new component source file from a builtin template. The file is
written into the first configured scan path unless --output overrides it.

Examples:
  marklet generate clock                      # Minimal starter component
  marklet generate speed-dial -t panel        # Floating panel skeleton
  marklet generate notice -t banner --force   # Overwrite an existing file
  marklet generate poll -t form --with-docs   # Also write poll.md
  marklet generate --list                     # Show available templates`,
	RunE: runGenerate,
}

var (
	generateTemplate string
	generateOutput   string
	generateTitle    string
	generateAuthor   string
	generateForce    bool
	generateDocs     bool
	generateList     bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "minimal", "Template to scaffold from")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (default: first scan path)")
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "Display title (default: title-cased name)")
	generateCmd.Flags().StringVar(&generateAuthor, "author", "", "Author recorded in the metadata comment")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Overwrite an existing component file")
	generateCmd.Flags().BoolVar(&generateDocs, "with-docs", false, "Also write a markdown docs stub next to the component")
	generateCmd.Flags().BoolVar(&generateList, "list", false, "List available templates and exit")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	outputDir := generateOutput
	if outputDir == "" && len(cfg.Components.ScanPaths) > 0 {
		outputDir = cfg.Components.ScanPaths[0]
	}
	if outputDir == "" {
		outputDir = "./components"
	}

	generator := scaffolding.NewComponentGenerator(outputDir, generateAuthor)

	if generateList {
		return listGenerateTemplates(generator)
	}

	if len(args) != 1 {
		return fmt.Errorf("expected exactly one component name, got %d", len(args))
	}

	return generator.Generate(scaffolding.GenerateOptions{
		Name:     args[0],
		Template: generateTemplate,
		Title:    generateTitle,
		Force:    generateForce,
		WithDocs: generateDocs,
	})
}

func listGenerateTemplates(generator *scaffolding.ComponentGenerator) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "TEMPLATE\tCATEGORY\tDESCRIPTION")
	for _, tmpl := range generator.ListTemplates() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", tmpl.Name, tmpl.Category, tmpl.Description)
	}

	return nil
}
