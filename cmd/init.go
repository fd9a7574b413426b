package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/marklet/internal/scaffolding"
)

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Initialize a new bookmarklet project",
	Long: `Initialize a new project directory with a .marklet.yml config file, a
components directory, a starter component and a README. With no argument the
current directory is initialized.

Examples:
  marklet init                    # Initialize the current directory
  marklet init my-bookmarklets    # Initialize a new directory
  marklet init --minimal          # Config and components dir only
  marklet init --force            # Reinitialize over existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initMinimal bool
	initForce   bool
	initAuthor  string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initMinimal, "minimal", false, "Skip the starter component and README")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing project files")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "Author recorded in scaffolded components")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	fmt.Println("🚀 Initializing bookmarklet project...")

	if err := scaffolding.CreateProjectScaffold(scaffolding.ProjectOptions{
		Dir:     dir,
		Author:  initAuthor,
		Minimal: initMinimal,
		Force:   initForce,
	}); err != nil {
		return err
	}

	fmt.Println("\nNext steps:")
	if dir != "." {
		fmt.Printf("  cd %s\n", dir)
	}
	fmt.Println("  marklet build")
	fmt.Println("  open dist/install.html")

	return nil
}
