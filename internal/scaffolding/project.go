package scaffolding

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conneroisu/marklet/internal/errors"
)

// ConfigFileName is the config file written into a scaffolded project.
const ConfigFileName = ".marklet.yml"

// ProjectOptions holds options for scaffolding a new project directory.
type ProjectOptions struct {
	Dir     string
	Author  string
	Minimal bool
	Force   bool
}

const projectConfig = `# marklet build configuration.
components:
  scan_paths:
    - ./components
  exclude_patterns:
    - "*_draft.html"
    - "*.bak"

build:
  output: dist
  minify: true
  # workers: 0 sizes the compile pool to the machine.
  workers: 0
  compress: false
  # max_uri_bytes: 0 disables the bookmarklet size gate.
  max_uri_bytes: 0

# Extend the style property allow list per project:
# style:
#   allow_properties:
#     - shape-outside

log_level: info
`

const projectReadme = `# Bookmarklet components

Each file under components/ is a self-contained component: metadata comment,
style, script and template sections in a single .html file.

Common tasks:

    marklet build            # compile everything under components/
    marklet list             # show discovered components
    marklet validate         # check sources without building
    marklet generate NAME    # scaffold a new component

The build writes dist/bookmarklet.uri.txt and dist/install.html. Open the
install page and drag the link to your bookmarks bar.
`

// CreateProjectScaffold initializes a project directory with a config file, a
// components directory and, unless minimal, a starter component and README.
func CreateProjectScaffold(opts ProjectOptions) error {
	if opts.Dir == "" {
		opts.Dir = "."
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return errors.NewIOError(
			errors.ErrCodeWriteFailed,
			fmt.Sprintf("creating project directory %s", opts.Dir),
			err,
		)
	}

	configPath := filepath.Join(opts.Dir, ConfigFileName)
	if !opts.Force {
		if _, err := os.Stat(configPath); err == nil {
			return errors.NewIOError(
				errors.ErrCodeWriteFailed,
				fmt.Sprintf("%s already exists, pass --force to reinitialize", configPath),
				nil,
			)
		}
	}
	if err := os.WriteFile(configPath, []byte(projectConfig), 0o644); err != nil {
		return errors.NewIOError(
			errors.ErrCodeWriteFailed,
			fmt.Sprintf("writing %s", configPath),
			err,
		)
	}
	fmt.Printf("✅ Created config: %s\n", configPath)

	componentsDir := filepath.Join(opts.Dir, "components")
	if err := os.MkdirAll(componentsDir, 0o755); err != nil {
		return errors.NewIOError(
			errors.ErrCodeWriteFailed,
			fmt.Sprintf("creating components directory %s", componentsDir),
			err,
		)
	}
	fmt.Printf("📁 Created components directory: %s\n", componentsDir)

	if opts.Minimal {
		return nil
	}

	generator := NewComponentGenerator(componentsDir, opts.Author)
	if err := generator.Generate(GenerateOptions{
		Name:     "hello-note",
		Template: "minimal",
		Force:    opts.Force,
	}); err != nil {
		return err
	}

	readmePath := filepath.Join(opts.Dir, "README.md")
	if _, err := os.Stat(readmePath); err == nil && !opts.Force {
		return nil
	}
	if err := os.WriteFile(readmePath, []byte(projectReadme), 0o644); err != nil {
		return errors.NewIOError(
			errors.ErrCodeWriteFailed,
			fmt.Sprintf("writing %s", readmePath),
			err,
		)
	}
	fmt.Printf("📖 Created README: %s\n", readmePath)

	return nil
}
