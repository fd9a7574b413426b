package scaffolding

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/validation"
)

// defaultComponentVersion seeds the version field of scaffolded components.
const defaultComponentVersion = "0.1.0"

// ComponentGenerator scaffolds component source files from builtin templates.
type ComponentGenerator struct {
	templates map[string]ComponentTemplate
	outputDir string
	author    string
}

// GenerateOptions holds options for component generation.
type GenerateOptions struct {
	Name        string
	Template    string
	OutputDir   string
	Title       string
	Description string
	Author      string
	Force       bool
	WithDocs    bool
}

// NewComponentGenerator creates a generator writing into outputDir.
func NewComponentGenerator(outputDir, author string) *ComponentGenerator {
	return &ComponentGenerator{
		templates: GetBuiltinTemplates(),
		outputDir: outputDir,
		author:    author,
	}
}

// DisplayTitle derives a human readable title from a component name,
// "speed-dial" becomes "Speed Dial".
func DisplayTitle(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// Generate creates a new component source file from a template.
func (g *ComponentGenerator) Generate(opts GenerateOptions) error {
	if opts.OutputDir == "" {
		opts.OutputDir = g.outputDir
	}
	if opts.Author == "" {
		opts.Author = g.author
	}
	if opts.Template == "" {
		opts.Template = "minimal"
	}

	if err := validation.ComponentName(opts.Name); err != nil {
		return err
	}

	tmpl, exists := g.templates[opts.Template]
	if !exists {
		return errors.NewValidationError(
			errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("unknown template %q, available: %s", opts.Template, strings.Join(g.templateNames(), ", ")),
		)
	}

	if opts.Title == "" {
		opts.Title = DisplayTitle(opts.Name)
	}
	if opts.Description == "" {
		opts.Description = tmpl.Description
	}

	ctx := TemplateContext{
		Name:        opts.Name,
		Title:       opts.Title,
		Version:     defaultComponentVersion,
		Description: opts.Description,
		Author:      opts.Author,
		Date:        time.Now().Format("2006-01-02"),
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return errors.NewIOError(
			errors.ErrCodeWriteFailed,
			fmt.Sprintf("creating output directory %s", opts.OutputDir),
			err,
		)
	}

	componentFile := filepath.Join(opts.OutputDir, opts.Name+".html")
	if !opts.Force {
		if _, err := os.Stat(componentFile); err == nil {
			return errors.NewIOError(
				errors.ErrCodeWriteFailed,
				fmt.Sprintf("%s already exists, pass --force to overwrite", componentFile),
				nil,
			)
		}
	}

	if err := g.generateFile(componentFile, tmpl.Content, ctx); err != nil {
		return err
	}
	fmt.Printf("✅ Generated component: %s\n", componentFile)

	if opts.WithDocs && tmpl.DocContent != "" {
		docFile := filepath.Join(opts.OutputDir, opts.Name+".md")
		if err := g.generateFile(docFile, tmpl.DocContent, ctx); err != nil {
			return err
		}
		fmt.Printf("📝 Generated docs: %s\n", docFile)
	}

	return nil
}

// ListTemplates returns the builtin templates sorted by name.
func (g *ComponentGenerator) ListTemplates() []ComponentTemplate {
	templates := make([]ComponentTemplate, 0, len(g.templates))
	for _, tmpl := range g.templates {
		templates = append(templates, tmpl)
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates
}

// Template returns a single builtin template by name.
func (g *ComponentGenerator) Template(name string) (ComponentTemplate, error) {
	tmpl, exists := g.templates[name]
	if !exists {
		return ComponentTemplate{}, errors.NewValidationError(
			errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("unknown template %q, available: %s", name, strings.Join(g.templateNames(), ", ")),
		)
	}
	return tmpl, nil
}

func (g *ComponentGenerator) templateNames() []string {
	names := make([]string, 0, len(g.templates))
	for name := range g.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *ComponentGenerator) generateFile(path, content string, ctx TemplateContext) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(content)
	if err != nil {
		return errors.NewInternalError(
			errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("parsing scaffold template for %s", path),
			err,
		)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(
			errors.ErrCodeWriteFailed,
			fmt.Sprintf("creating %s", path),
			err,
		)
	}
	defer func() { _ = file.Close() }()

	if err := tmpl.Execute(file, ctx); err != nil {
		return errors.NewInternalError(
			errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("rendering scaffold template into %s", path),
			err,
		)
	}

	return file.Close()
}
