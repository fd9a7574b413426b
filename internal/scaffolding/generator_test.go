package scaffolding

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/registry"
	"github.com/conneroisu/marklet/internal/scanner"
	"github.com/conneroisu/marklet/internal/validation"
)

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		input string
	}{
		{name: "single word", input: "clock", want: "Clock"},
		{name: "hyphenated", input: "speed-dial", want: "Speed Dial"},
		{name: "with digits", input: "a2-hud", want: "A2 Hud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayTitle(tt.input))
		})
	}
}

func TestGetBuiltinTemplates(t *testing.T) {
	templates := GetBuiltinTemplates()

	for _, name := range []string{"minimal", "panel", "banner", "form"} {
		tmpl, exists := templates[name]
		require.True(t, exists, "missing builtin template %q", name)
		assert.Equal(t, name, tmpl.Name)
		assert.NotEmpty(t, tmpl.Description)
		assert.NotEmpty(t, tmpl.Content)
		assert.NotEmpty(t, tmpl.DocContent)
	}
}

func TestGeneratorGenerate(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "Ada")
	err := generator.Generate(GenerateOptions{Name: "speed-dial"})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join("components", "speed-dial.html"))
	require.NoError(t, err)

	content := string(raw)
	assert.True(t, strings.HasPrefix(content, "<!--\n"), "metadata comment must lead the file")
	assert.Contains(t, content, "name: speed-dial")
	assert.Contains(t, content, "title: Speed Dial")
	assert.Contains(t, content, "version: 0.1.0")
	assert.Contains(t, content, "author: Ada")
	assert.Contains(t, content, ".speed-dial {")
	assert.NotContains(t, content, "{{", "unexpanded template actions left in output")
}

func TestGeneratorGenerateWithoutAuthor(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "")
	require.NoError(t, generator.Generate(GenerateOptions{Name: "clock"}))

	raw, err := os.ReadFile(filepath.Join("components", "clock.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "author:")
}

func TestGeneratorGenerateOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "Ada")
	err := generator.Generate(GenerateOptions{
		Name:        "notice",
		Template:    "banner",
		Title:       "Maintenance Notice",
		Description: "Warns readers about the migration window",
		Author:      "Grace",
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join("components", "notice.html"))
	require.NoError(t, err)

	content := string(raw)
	assert.Contains(t, content, "title: Maintenance Notice")
	assert.Contains(t, content, "description: Warns readers about the migration window")
	assert.Contains(t, content, "author: Grace")
}

// Every builtin template must produce a file the scanner accepts and the
// section validators pass, otherwise generate hands users a broken start.
func TestGeneratedComponentsAreBuildable(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "Ada")
	reg := registry.NewComponentRegistry()
	scan := scanner.NewComponentScanner(reg)
	defer func() { require.NoError(t, scan.Close()) }()

	for name := range GetBuiltinTemplates() {
		componentName := "probe-" + name
		require.NoError(t, generator.Generate(GenerateOptions{
			Name:     componentName,
			Template: name,
		}))

		path := filepath.Join("components", componentName+".html")
		require.NoError(t, scan.ScanFile(path), "template %q produced an unscannable file", name)

		component, exists := reg.Get(componentName)
		require.True(t, exists)
		assert.Equal(t, DisplayTitle(componentName), component.Title)
		assert.Equal(t, "0.1.0", component.Version)
		assert.NoError(t, validation.StyleSource(component.Style, nil), "template %q style rejected", name)
		assert.NoError(t, validation.ScriptSource(component.Script), "template %q script rejected", name)
		assert.NoError(t, validation.MarkupSource(component.Markup), "template %q markup rejected", name)
	}
}

func TestGeneratorRefusesOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "")
	require.NoError(t, generator.Generate(GenerateOptions{Name: "clock"}))

	err := generator.Generate(GenerateOptions{Name: "clock"})
	require.Error(t, err)
	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeWriteFailed, me.Code)
	assert.Contains(t, me.Message, "already exists")

	require.NoError(t, generator.Generate(GenerateOptions{Name: "clock", Force: true}))
}

func TestGeneratorUnknownTemplate(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "")
	err := generator.Generate(GenerateOptions{Name: "clock", Template: "dashboard"})
	require.Error(t, err)

	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTemplateInvalid, me.Code)
	assert.Contains(t, me.Message, "banner, form, minimal, panel")
}

func TestGeneratorInvalidName(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "")
	err := generator.Generate(GenerateOptions{Name: "Bad_Name"})
	require.Error(t, err)

	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidName, me.Code)

	entries, readErr := os.ReadDir(".")
	require.NoError(t, readErr)
	assert.Empty(t, entries, "nothing should be written for an invalid name")
}

func TestGeneratorWithDocs(t *testing.T) {
	t.Chdir(t.TempDir())

	generator := NewComponentGenerator("components", "Ada")
	require.NoError(t, generator.Generate(GenerateOptions{Name: "speed-dial", WithDocs: true}))

	raw, err := os.ReadFile(filepath.Join("components", "speed-dial.md"))
	require.NoError(t, err)

	content := string(raw)
	assert.Contains(t, content, "# Speed Dial")
	assert.Contains(t, content, "`speed-dial.html`")
	assert.Contains(t, content, "Version: 0.1.0")
}

func TestGeneratorListTemplates(t *testing.T) {
	generator := NewComponentGenerator("components", "")
	templates := generator.ListTemplates()

	require.Len(t, templates, 4)
	names := make([]string, len(templates))
	for i, tmpl := range templates {
		names[i] = tmpl.Name
	}
	assert.Equal(t, []string{"banner", "form", "minimal", "panel"}, names)
}

func TestGeneratorTemplate(t *testing.T) {
	generator := NewComponentGenerator("components", "")

	tmpl, err := generator.Template("panel")
	require.NoError(t, err)
	assert.Equal(t, "panel", tmpl.Name)

	_, err = generator.Template("nope")
	require.Error(t, err)
}
