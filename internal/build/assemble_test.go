package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/types"
)

func compiledComponent(name, title, version, html, css, js string) *types.CompiledComponent {
	return &types.CompiledComponent{
		Component: &types.Component{
			Name:    name,
			Title:   title,
			Version: version,
		},
		MinMarkup: html,
		MinStyle:  css,
		MinScript: js,
	}
}

func TestRegistryJSON(t *testing.T) {
	components := []*types.CompiledComponent{
		compiledComponent("zulu", "Zulu", "2.0.0", "<p>z</p>", ".z{color:red}", "void 0;"),
		compiledComponent("alpha", "Alpha", "1.0.0", "<div>a</div>", "", ""),
	}

	raw, err := RegistryJSON(components)
	require.NoError(t, err)

	var registry map[string]registryEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &registry))
	require.Len(t, registry, 2)

	assert.Equal(t, "<p>z</p>", registry["zulu"].HTML)
	assert.Equal(t, ".z{color:red}", registry["zulu"].CSS)
	assert.Equal(t, "void 0;", registry["zulu"].JS)
	assert.Equal(t, "Zulu", registry["zulu"].Title)
	assert.Equal(t, "2.0.0", registry["zulu"].Version)

	// Empty sections still serialize so the loader can index every entry.
	assert.Equal(t, "<div>a</div>", registry["alpha"].HTML)
	assert.Equal(t, "", registry["alpha"].CSS)
	assert.Equal(t, "", registry["alpha"].JS)

	// Map keys come out sorted regardless of input order.
	assert.Less(t, strings.Index(raw, `"alpha"`), strings.Index(raw, `"zulu"`))

	// Angle brackets are escaped, keeping the JSON inert in script contexts.
	assert.NotContains(t, raw, "<div>")
	assert.Contains(t, raw, `\u003cdiv\u003e`)
}

func TestRegistryJSONDeterministic(t *testing.T) {
	forward := []*types.CompiledComponent{
		compiledComponent("alpha", "Alpha", "1.0.0", "<div>a</div>", ".a{}", "1;"),
		compiledComponent("beta", "Beta", "1.0.0", "<div>b</div>", ".b{}", "2;"),
		compiledComponent("gamma", "Gamma", "1.0.0", "<div>g</div>", ".g{}", "3;"),
	}
	reversed := []*types.CompiledComponent{forward[2], forward[1], forward[0]}

	first, err := RegistryJSON(forward)
	require.NoError(t, err)
	second, err := RegistryJSON(forward)
	require.NoError(t, err)
	shuffled, err := RegistryJSON(reversed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, shuffled)
}

func TestLoaderSourceDefault(t *testing.T) {
	source, err := LoaderSource("")
	require.NoError(t, err)

	assert.Contains(t, source, "window.__marklet")
	assert.Contains(t, source, "{{.Registry}}")
	assert.Contains(t, source, "{{.Version}}")
	assert.Contains(t, source, "{{.Preselect}}")
	assert.NotContains(t, source, "</script", "loader must stay embeddable in inline script contexts")
}

func TestLoaderSourceCustomFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loader.js.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("var R = {{.Registry}};"), 0o644))

	source, err := LoaderSource(path)
	require.NoError(t, err)
	assert.Equal(t, "var R = {{.Registry}};", source)
}

func TestLoaderSourceMissingFile(t *testing.T) {
	_, err := LoaderSource(filepath.Join(t.TempDir(), "absent.js.tmpl"))
	require.Error(t, err)

	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, me.Code)
}

func TestSpliceLoader(t *testing.T) {
	source := "var R = {{.Registry}}; var V = '{{.Version}}'; var P = '{{.Preselect}}';"
	data := LoaderData{Registry: `{"a":1}`, Version: "abc123", Preselect: "a"}

	out, err := SpliceLoader(source, data)
	require.NoError(t, err)
	assert.Equal(t, `var R = {"a":1}; var V = 'abc123'; var P = 'a';`, out)
}

func TestSpliceLoaderDefaultTemplate(t *testing.T) {
	source, err := LoaderSource("")
	require.NoError(t, err)

	registryJSON, err := RegistryJSON([]*types.CompiledComponent{
		compiledComponent("clock", "Clock", "1.0.0", "<span>12:00</span>", ".clk{font-weight:bold}", "void 0;"),
	})
	require.NoError(t, err)

	out, err := SpliceLoader(source, LoaderData{Registry: registryJSON, Version: "deadbeef", Preselect: "clock"})
	require.NoError(t, err)

	assert.Contains(t, out, "var REGISTRY = {\"clock\"")
	assert.Contains(t, out, "var VERSION = 'deadbeef';")
	assert.Contains(t, out, "var PRESELECT = 'clock';")
	assert.NotContains(t, out, "{{", "every template action must be resolved")
}

func TestSpliceLoaderErrors(t *testing.T) {
	t.Run("parse failure", func(t *testing.T) {
		_, err := SpliceLoader("var R = {{.Registry", LoaderData{})
		require.Error(t, err)

		me, ok := errors.AsMarkletError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeTemplateInvalid, me.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := SpliceLoader("{{.Nope}}", LoaderData{})
		require.Error(t, err)

		me, ok := errors.AsMarkletError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeTemplateInvalid, me.Code)
	})
}
