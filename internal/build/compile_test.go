package build

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/types"
)

func sourceComponent(name string) *types.Component {
	return &types.Component{
		Name:     name,
		Title:    "Widget",
		Version:  "1.0.0",
		FilePath: "components/" + name + ".html",
		Markup:   `<div class="` + name + `">hi</div>`,
		Style:    "." + name + " { color: red; }",
		Script:   "void 0;",
		Hash:     "hash-" + name,
	}
}

func compilerConfig(minify bool) *config.Config {
	cfg := config.Default()
	cfg.Build.Minify = minify
	return cfg
}

func TestCompilerCompileMinified(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	compiler := NewCompiler(compilerConfig(true), cache)

	compiled, err := compiler.Compile(sourceComponent("widget"))
	require.NoError(t, err)

	assert.Equal(t, ".widget{color:red}", compiled.MinStyle)
	assert.Contains(t, compiled.MinScript, "void 0")
	assert.Contains(t, compiled.MinMarkup, `class="widget"`)
	assert.False(t, compiled.Cached)
	assert.Less(t, compiled.CompiledSize(), compiled.RawSize())
}

func TestCompilerCompilePassthrough(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	compiler := NewCompiler(compilerConfig(false), cache)
	component := sourceComponent("widget")

	compiled, err := compiler.Compile(component)
	require.NoError(t, err)

	// Disabled minification passes sections through byte for byte.
	assert.Equal(t, component.Markup, compiled.MinMarkup)
	assert.Equal(t, component.Style, compiled.MinStyle)
	assert.Equal(t, component.Script, compiled.MinScript)
}

func TestCompilerCacheHit(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	compiler := NewCompiler(compilerConfig(true), cache)
	component := sourceComponent("widget")

	first, err := compiler.Compile(component)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := compiler.Compile(component)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.MinStyle, second.MinStyle)
	assert.Equal(t, first.MinScript, second.MinScript)
	assert.Equal(t, first.MinMarkup, second.MinMarkup)

	// The cached entry itself must not be flagged, or every later caller
	// would see a phantom hit marker on a fresh compile.
	assert.False(t, first.Cached)
}

func TestCompilerCacheKeyedByOptions(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	component := sourceComponent("widget")

	minified, err := NewCompiler(compilerConfig(true), cache).Compile(component)
	require.NoError(t, err)

	passthrough, err := NewCompiler(compilerConfig(false), cache).Compile(component)
	require.NoError(t, err)

	// Same hash, different options: the passthrough compile must not be
	// served the minified cache entry.
	assert.False(t, passthrough.Cached)
	assert.NotEqual(t, minified.MinStyle, passthrough.MinStyle)
}

func TestCompilerStyleViolation(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	compiler := NewCompiler(compilerConfig(true), cache)

	component := sourceComponent("widget")
	component.Style = ".widget {\n  behavior: url(bad.htc);\n}"

	_, err := compiler.Compile(component)
	require.Error(t, err)

	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeStyleProperty, me.Code)
	assert.Equal(t, "widget", me.Component)
	assert.Equal(t, "components/widget.html", me.FilePath)
	assert.Contains(t, me.Message, `"behavior"`)
	assert.Contains(t, me.Message, "line 2")
}

func TestCompilerScriptViolation(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	compiler := NewCompiler(compilerConfig(true), cache)

	component := sourceComponent("widget")
	component.Script = `document.write("</script>");`

	_, err := compiler.Compile(component)
	require.Error(t, err)

	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeScriptUnsafe, me.Code)
	assert.Equal(t, "widget", me.Component)
}

func TestCompilerMarkupViolation(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	compiler := NewCompiler(compilerConfig(true), cache)

	component := sourceComponent("widget")
	component.Markup = `<div><script>void 0;</script></div>`

	_, err := compiler.Compile(component)
	require.Error(t, err)

	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMarkupInvalid, me.Code)
	assert.Equal(t, "widget", me.Component)
}

func TestCompilerAllowPropertiesExtension(t *testing.T) {
	component := sourceComponent("widget")
	component.Style = ".widget { shape-outside: circle(50%); }"

	cache := NewResultCache(1024*1024, time.Minute)
	_, err := NewCompiler(compilerConfig(true), cache).Compile(component)
	require.Error(t, err, "shape-outside is not on the built-in allow-list")

	cfg := compilerConfig(true)
	cfg.Style.AllowProperties = []string{"shape-outside"}
	compiled, err := NewCompiler(cfg, NewResultCache(1024*1024, time.Minute)).Compile(component)
	require.NoError(t, err)
	assert.Contains(t, compiled.MinStyle, "shape-outside")
}

func TestCompilerErrorsAreNotCached(t *testing.T) {
	cache := NewResultCache(1024*1024, time.Minute)
	compiler := NewCompiler(compilerConfig(true), cache)

	component := sourceComponent("widget")
	component.Style = ".widget { behavior: none; }"

	_, err := compiler.Compile(component)
	require.Error(t, err)

	entries, _, _ := cache.Stats()
	assert.Equal(t, 0, entries)
}

func TestOptionsFingerprint(t *testing.T) {
	minified := optionsFingerprint(compilerConfig(true))
	passthrough := optionsFingerprint(compilerConfig(false))
	assert.NotEqual(t, minified, passthrough)

	extended := compilerConfig(true)
	extended.Style.AllowProperties = []string{"shape-outside"}
	assert.NotEqual(t, minified, optionsFingerprint(extended))
}
