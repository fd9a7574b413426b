package build

import (
	"strings"

	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/minify"
	"github.com/conneroisu/marklet/internal/types"
	"github.com/conneroisu/marklet/internal/validation"
)

// Compiler validates and minifies individual components. Results are cached
// by content hash plus an options fingerprint, so toggling minification or
// extending the style allow-list never serves a stale result.
type Compiler struct {
	cache       *ResultCache
	minify      bool
	allowProps  []string
	fingerprint string
}

// NewCompiler creates a compiler for the given build options.
func NewCompiler(cfg *config.Config, cache *ResultCache) *Compiler {
	return &Compiler{
		cache:       cache,
		minify:      cfg.Build.Minify,
		allowProps:  cfg.Style.AllowProperties,
		fingerprint: optionsFingerprint(cfg),
	}
}

func optionsFingerprint(cfg *config.Config) string {
	var b strings.Builder
	if cfg.Build.Minify {
		b.WriteString("min=1")
	} else {
		b.WriteString("min=0")
	}
	for _, prop := range cfg.Style.AllowProperties {
		b.WriteString("|")
		b.WriteString(prop)
	}

	return b.String()
}

// Compile validates the component's sections and minifies them when enabled.
// A component whose content hash and build options match a previous compile
// is served from cache with Cached set.
func (c *Compiler) Compile(component *types.Component) (*types.CompiledComponent, error) {
	key := component.Hash + "|" + c.fingerprint
	if cached, ok := c.cache.Get(key); ok {
		hit := *cached
		hit.Cached = true
		return &hit, nil
	}

	if err := validation.StyleSource(component.Style, c.allowProps); err != nil {
		return nil, c.componentError(component, err)
	}
	if err := validation.ScriptSource(component.Script); err != nil {
		return nil, c.componentError(component, err)
	}
	if err := validation.MarkupSource(component.Markup); err != nil {
		return nil, c.componentError(component, err)
	}

	compiled := &types.CompiledComponent{Component: component}
	if c.minify {
		markup, err := minify.HTML(component.Markup)
		if err != nil {
			return nil, c.componentError(component, err)
		}
		style, err := minify.CSS(component.Style)
		if err != nil {
			return nil, c.componentError(component, err)
		}
		script, err := minify.JS(component.Script)
		if err != nil {
			return nil, c.componentError(component, err)
		}
		compiled.MinMarkup = markup
		compiled.MinStyle = style
		compiled.MinScript = script
	} else {
		compiled.MinMarkup = component.Markup
		compiled.MinStyle = component.Style
		compiled.MinScript = component.Script
	}

	c.cache.Set(key, compiled)

	return compiled, nil
}

// componentError attaches component and file context to a section error,
// preserving any line information the validator already recorded.
func (c *Compiler) componentError(component *types.Component, err error) error {
	if me, ok := errors.AsMarkletError(err); ok {
		me.WithComponent(component.Name)
		if me.FilePath == "" {
			me.FilePath = component.FilePath
		}
		return me
	}

	return errors.EnhanceError(err, component.Name, component.FilePath, 0, 0)
}
