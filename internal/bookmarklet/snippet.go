package bookmarklet

import (
	_ "embed"
	"html/template"
	"strings"
	"time"

	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/types"
)

//go:embed install.html.tmpl
var installSource string

var installTmpl = template.Must(template.New("install.html.tmpl").Parse(installSource))

// Meta describes a finished build for the install page.
type Meta struct {
	// Title is the page headline, defaulting to "marklet".
	Title string
	// Version is the tool version rendered in the footer.
	Version string
	// GeneratedAt is the build timestamp; the zero value means now.
	GeneratedAt time.Time
	// Components lists the compiled components in registry order.
	Components []*types.CompiledComponent
}

// pageData is what the install template actually renders. The URI field is
// typed template.URL: html/template would otherwise reject the javascript:
// scheme in an href.
type pageData struct {
	Title       string
	URI         template.URL
	Version     string
	GeneratedAt time.Time
	URIBytes    int
	Components  []*types.CompiledComponent
}

// Snippet renders the install page for an encoded bookmarklet URI.
// Component titles and descriptions pass through html/template's contextual
// escaping; only the URI itself is exempted.
func Snippet(uri string, meta Meta) (string, error) {
	data := pageData{
		Title:       meta.Title,
		URI:         template.URL(uri),
		Version:     meta.Version,
		GeneratedAt: meta.GeneratedAt,
		URIBytes:    len(uri),
		Components:  meta.Components,
	}

	if data.Title == "" {
		data.Title = "marklet"
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	var b strings.Builder
	if err := installTmpl.Execute(&b, data); err != nil {
		return "", errors.NewBuildError(
			errors.ErrCodeTemplateInvalid,
			"rendering install page",
			err,
		)
	}

	return b.String(), nil
}
