// Package minify wraps the tdewolff minifiers used by the build pipeline.
//
// One shared minifier instance is configured at package init. The HTML
// minifier keeps document tags, end tags and attribute quotes so that
// minified fragments stay embeddable in JS string literals and re-parse
// to the same tree.
package minify

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/conneroisu/marklet/internal/errors"
)

const (
	mimeCSS  = "text/css"
	mimeJS   = "application/javascript"
	mimeHTML = "text/html"
)

var m = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFunc(mimeJS, js.Minify)
	m.Add(mimeHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

// CSS minifies a style section.
func CSS(src string) (string, error) {
	out, err := m.String(mimeCSS, src)
	if err != nil {
		return "", errors.NewBuildError(
			errors.ErrCodeMinifyFailed,
			"minifying css",
			err,
		)
	}
	return out, nil
}

// JS minifies a script section.
func JS(src string) (string, error) {
	out, err := m.String(mimeJS, src)
	if err != nil {
		return "", errors.NewBuildError(
			errors.ErrCodeMinifyFailed,
			"minifying js",
			err,
		)
	}
	return out, nil
}

// HTML minifies a template section.
func HTML(src string) (string, error) {
	out, err := m.String(mimeHTML, src)
	if err != nil {
		return "", errors.NewBuildError(
			errors.ErrCodeMinifyFailed,
			"minifying html",
			err,
		)
	}
	return out, nil
}
