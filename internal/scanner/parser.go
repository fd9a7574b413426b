package scanner

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/types"
	"github.com/conneroisu/marklet/internal/validation"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// titleCaser renders default display titles from component names.
var titleCaser = cases.Title(language.English)

// parseComponentFile parses a component source file into a Component. The
// file shape is: an optional leading metadata comment, any number of
// top-level <style> and <script> elements, and exactly one top-level
// <template> element. Section bytes are preserved exactly as written.
func parseComponentFile(path string, content []byte, modTime time.Time) (*types.Component, error) {
	sourceBytes := int64(len(content))
	content = bytes.TrimPrefix(content, utf8BOM)

	if !utf8.Valid(content) {
		return nil, errors.NewParseError(
			errors.ErrCodeSectionInvalid,
			"component file is not valid UTF-8",
			nil,
		).WithLocation(path, 0, 0)
	}

	component := &types.Component{
		FilePath:    path,
		LastMod:     modTime,
		SourceBytes: sourceBytes,
	}

	p := &fileParser{
		z:       html.NewTokenizer(bytes.NewReader(content)),
		content: content,
		path:    path,
	}

	var styles, scripts []string
	templateCount := 0
	sawContent := false

tokens:
	for {
		tt := p.next()
		switch tt {
		case html.ErrorToken:
			if p.z.Err() == io.EOF {
				break tokens
			}
			return nil, errors.NewParseError(
				errors.ErrCodeSectionInvalid,
				"tokenizing component file",
				p.z.Err(),
			).WithLocation(path, p.line(), 0)

		case html.TextToken:
			if text := strings.TrimSpace(string(p.z.Text())); text != "" {
				return nil, p.errorf("unexpected top-level text %q", truncate(text, 40))
			}

		case html.CommentToken:
			if sawContent {
				return nil, p.errorf("unexpected comment, the metadata comment must lead the file")
			}
			sawContent = true
			if err := parseFrontMatter(string(p.z.Text()), component); err != nil {
				return nil, err.WithLocation(path, p.line(), 0)
			}

		case html.StartTagToken:
			sawContent = true
			name, attrs := p.tagWithAttrs()
			switch name {
			case "style":
				raw, err := p.readRawSection("style")
				if err != nil {
					return nil, err
				}
				styles = append(styles, raw)
			case "script":
				for _, attr := range attrs {
					if attr.key == "src" {
						return nil, p.errorf("external script reference src=%q, components are self-contained", attr.val)
					}
				}
				raw, err := p.readRawSection("script")
				if err != nil {
					return nil, err
				}
				scripts = append(scripts, raw)
			case "template":
				templateCount++
				if templateCount > 1 {
					return nil, p.errorf("multiple <template> sections, a component has exactly one")
				}
				raw, err := p.readTemplate()
				if err != nil {
					return nil, err
				}
				component.Markup = raw
			case "link":
				return nil, p.errorf("external reference <link>, components are self-contained")
			default:
				return nil, p.errorf("unexpected top-level element <%s>", name)
			}

		case html.SelfClosingTagToken:
			name, _ := p.tagWithAttrs()
			return nil, p.errorf("unexpected self-closing element <%s/>", name)

		case html.EndTagToken:
			name, _ := p.tagWithAttrs()
			return nil, p.errorf("unexpected end tag </%s>", name)

		case html.DoctypeToken:
			return nil, p.errorf("unexpected doctype, component files are fragments")
		}
	}

	if templateCount == 0 {
		return nil, errors.NewParseError(
			errors.ErrCodeSectionInvalid,
			"component file has no <template> section",
			nil,
		).WithLocation(path, 0, 0)
	}

	component.Style = strings.Join(styles, "\n")
	component.Script = strings.Join(scripts, "\n")

	if component.Name == "" {
		base := filepath.Base(path)
		component.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := validation.ComponentName(component.Name); err != nil {
		if merr, ok := errors.AsMarkletError(err); ok {
			return nil, merr.WithLocation(path, 0, 0)
		}
		return nil, err
	}

	if component.Title == "" {
		component.Title = titleCaser.String(strings.ReplaceAll(component.Name, "-", " "))
	}

	return component, nil
}

// parseFrontMatter decodes the metadata comment into component fields.
// Recognized keys fill the typed fields; unknown keys are preserved in Extra.
func parseFrontMatter(comment string, component *types.Component) *errors.MarkletError {
	text := strings.TrimSpace(comment)
	if text == "" {
		return nil
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return errors.NewParseError(
			errors.ErrCodeMetadataInvalid,
			"metadata comment is not a YAML mapping",
			err,
		)
	}

	for key, value := range raw {
		switch strings.ToLower(key) {
		case "name":
			component.Name = stringValue(value)
		case "title":
			component.Title = validation.SanitizeInput(stringValue(value))
		case "version":
			component.Version = stringValue(value)
		case "description":
			component.Description = validation.SanitizeInput(stringValue(value))
		case "author":
			component.Author = validation.SanitizeInput(stringValue(value))
		case "tags":
			component.Tags = stringSliceValue(value)
		default:
			if component.Extra == nil {
				component.Extra = make(map[string]interface{})
			}
			component.Extra[key] = value
		}
	}

	return nil
}

// stringValue renders a YAML scalar as a string. Bare numbers are common in
// version fields (version: 1.4 parses as a float).
func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// stringSliceValue accepts either a YAML sequence or a single scalar.
func stringSliceValue(value interface{}) []string {
	switch v := value.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringValue(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{stringValue(v)}
	}
}

// tagAttr is one parsed attribute of a start tag.
type tagAttr struct {
	key string
	val string
}

// fileParser walks the token stream while tracking byte offsets, so section
// contents can be sliced out of the original source exactly as written.
type fileParser struct {
	z       *html.Tokenizer
	content []byte
	path    string

	// tokenStart and offset delimit the raw bytes of the current token.
	tokenStart int
	offset     int
}

// next advances the tokenizer and the offset bookkeeping.
func (p *fileParser) next() html.TokenType {
	tt := p.z.Next()
	p.tokenStart = p.offset
	p.offset += len(p.z.Raw())
	return tt
}

// line is the 1-based line of the current token's first byte.
func (p *fileParser) line() int {
	if p.tokenStart > len(p.content) {
		return 0
	}
	return 1 + bytes.Count(p.content[:p.tokenStart], []byte("\n"))
}

// errorf builds a located parse error for the current token.
func (p *fileParser) errorf(format string, args ...interface{}) error {
	return errors.NewParseError(
		errors.ErrCodeSectionInvalid,
		fmt.Sprintf(format, args...),
		nil,
	).WithLocation(p.path, p.line(), 0)
}

// tagWithAttrs returns the current tag's lowercased name and attributes.
func (p *fileParser) tagWithAttrs() (string, []tagAttr) {
	name, hasAttr := p.z.TagName()

	var attrs []tagAttr
	for hasAttr {
		key, val, more := p.z.TagAttr()
		attrs = append(attrs, tagAttr{key: string(key), val: string(val)})
		hasAttr = more
	}

	return string(name), attrs
}

// readRawSection consumes a raw-text element body (style, script) up to its
// end tag and returns the bytes between the tags untouched.
func (p *fileParser) readRawSection(name string) (string, error) {
	start := p.offset
	for {
		tt := p.next()
		switch tt {
		case html.ErrorToken:
			return "", p.errorf("unterminated <%s> section", name)
		case html.EndTagToken:
			tagName, _ := p.z.TagName()
			if string(tagName) == name {
				return string(p.content[start:p.tokenStart]), nil
			}
		}
	}
}

// readTemplate consumes the template element body, balancing nested
// templates, and returns the inner markup bytes untouched.
func (p *fileParser) readTemplate() (string, error) {
	start := p.offset
	depth := 1
	for {
		tt := p.next()
		switch tt {
		case html.ErrorToken:
			return "", p.errorf("unterminated <template> section")
		case html.StartTagToken:
			tagName, _ := p.z.TagName()
			if string(tagName) == "template" {
				depth++
			}
		case html.EndTagToken:
			tagName, _ := p.z.TagName()
			if string(tagName) == "template" {
				depth--
				if depth == 0 {
					return string(p.content[start:p.tokenStart]), nil
				}
			}
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
