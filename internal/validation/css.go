package validation

import (
	"fmt"
	"strings"

	"github.com/conneroisu/marklet/internal/errors"
)

// allowedProperties is the built-in CSS property allow-list. Components style
// themselves with standard layout, box, typography, color, background,
// border, flex, grid, transition, animation and transform properties; anything
// capable of pulling in external resources (src, @import) or hooking legacy
// scripting surfaces (behavior, binding) is absent on purpose. Config may
// extend the list but never shrink it.
var allowedProperties = map[string]bool{
	// Layout and positioning
	"display": true, "position": true, "top": true, "right": true,
	"bottom": true, "left": true, "inset": true, "inset-block": true,
	"inset-inline": true, "float": true, "clear": true, "z-index": true,
	"overflow": true, "overflow-x": true, "overflow-y": true,
	"visibility": true, "clip-path": true, "object-fit": true,
	"object-position": true, "aspect-ratio": true, "box-sizing": true,
	"contain": true, "isolation": true,

	// Box model
	"width": true, "height": true, "min-width": true, "min-height": true,
	"max-width": true, "max-height": true,
	"margin": true, "margin-top": true, "margin-right": true,
	"margin-bottom": true, "margin-left": true, "margin-block": true,
	"margin-inline": true,
	"padding": true, "padding-top": true, "padding-right": true,
	"padding-bottom": true, "padding-left": true, "padding-block": true,
	"padding-inline": true,

	// Borders and outlines
	"border": true, "border-top": true, "border-right": true,
	"border-bottom": true, "border-left": true,
	"border-width": true, "border-top-width": true, "border-right-width": true,
	"border-bottom-width": true, "border-left-width": true,
	"border-style": true, "border-top-style": true, "border-right-style": true,
	"border-bottom-style": true, "border-left-style": true,
	"border-color": true, "border-top-color": true, "border-right-color": true,
	"border-bottom-color": true, "border-left-color": true,
	"border-radius": true, "border-top-left-radius": true,
	"border-top-right-radius": true, "border-bottom-left-radius": true,
	"border-bottom-right-radius": true,
	"border-collapse": true, "border-spacing": true,
	"outline": true, "outline-width": true, "outline-style": true,
	"outline-color": true, "outline-offset": true,
	"box-shadow": true,

	// Typography
	"font": true, "font-family": true, "font-size": true, "font-style": true,
	"font-weight": true, "font-variant": true, "font-stretch": true,
	"line-height": true, "letter-spacing": true, "word-spacing": true,
	"text-align": true, "text-decoration": true, "text-decoration-line": true,
	"text-decoration-color": true, "text-decoration-style": true,
	"text-decoration-thickness": true, "text-transform": true,
	"text-indent": true, "text-overflow": true, "text-shadow": true,
	"text-rendering": true, "white-space": true, "word-break": true,
	"word-wrap": true, "overflow-wrap": true, "hyphens": true,
	"tab-size": true, "vertical-align": true, "direction": true,
	"unicode-bidi": true, "writing-mode": true, "user-select": true,
	"caret-color": true,

	// Color and background
	"color": true, "background": true, "background-color": true,
	"background-image": true, "background-position": true,
	"background-size": true, "background-repeat": true,
	"background-attachment": true, "background-origin": true,
	"background-clip": true, "background-blend-mode": true,
	"opacity": true, "mix-blend-mode": true, "filter": true,
	"backdrop-filter": true, "accent-color": true, "image-rendering": true,

	// Flexbox
	"flex": true, "flex-direction": true, "flex-wrap": true,
	"flex-flow": true, "flex-grow": true, "flex-shrink": true,
	"flex-basis": true, "justify-content": true, "align-items": true,
	"align-content": true, "align-self": true, "order": true,
	"gap": true, "row-gap": true, "column-gap": true,
	"place-items": true, "place-content": true, "place-self": true,
	"justify-items": true, "justify-self": true,

	// Grid
	"grid": true, "grid-template": true, "grid-template-columns": true,
	"grid-template-rows": true, "grid-template-areas": true,
	"grid-area": true, "grid-row": true, "grid-column": true,
	"grid-row-start": true, "grid-row-end": true,
	"grid-column-start": true, "grid-column-end": true,
	"grid-auto-flow": true, "grid-auto-rows": true, "grid-auto-columns": true,

	// Transitions and animations
	"transition": true, "transition-property": true,
	"transition-duration": true, "transition-timing-function": true,
	"transition-delay": true,
	"animation": true, "animation-name": true, "animation-duration": true,
	"animation-timing-function": true, "animation-delay": true,
	"animation-iteration-count": true, "animation-direction": true,
	"animation-fill-mode": true, "animation-play-state": true,
	"will-change": true,

	// Transforms
	"transform": true, "transform-origin": true, "transform-style": true,
	"perspective": true, "perspective-origin": true,
	"backface-visibility": true, "rotate": true, "scale": true,
	"translate": true,

	// Lists, tables, columns
	"list-style": true, "list-style-type": true, "list-style-position": true,
	"list-style-image": true, "table-layout": true, "caption-side": true,
	"empty-cells": true,
	"columns": true, "column-count": true, "column-width": true,
	"column-rule": true, "column-rule-width": true,
	"column-rule-style": true, "column-rule-color": true, "column-span": true,

	// Generated content and counters
	"content": true, "counter-reset": true, "counter-increment": true,
	"quotes": true,

	// Interaction and scrolling
	"cursor": true, "pointer-events": true, "resize": true,
	"scroll-behavior": true, "scroll-margin": true, "scroll-padding": true,
	"scrollbar-width": true, "scrollbar-color": true, "touch-action": true,
	"appearance": true, "all": true,

	// Fragmentation
	"break-inside": true, "break-before": true, "break-after": true,
	"page-break-inside": true, "page-break-before": true,
	"page-break-after": true,
}

// vendorPrefixes are stripped from property names before the allow-list
// lookup, so -webkit-transform is judged as transform.
var vendorPrefixes = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

// declaration is one property declaration found by the style scanner.
type declaration struct {
	property string
	line     int
}

// StyleSource validates a style section against the property allow-list.
// extraAllowed extends the built-in list with config-supplied property names.
// The first disallowed property fails the check with its name and line.
func StyleSource(css string, extraAllowed []string) error {
	decls, err := scanDeclarations(css)
	if err != nil {
		return err
	}

	var extra map[string]bool
	if len(extraAllowed) > 0 {
		extra = make(map[string]bool, len(extraAllowed))
		for _, p := range extraAllowed {
			extra[strings.ToLower(strings.TrimSpace(p))] = true
		}
	}

	for _, d := range decls {
		prop := strings.ToLower(d.property)

		// Custom properties are always fine.
		if strings.HasPrefix(prop, "--") {
			continue
		}

		base := prop
		for _, prefix := range vendorPrefixes {
			if strings.HasPrefix(prop, prefix) {
				base = strings.TrimPrefix(prop, prefix)
				break
			}
		}

		if allowedProperties[base] || extra[base] || extra[prop] {
			continue
		}

		return errors.NewValidationError(
			errors.ErrCodeStyleProperty,
			fmt.Sprintf("line %d: css property %q is not allowed", d.line, d.property),
		)
	}

	return nil
}

// IsAllowedProperty reports whether a single property name passes the
// built-in allow-list after vendor prefix stripping. Used by the validate
// command to explain individual findings.
func IsAllowedProperty(property string) bool {
	prop := strings.ToLower(strings.TrimSpace(property))
	if strings.HasPrefix(prop, "--") {
		return true
	}
	for _, prefix := range vendorPrefixes {
		if strings.HasPrefix(prop, prefix) {
			prop = strings.TrimPrefix(prop, prefix)
			break
		}
	}
	return allowedProperties[prop]
}

// styleScanner walks raw CSS text and extracts declaration property names.
// It is not a CSS parser: it tracks just enough structure (comments, strings,
// blocks, at-rules) to tell `color: red;` apart from `a:hover {`.
type styleScanner struct {
	src  string
	pos  int
	line int
}

// scanDeclarations returns every declaration property in source order.
// Structural problems (unbalanced braces, unterminated comments, @import)
// fail the scan.
func scanDeclarations(css string) ([]declaration, error) {
	s := &styleScanner{src: css, line: 1}
	var decls []declaration
	depth := 0

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case c == '/' && s.peek(1) == '*':
			if !s.skipComment() {
				return nil, errors.NewValidationError(
					errors.ErrCodeSectionInvalid,
					fmt.Sprintf("line %d: unterminated css comment", s.line),
				)
			}
		case c == '"' || c == '\'':
			s.skipString(c)
		case c == '{':
			depth++
			s.pos++
		case c == '}':
			depth--
			if depth < 0 {
				return nil, errors.NewValidationError(
					errors.ErrCodeSectionInvalid,
					fmt.Sprintf("line %d: unbalanced '}' in style section", s.line),
				)
			}
			s.pos++
		case c == '@':
			name := s.readAtKeyword()
			if name == "import" || name == "charset" {
				return nil, errors.NewValidationError(
					errors.ErrCodeSectionInvalid,
					fmt.Sprintf("line %d: @%s is not allowed, components are self-contained", s.line, name),
				)
			}
		case depth > 0 && isIdentStart(c):
			if d, ok := s.readDeclaration(); ok {
				decls = append(decls, d)
			}
		default:
			s.pos++
		}
	}

	if depth > 0 {
		return nil, errors.NewValidationError(
			errors.ErrCodeSectionInvalid,
			"unclosed block at end of style section",
		)
	}

	return decls, nil
}

func (s *styleScanner) peek(ahead int) byte {
	if s.pos+ahead < len(s.src) {
		return s.src[s.pos+ahead]
	}
	return 0
}

// skipComment consumes a /* */ comment. Returns false when the comment never
// terminates.
func (s *styleScanner) skipComment() bool {
	s.pos += 2
	for s.pos < len(s.src) {
		if s.src[s.pos] == '\n' {
			s.line++
		} else if s.src[s.pos] == '*' && s.peek(1) == '/' {
			s.pos += 2
			return true
		}
		s.pos++
	}
	return false
}

// skipString consumes a quoted string including its delimiters, honoring
// backslash escapes. Unterminated strings end at EOF or an unescaped newline.
func (s *styleScanner) skipString(quote byte) {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '\\':
			if s.peek(1) == '\n' {
				s.line++
			}
			s.pos += 2
		case quote:
			s.pos++
			return
		case '\n':
			// CSS strings cannot contain raw newlines. Treat as terminated
			// and let the main loop count the newline.
			return
		default:
			s.pos++
		}
	}
}

// readAtKeyword consumes '@' plus the following identifier and returns the
// identifier lowercased. The prelude and any block are left to the main loop.
func (s *styleScanner) readAtKeyword() string {
	s.pos++
	start := s.pos
	for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	return strings.ToLower(s.src[start:s.pos])
}

func (s *styleScanner) readIdent() string {
	start := s.pos
	for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// skipSpaceAndComments consumes whitespace and comments between tokens.
func (s *styleScanner) skipSpaceAndComments() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f':
			s.pos++
		case c == '/' && s.peek(1) == '*':
			if !s.skipComment() {
				return
			}
		default:
			return
		}
	}
}

// readDeclaration reads an identifier and decides whether it opens a
// declaration. `prop: value` terminated by ';' or '}' is a declaration;
// an identifier whose colon leads to '{' first is selector text (a
// pseudo-class) and is skipped without recording.
func (s *styleScanner) readDeclaration() (declaration, bool) {
	startLine := s.line
	ident := s.readIdent()

	s.skipSpaceAndComments()
	if s.pos >= len(s.src) || s.src[s.pos] != ':' {
		return declaration{}, false
	}
	s.pos++

	// Walk the value until a terminator at parenthesis depth zero. '{' means
	// the colon belonged to a selector.
	parens := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case c == '/' && s.peek(1) == '*':
			if !s.skipComment() {
				return declaration{}, false
			}
		case c == '"' || c == '\'':
			s.skipString(c)
		case c == '(':
			parens++
			s.pos++
		case c == ')':
			if parens > 0 {
				parens--
			}
			s.pos++
		case c == ';' && parens == 0:
			s.pos++
			return declaration{property: ident, line: startLine}, true
		case c == '}' && parens == 0:
			// Leave the brace for the main loop to balance.
			return declaration{property: ident, line: startLine}, true
		case c == '{' && parens == 0:
			// Selector pseudo-class; the main loop picks up at the block.
			return declaration{}, false
		default:
			s.pos++
		}
	}

	// Declaration running to EOF. Record it; the unclosed block check in the
	// main loop reports the structural problem.
	return declaration{property: ident, line: startLine}, true
}

func isIdentStart(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
