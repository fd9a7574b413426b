package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/marklet/internal/errors"
)

// ScriptSource validates a component script section. The aggregated script is
// inlined into the install page, so a literal </script would terminate the
// surrounding element no matter how it is quoted inside the JS.
func ScriptSource(js string) error {
	if !utf8.ValidString(js) {
		return errors.NewValidationError(
			errors.ErrCodeSectionInvalid,
			"script section is not valid UTF-8",
		)
	}

	if idx := indexCaseInsensitive(js, "</script"); idx >= 0 {
		line := 1 + strings.Count(js[:idx], "\n")
		return errors.NewValidationError(
			errors.ErrCodeScriptUnsafe,
			fmt.Sprintf("line %d: script section contains \"</script\", which would terminate the inline loader", line),
		)
	}

	return nil
}

// MarkupSource validates a component template section: it must parse as an
// HTML fragment, may not smuggle script or style elements (those belong in
// their own sections), and may not reference external resources via link.
func MarkupSource(markup string) error {
	if !utf8.ValidString(markup) {
		return errors.NewValidationError(
			errors.ErrCodeSectionInvalid,
			"template section is not valid UTF-8",
		)
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return errors.NewParseError(
			errors.ErrCodeMarkupInvalid,
			"template section is not parseable HTML",
			err,
		)
	}

	for _, n := range nodes {
		switch bad := findForbiddenElement(n); bad {
		case "":
		case "link":
			return errors.NewValidationError(
				errors.ErrCodeMarkupInvalid,
				"template section contains a <link> element, components are self-contained",
			)
		default:
			return errors.NewValidationError(
				errors.ErrCodeMarkupInvalid,
				fmt.Sprintf("template section contains a <%s> element, move it to its own section", bad),
			)
		}
	}

	return nil
}

// findForbiddenElement walks a parsed fragment looking for script, style or
// link elements. Returns the offending tag name, or "" when the subtree is
// clean.
func findForbiddenElement(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Link:
			return n.Data
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if bad := findForbiddenElement(child); bad != "" {
			return bad
		}
	}

	return ""
}

// indexCaseInsensitive reports the index of the first case-insensitive match
// of needle in haystack, or -1. Needle is expected lowercase ASCII.
func indexCaseInsensitive(haystack, needle string) int {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return -1
	}

	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := 0; j < len(needle); j++ {
			c := haystack[i+j]
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}

	return -1
}
