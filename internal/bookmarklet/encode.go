// Package bookmarklet turns the aggregated loader script into a javascript:
// URI and renders the install page that carries it.
package bookmarklet

import (
	"fmt"
	"strings"

	"github.com/conneroisu/marklet/internal/errors"
)

// Scheme prefixes every encoded bookmarklet URI.
const Scheme = "javascript:"

const upperhex = "0123456789ABCDEF"

// Encode wraps a script in a javascript: URI. Every byte outside the safe
// set is percent-encoded as uppercase %XX: control bytes, whitespace and
// non-ASCII bytes always encode, as do the characters that break out of
// href attributes or confuse URI parsing (% " ' < > \ ` #). The result is
// pure printable ASCII and Decode restores the input exactly.
func Encode(script string) string {
	var b strings.Builder
	b.Grow(len(Scheme) + len(script) + len(script)/4)
	b.WriteString(Scheme)

	for i := 0; i < len(script); i++ {
		c := script[i]
		if safeByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0F])
	}

	return b.String()
}

// Decode reverses Encode. It fails on a missing scheme or a malformed
// percent escape.
func Decode(uri string) (string, error) {
	s, ok := strings.CutPrefix(uri, Scheme)
	if !ok {
		return "", errors.NewEncodeError(
			errors.ErrCodeURIMalformed,
			fmt.Sprintf("bookmarklet URI does not start with %q", Scheme),
		)
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}

		if i+2 >= len(s) {
			return "", errors.NewEncodeError(
				errors.ErrCodeURIMalformed,
				fmt.Sprintf("truncated percent escape at offset %d", i),
			)
		}

		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", errors.NewEncodeError(
				errors.ErrCodeURIMalformed,
				fmt.Sprintf("invalid percent escape %q at offset %d", s[i:i+3], i),
			)
		}

		b.WriteByte(hi<<4 | lo)
		i += 2
	}

	return b.String(), nil
}

// CheckSize enforces the configured URI byte budget. A budget of zero or
// less means unlimited.
func CheckSize(uri string, maxBytes int) error {
	if maxBytes <= 0 {
		return nil
	}

	if len(uri) > maxBytes {
		return errors.NewEncodeError(
			errors.ErrCodeURITooLarge,
			fmt.Sprintf("bookmarklet URI is %d bytes, budget is %d bytes", len(uri), maxBytes),
		)
	}

	return nil
}

// safeByte reports whether a byte may appear verbatim in the URI.
func safeByte(c byte) bool {
	if c <= 0x20 || c >= 0x7F {
		return false
	}

	switch c {
	case '%', '"', '\'', '<', '>', '\\', '`', '#':
		return false
	}

	return true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
