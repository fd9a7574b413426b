//go:build property
// +build property

package bookmarklet

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestEncodeProperties tests invariant properties of the URI encoder
func TestEncodeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: decoding an encoded script restores it exactly
	properties.Property("decode inverts encode", prop.ForAll(
		func(script string) bool {
			decoded, err := Decode(Encode(script))
			return err == nil && decoded == script
		},
		gen.AnyString(),
	))

	// Property 2: encoded output is pure printable ASCII
	properties.Property("output is printable ascii", prop.ForAll(
		func(script string) bool {
			uri := Encode(script)
			for i := 0; i < len(uri); i++ {
				if uri[i] <= 0x20 || uri[i] >= 0x7F {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	// Property 3: no attribute-breaking characters survive past the scheme
	properties.Property("unsafe characters never survive", prop.ForAll(
		func(script string) bool {
			body := strings.TrimPrefix(Encode(script), Scheme)
			return !strings.ContainsAny(body, "\"'<>\\`#")
		},
		gen.AnyString(),
	))

	// Property 4: encoding never shrinks the script
	properties.Property("encoding never shrinks", prop.ForAll(
		func(script string) bool {
			return len(Encode(script)) >= len(Scheme)+len(script)
		},
		gen.AnyString(),
	))

	// Property 5: encoding is deterministic
	properties.Property("encoding is deterministic", prop.ForAll(
		func(script string) bool {
			return Encode(script) == Encode(script)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestCheckSizeProperties tests the URI budget check
func TestCheckSizeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: a budget at or above the URI length always passes, a
	// positive budget below it always fails, zero always passes
	properties.Property("budget check boundary", prop.ForAll(
		func(script string, slack int) bool {
			uri := Encode(script)

			if err := CheckSize(uri, 0); err != nil {
				return false
			}
			if err := CheckSize(uri, len(uri)+slack); err != nil {
				return false
			}

			below := len(uri) - 1
			if below <= 0 {
				return true // Scheme alone cannot go below 1 byte
			}
			return CheckSize(uri, below) != nil
		},
		gen.AnyString(),
		gen.IntRange(0, 1024),
	))

	properties.TestingRun(t)
}
