//go:build property
// +build property

package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/marklet/internal/registry"
)

// TestScannerProperties tests invariant properties of the component scanner
func TestScannerProperties(t *testing.T) {
	t.Chdir(t.TempDir())

	properties := gopter.NewProperties(nil)

	// Property 1: Scanning the same directory with two independent scanners
	// yields identical registries, names and hashes included
	properties.Property("scanner idempotency", prop.ForAll(
		func(componentName string) bool {
			caseDir, err := os.MkdirTemp(".", "case-")
			if err != nil {
				return true // Skip on environment error
			}
			defer os.RemoveAll(caseDir)

			source := fmt.Sprintf(`<!--
name: %s
version: 1.0.0
-->
<style>.%s { display: block; }</style>
<template><div class=%q></div></template>`, componentName, componentName, componentName)

			componentFile := filepath.Join(caseDir, componentName+".html")
			if err := os.WriteFile(componentFile, []byte(source), 0644); err != nil {
				return true // Skip on write error
			}

			registry1 := registry.NewComponentRegistry()
			scanner1 := NewComponentScanner(registry1)
			defer scanner1.Close()

			registry2 := registry.NewComponentRegistry()
			scanner2 := NewComponentScanner(registry2)
			defer scanner2.Close()

			if err := scanner1.ScanDirectory(caseDir); err != nil {
				return false
			}
			if err := scanner2.ScanDirectory(caseDir); err != nil {
				return false
			}

			components1 := registry1.GetAll()
			components2 := registry2.GetAll()

			if len(components1) != 1 || len(components2) != 1 {
				return false
			}

			comp1, comp2 := components1[0], components2[0]
			return comp1.Name == comp2.Name &&
				comp1.Hash == comp2.Hash &&
				comp1.Markup == comp2.Markup &&
				comp1.Style == comp2.Style
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 20
		}),
	))

	// Property 2: Scanner should consistently handle empty directories
	properties.Property("empty directory consistency", prop.ForAll(
		func() bool {
			caseDir, err := os.MkdirTemp(".", "empty-")
			if err != nil {
				return true
			}
			defer os.RemoveAll(caseDir)

			reg := registry.NewComponentRegistry()
			scanner := NewComponentScanner(reg)
			defer scanner.Close()

			// Scan empty directory multiple times
			for i := 0; i < 3; i++ {
				if err := scanner.ScanDirectory(caseDir); err != nil {
					return false
				}
			}

			return reg.Count() == 0
		},
	))

	// Property 3: An exclude pattern matching every file always yields an
	// empty registry, regardless of directory contents
	properties.Property("exclude pattern totality", prop.ForAll(
		func(componentName string) bool {
			caseDir, err := os.MkdirTemp(".", "excl-")
			if err != nil {
				return true
			}
			defer os.RemoveAll(caseDir)

			source := `<template><div></div></template>`
			componentFile := filepath.Join(caseDir, componentName+".html")
			if err := os.WriteFile(componentFile, []byte(source), 0644); err != nil {
				return true
			}

			reg := registry.NewComponentRegistry()
			scanner := NewComponentScanner(reg)
			defer scanner.Close()
			scanner.SetExcludePatterns([]string{"*.html"})

			if err := scanner.ScanDirectory(caseDir); err != nil {
				return false
			}

			return reg.Count() == 0
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 20
		}),
	))

	properties.TestingRun(t)
}

// TestComponentParsingProperties tests properties of component file parsing
func TestComponentParsingProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: A well-formed component file always parses to a component
	// carrying the declared name
	properties.Property("valid component parsing", prop.ForAll(
		func(componentName, version string) bool {
			source := fmt.Sprintf(`<!--
name: %s
version: %q
-->
<template><div></div></template>`, componentName, version)

			component, err := parseComponentFile("prop.html", []byte(source), time.Now())
			if err != nil {
				return false
			}

			return component.Name == componentName && component.Version == version
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 20
		}),
		gen.RegexMatch(`^[0-9]\.[0-9]\.[0-9]$`),
	))

	// Property: Section bytes survive parsing untouched
	properties.Property("section bytes preserved", prop.ForAll(
		func(payload string) bool {
			source := "<style>" + payload + "</style>\n<template><div></div></template>"

			component, err := parseComponentFile("prop.html", []byte(source), time.Now())
			if err != nil {
				return false
			}

			return component.Style == payload
		},
		gen.RegexMatch(`^[a-z0-9 :;.{}-]*$`),
	))

	// Property: Parsing is deterministic, two parses of the same bytes agree
	properties.Property("parsing determinism", prop.ForAll(
		func(componentName string) bool {
			source := fmt.Sprintf(`<!--
name: %s
-->
<script>void 0;</script>
<template><span></span></template>`, componentName)

			first, err1 := parseComponentFile("prop.html", []byte(source), time.Now())
			second, err2 := parseComponentFile("prop.html", []byte(source), time.Now())

			if (err1 == nil) != (err2 == nil) {
				return false
			}
			if err1 != nil {
				return true
			}

			return first.Name == second.Name &&
				first.Title == second.Title &&
				first.Markup == second.Markup &&
				first.Script == second.Script
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 20
		}),
	))

	properties.TestingRun(t)
}

// TestScannerConcurrencyProperties tests concurrent scanner behavior
func TestScannerConcurrencyProperties(t *testing.T) {
	t.Chdir(t.TempDir())

	properties := gopter.NewProperties(nil)

	// Property: Concurrent scanning of the same directory is thread-safe and
	// every scanner observes the same component set
	properties.Property("concurrent scanning safety", prop.ForAll(
		func(numGoroutines int) bool {
			caseDir, err := os.MkdirTemp(".", "conc-")
			if err != nil {
				return true
			}
			defer os.RemoveAll(caseDir)

			source := `<!--
name: shared-widget
-->
<template><div></div></template>`
			componentFile := filepath.Join(caseDir, "shared-widget.html")
			if err := os.WriteFile(componentFile, []byte(source), 0644); err != nil {
				return true
			}

			results := make(chan int, numGoroutines)
			for i := 0; i < numGoroutines; i++ {
				go func() {
					reg := registry.NewComponentRegistry()
					scanner := NewComponentScanner(reg)
					defer scanner.Close()

					if err := scanner.ScanDirectory(caseDir); err != nil {
						results <- 0
						return
					}
					results <- reg.Count()
				}()
			}

			for i := 0; i < numGoroutines; i++ {
				select {
				case count := <-results:
					if count != 1 {
						return false
					}
				case <-time.After(5 * time.Second):
					return false // Timeout
				}
			}

			return true
		},
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
