// Package docs provides an overview of marklet, a compiler for
// self-contained HTML components that ship as a single bookmarklet.
//
// Marklet takes a directory of component files, where each .html file
// carries its metadata, style, script, and template in one document, and
// compiles them into an aggregated loader script, a javascript: URI, and
// an install page for dragging the bookmarklet into a browser toolbar.
//
// # Key Features
//
//   - Component Discovery: Automatic scanning of .html component files
//   - Section Validation: Style, script, and markup checks before compilation
//   - Build Pipeline: Concurrent compilation with content-hash caching
//   - Minification: CSS, JS, and HTML minification per section
//   - Bookmarklet Encoding: javascript: URI generation with size budgets
//   - Install Page: A ready-to-use HTML page with the drag-to-toolbar link
//
// # Quick Start
//
//	// Initialize a new marklet project
//	marklet init
//
//	// Compile every component into dist/
//	marklet build
//
//	// List discovered components
//	marklet list
//
//	// Validate components without building
//	marklet validate
//
//	// Scaffold a new component from a template
//	marklet generate my-widget
//
// # Architecture
//
// The marklet module is organized into several core components:
//
//   - CLI Commands (cmd/): Cobra-based command interface
//   - Component Scanner (internal/scanner/): File discovery and parsing
//   - Component Registry (internal/registry/): Central component management
//   - Build Pipeline (internal/build/): Multi-worker build system with caching
//   - Bookmarklet Encoder (internal/bookmarklet/): javascript: URI encoding
//   - Configuration (internal/config/): Viper-based configuration management
//
// # Configuration
//
// Marklet supports configuration through multiple sources:
//
//   - Configuration file (.marklet.yml)
//   - Environment variables (MARKLET_*)
//   - Command-line flags
//
// Example configuration:
//
//	components:
//	  scan_paths:
//	    - "./components"
//	  exclude_patterns:
//	    - "*_draft.html"
//	    - "*.bak"
//
//	build:
//	  output: "dist"
//	  minify: true
//	  workers: 0
//	  compress: false
//
//	style:
//	  allow_properties: []
//
//	log_level: info
//
// # Performance
//
// Marklet is optimized for fast rebuilds:
//
//   - Content-hash caching skips recompiling unchanged components
//   - Concurrent worker pools for parallel minification
//   - Single-pass scanning with pooled read buffers
//   - Atomic artifact writes so a failed build never corrupts dist/
//
// For more information, see the individual package documentation.
package docs
