// Package internal contains the core implementation packages for marklet.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the marklet CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - scanner: Component file discovery and section parsing
//   - registry: In-memory component registry with name collision detection
//   - validation: Name, style, script, and markup validation rules
//   - minify: Section minification backed by tdewolff/minify
//   - build: Build pipeline with worker pools, caching, and metrics
//   - bookmarklet: javascript: URI encoding and size accounting
//   - config: Configuration loading, defaults, and validation
//   - scaffolding: Component and project generation from builtin templates
//   - errors: Structured error types, codes, and error collection
//   - logging: Structured logging built on log/slog
//   - types: Shared component data structures
//   - version: Build-time version metadata
//
// # Data Flow
//
// A build runs the packages as a pipeline:
//
//   - Scanner walks the configured paths and parses component files
//   - Registry holds the parsed components and rejects duplicate names
//   - Validation checks every section before compilation
//   - Minify compresses markup, style, and script per component
//   - Build splices the compiled registry into the loader template
//   - Bookmarklet encodes the loader into a javascript: URI
//   - Build emits the loader script, URI file, and install page atomically
//
// # Design Principles
//
// All internal packages follow these design principles:
//
//   - Fail with structured errors that carry a code and file location
//   - Report every problem in a pass instead of stopping at the first
//   - Concurrent safety with proper mutex usage and race protection
//   - Deterministic output for identical input trees
//
// For detailed documentation, see the individual package documentation.
package internal
