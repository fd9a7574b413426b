// Package cmd provides the command-line interface for marklet.
//
// This package implements all CLI commands using the Cobra framework,
// covering the full lifecycle of a bookmarklet component project.
//
// # Available Commands
//
//   - init: Initialize a new project (config, components dir, starter component)
//   - build: Compile components into the bookmarklet artifacts
//   - list: List all discovered components with metadata
//   - validate: Check component sources and report every finding
//   - generate: Scaffold a new component from a builtin template
//   - doctor: Diagnose configuration and project setup issues
//   - config: Print the resolved effective configuration
//   - version: Show version information
//
// # Command Examples
//
//	// Initialize a new project
//	marklet init
//
//	// Compile everything under components/ into dist/
//	marklet build
//
//	// Compile selected components without minification
//	marklet build --no-minify clock speed-dial
//
//	// List components with JSON output
//	marklet list --format json --with-sizes
//
//	// Validate sources, reporting all errors
//	marklet validate
//
//	// Scaffold a panel component with a docs stub
//	marklet generate speed-dial --template panel --with-docs
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (MARKLET_*)
//  3. Configuration file (.marklet.yml)
//  4. Default values (lowest priority)
//
// # Error Handling
//
// Commands return structured errors with stable ERR_* codes, non-zero exit
// codes on failure, and full findings lists where partial reporting would
// hide problems (validate reports every error, not just the first).
package cmd
