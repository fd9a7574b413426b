// Package types provides common type definitions used throughout the marklet CLI.
// This package contains shared types to avoid circular dependencies between packages.
package types

import "time"

// Component holds the parsed content and metadata of a single self-contained
// HTML component file. It is produced by the scanner and consumed by the
// registry, the validators, and the build pipeline.
type Component struct {
	// Name is the registry key for the component (e.g. "speed-dial").
	// It defaults to the source file's base name when the metadata comment
	// carries no name field.
	Name string
	// Title is the human-readable display name shown on the install page
	// and in the loader's picker panel. Defaults to a title-cased Name.
	Title string
	// Version is the component's own version string from its metadata.
	Version string
	// Description documents what the component does.
	Description string
	// Author names the component's author, if declared.
	Author string
	// Tags carries free-form classification labels from the metadata.
	Tags []string
	// Extra holds metadata keys the tool does not interpret. They travel
	// into the build manifest but never into the loader registry.
	Extra map[string]interface{}
	// FilePath is the path of the source .html file the component was
	// parsed from.
	FilePath string
	// Markup is the raw inner content of the component's <template> element.
	Markup string
	// Style is the concatenated raw content of the top-level <style>
	// elements, in document order.
	Style string
	// Script is the concatenated raw content of the top-level <script>
	// elements, in document order.
	Script string
	// Hash is a CRC32 checksum of the source file used for change
	// detection and build-cache keys.
	Hash string
	// LastMod tracks the source file's modification time.
	LastMod time.Time
	// SourceBytes is the size of the source file on disk.
	SourceBytes int64
}

// CompiledComponent pairs a component with its validated, minified sections
// as they will appear in the aggregated loader registry.
type CompiledComponent struct {
	*Component
	// MinMarkup, MinStyle and MinScript hold the section content after
	// minification. With minification disabled they equal the raw sections.
	MinMarkup string
	MinStyle  string
	MinScript string
	// Cached reports whether the compile stage served this result from the
	// build cache instead of re-minifying.
	Cached bool
}

// RawSize returns the combined byte size of the component's raw sections.
func (c *CompiledComponent) RawSize() int {
	return len(c.Markup) + len(c.Style) + len(c.Script)
}

// CompiledSize returns the combined byte size of the minified sections.
func (c *CompiledComponent) CompiledSize() int {
	return len(c.MinMarkup) + len(c.MinStyle) + len(c.MinScript)
}

// EventType represents the type of component change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// ComponentEvent represents a change in the component registry, broadcast to
// watchers such as tests and embedding tools.
type ComponentEvent struct {
	// Type indicates the kind of change (added, updated, removed)
	Type EventType
	// Component contains the component information (may be nil for removed events)
	Component *Component
	// Timestamp records when the event occurred for ordering and filtering
	Timestamp time.Time
}
