// Package validation holds the checks applied to component sources and
// user-supplied paths before they enter the build pipeline: component name
// rules, the CSS property allow-list, script and markup section checks, and
// path traversal prevention.
package validation

import (
	"path/filepath"
	"strings"

	"github.com/conneroisu/marklet/internal/errors"
)

// ValidatePath validates a file path to prevent path traversal attacks
func ValidatePath(path string) error {
	if path == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidPath, "path cannot be empty")
	}

	if strings.ContainsRune(path, 0) {
		return errors.ErrInvalidPath(path)
	}

	// Clean the path to resolve any . or .. components
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) || strings.Contains(cleanPath, string(filepath.Separator)+".."+string(filepath.Separator)) {
		return errors.ErrPathTraversal(path)
	}

	// Additional checks for dangerous characters in paths
	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">"}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return errors.NewValidationError(
				errors.ErrCodeInvalidPath,
				"path contains dangerous character "+char+": "+path,
			)
		}
	}

	return nil
}

// ValidateScanPath validates a configured component scan path. Scan paths
// must be relative so a project config cannot reach outside its own tree.
func ValidateScanPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	if filepath.IsAbs(path) {
		return errors.NewValidationError(
			errors.ErrCodeInvalidPath,
			"scan path must be relative: "+path,
		)
	}

	return nil
}

// ValidateOutputPath validates the configured artifact output directory.
// Same rules as scan paths: relative, traversal-free.
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	if filepath.IsAbs(path) {
		return errors.NewValidationError(
			errors.ErrCodeInvalidPath,
			"output path must be relative: "+path,
		)
	}

	return nil
}

// ValidateExcludePattern checks that a configured exclude pattern is a valid
// filepath.Match pattern and free of traversal tricks.
func ValidateExcludePattern(pattern string) error {
	if pattern == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidPath, "exclude pattern cannot be empty")
	}

	if strings.Contains(pattern, "..") {
		return errors.ErrPathTraversal(pattern)
	}

	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return errors.NewValidationError(
			errors.ErrCodeInvalidPath,
			"invalid exclude pattern "+pattern+": "+err.Error(),
		)
	}

	return nil
}

// SanitizeInput removes null bytes and control characters from metadata
// strings before they reach logs or rendered artifacts. Common whitespace
// is preserved.
func SanitizeInput(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var sanitized strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' || r == '\r' {
			sanitized.WriteRune(r)
		}
	}

	return sanitized.String()
}
