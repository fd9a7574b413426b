package validation

import (
	"fmt"
	"regexp"

	"github.com/conneroisu/marklet/internal/errors"
)

// MaxNameBytes is the upper bound on component name length. Names become
// registry keys and CSS-friendly identifiers, so they stay short.
const MaxNameBytes = 64

// namePattern matches lowercase kebab-case identifiers: a letter followed by
// letters, digits and single hyphens worth of separation.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ComponentName validates an effective component name. Names key the loader
// registry and appear verbatim inside the generated script, so the accepted
// alphabet is deliberately narrow.
func ComponentName(name string) error {
	if name == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidName, "component name cannot be empty")
	}

	if len(name) > MaxNameBytes {
		return errors.NewValidationError(
			errors.ErrCodeInvalidName,
			fmt.Sprintf("component name exceeds %d bytes: %q (%d bytes)", MaxNameBytes, name, len(name)),
		)
	}

	if !namePattern.MatchString(name) {
		return errors.NewValidationError(
			errors.ErrCodeInvalidName,
			fmt.Sprintf("component name %q must match ^[a-z][a-z0-9-]*$", name),
		)
	}

	return nil
}
