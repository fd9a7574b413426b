package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeBuild      ErrorType = "build"
	ErrorTypeEncode     ErrorType = "encode"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// MarkletError is a structured error type with context.
type MarkletError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	FilePath    string
	Line        int
	Column      int
	Recoverable bool
}

// Error implements the error interface.
func (e *MarkletError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				location += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *MarkletError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *MarkletError) Is(target error) bool {
	var t *MarkletError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *MarkletError) WithContext(key string, value interface{}) *MarkletError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *MarkletError) WithLocation(filePath string, line, column int) *MarkletError {
	e.FilePath = filePath
	e.Line = line
	e.Column = column

	return e
}

// WithComponent adds component context.
func (e *MarkletError) WithComponent(component string) *MarkletError {
	e.Component = component

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *MarkletError {
	return &MarkletError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewParseError creates a component parse error.
func NewParseError(code, message string, cause error) *MarkletError {
	return &MarkletError{
		Type:        ErrorTypeParse,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewBuildError creates a build error.
func NewBuildError(code, message string, cause error) *MarkletError {
	return &MarkletError{
		Type:        ErrorTypeBuild,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewEncodeError creates a bookmarklet encoding error.
func NewEncodeError(code, message string) *MarkletError {
	return &MarkletError{
		Type:        ErrorTypeEncode,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *MarkletError {
	return &MarkletError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *MarkletError {
	return &MarkletError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *MarkletError {
	return &MarkletError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Error recovery and handling utilities

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var me *MarkletError
	if errors.As(err, &me) {
		return me.Recoverable
	}

	return false
}

// IsValidationError checks if an error is validation-related.
func IsValidationError(err error) bool {
	var me *MarkletError
	if errors.As(err, &me) {
		return me.Type == ErrorTypeValidation
	}

	return false
}

// IsParseError checks if an error is parse-related.
func IsParseError(err error) bool {
	var me *MarkletError
	if errors.As(err, &me) {
		return me.Type == ErrorTypeParse
	}

	return false
}

// IsBuildError checks if an error is build-related.
func IsBuildError(err error) bool {
	var me *MarkletError
	if errors.As(err, &me) {
		return me.Type == ErrorTypeBuild
	}

	return false
}

// Common error codes used across the pipeline.
const (
	ErrCodeInvalidPath       = "ERR_INVALID_PATH"
	ErrCodePathTraversal     = "ERR_PATH_TRAVERSAL"
	ErrCodeInvalidName       = "ERR_INVALID_NAME"
	ErrCodeDuplicateName     = "ERR_DUPLICATE_NAME"
	ErrCodeComponentNotFound = "ERR_COMPONENT_NOT_FOUND"
	ErrCodeNoComponents      = "ERR_NO_COMPONENTS"
	ErrCodeMetadataInvalid   = "ERR_METADATA_INVALID"
	ErrCodeSectionInvalid    = "ERR_SECTION_INVALID"
	ErrCodeStyleProperty     = "ERR_STYLE_PROPERTY"
	ErrCodeScriptUnsafe      = "ERR_SCRIPT_UNSAFE"
	ErrCodeMarkupInvalid     = "ERR_MARKUP_INVALID"
	ErrCodeMinifyFailed      = "ERR_MINIFY_FAILED"
	ErrCodeTemplateInvalid   = "ERR_TEMPLATE_INVALID"
	ErrCodeURITooLarge       = "ERR_URI_TOO_LARGE"
	ErrCodeURIMalformed      = "ERR_URI_MALFORMED"
	ErrCodeBuildFailed       = "ERR_BUILD_FAILED"
	ErrCodeWriteFailed       = "ERR_WRITE_FAILED"
	ErrCodeFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError     = "ERR_INTERNAL"
	ErrCodeValidationFailed  = "ERR_VALIDATION_FAILED"
)

// Helper functions for common errors

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *MarkletError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}

// ErrPathTraversal creates a path traversal error.
func ErrPathTraversal(path string) *MarkletError {
	e := NewValidationError(ErrCodePathTraversal, "path traversal attempt: "+path)
	e.Recoverable = false
	return e
}

// ErrComponentNotFound creates a component not found error.
func ErrComponentNotFound(name string) *MarkletError {
	return NewValidationError(
		ErrCodeComponentNotFound,
		"component not found: "+name,
	)
}

// ErrDuplicateName creates a registry name collision error naming both files.
func ErrDuplicateName(name, existingPath, newPath string) *MarkletError {
	return NewValidationError(
		ErrCodeDuplicateName,
		fmt.Sprintf("component name %q declared in both %s and %s", name, existingPath, newPath),
	).WithComponent(name)
}

// ErrBuildFailed creates a build failure error.
func ErrBuildFailed(component string, cause error) *MarkletError {
	return NewBuildError(
		ErrCodeBuildFailed,
		"build failed for component: "+component,
		cause,
	).WithComponent(component)
}
