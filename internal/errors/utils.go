package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context, creating a MarkletError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *MarkletError {
	if err == nil {
		return nil
	}

	// If it's already a MarkletError, preserve its properties but update the message
	var me *MarkletError
	if errors.As(err, &me) {
		return &MarkletError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       me,
			Context:     me.Context,
			Component:   me.Component,
			FilePath:    me.FilePath,
			Line:        me.Line,
			Column:      me.Column,
			Recoverable: me.Recoverable,
		}
	}

	return &MarkletError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeBuild || errType == ErrorTypeParse,
	}
}

// WrapBuild wraps an error as a build error with component context
func WrapBuild(err error, code, message, component string) *MarkletError {
	wrapped := Wrap(err, ErrorTypeBuild, code, message)
	if wrapped != nil {
		wrapped.Component = component
	}
	return wrapped
}

// WrapParse wraps an error as a parse error with file context
func WrapParse(err error, code, message, filePath string) *MarkletError {
	wrapped := Wrap(err, ErrorTypeParse, code, message)
	if wrapped != nil {
		wrapped.FilePath = filePath
	}
	return wrapped
}

// WrapValidation wraps an error as a validation error
func WrapValidation(err error, code, message string) *MarkletError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *MarkletError {
	wrapped := Wrap(err, ErrorTypeIO, code, message)
	if wrapped != nil {
		wrapped.Recoverable = false
	}
	return wrapped
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *MarkletError {
	wrapped := Wrap(err, ErrorTypeConfig, code, message)
	if wrapped != nil {
		wrapped.Recoverable = false
	}
	return wrapped
}

// WrapInternal wraps an error as an internal error
func WrapInternal(err error, code, message string) *MarkletError {
	wrapped := Wrap(err, ErrorTypeInternal, code, message)
	if wrapped != nil {
		wrapped.Recoverable = false
	}
	return wrapped
}

// EnhanceError adds debugging context to an existing error
func EnhanceError(err error, component, filePath string, line, column int) error {
	if err == nil {
		return nil
	}

	var me *MarkletError
	if errors.As(err, &me) {
		return me.WithComponent(component).WithLocation(filePath, line, column)
	}

	return &MarkletError{
		Type:        ErrorTypeInternal,
		Code:        ErrCodeInternalError,
		Message:     err.Error(),
		Cause:       err,
		Component:   component,
		FilePath:    filePath,
		Line:        line,
		Column:      column,
		Recoverable: false,
	}
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var me *MarkletError
	if errors.As(err, &me) {
		return me.Error()
	}

	return err.Error()
}

// ExtractCause extracts the root cause from a wrapped error
func ExtractCause(err error) error {
	for err != nil {
		var me *MarkletError
		if errors.As(err, &me) {
			if me.Cause == nil {
				return me
			}
			err = me.Cause
		} else {
			return err
		}
	}
	return nil
}

// AsMarkletError unwraps err into a *MarkletError if one is in the chain.
func AsMarkletError(err error) (*MarkletError, bool) {
	var me *MarkletError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// FirstError returns the first non-nil error from a list
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CombineErrors combines multiple errors into a single error with context
func CombineErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	if len(nonNil) == 1 {
		return nonNil[0]
	}

	var messages []string
	for _, err := range nonNil {
		messages = append(messages, err.Error())
	}

	return &MarkletError{
		Type:    ErrorTypeInternal,
		Code:    "ERR_MULTIPLE_ERRORS",
		Message: fmt.Sprintf("multiple errors occurred: %d errors", len(nonNil)),
		Context: map[string]interface{}{
			"error_count": len(nonNil),
			"errors":      messages,
		},
		Recoverable: false,
	}
}
