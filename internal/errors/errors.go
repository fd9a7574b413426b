// Package errors provides the structured error types used across the marklet
// pipeline: a typed MarkletError carrying code, component and file location,
// a ComponentError for per-file validation findings, and an ErrorCollector
// that gathers findings across a scan while preserving which came first.
package errors

import (
	"fmt"
	"sync"
	"time"
)

// ComponentError records a single validation or parse finding for one
// component source file.
type ComponentError struct {
	Component string
	File      string
	Line      int
	Column    int
	Message   string
	Severity  ErrorSeverity
	Timestamp time.Time
}

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (ce *ComponentError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", ce.File, ce.Line, ce.Column, ce.Severity, ce.Message)
}

// ErrorCollector collects component findings and general errors across a
// scan or validation pass. The build pipeline stops on the first error; the
// validate command keeps collecting so it can report everything at once.
type ErrorCollector struct {
	componentErrors []ComponentError
	errors          []error
	mutex           sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		componentErrors: make([]ComponentError, 0),
		errors:          make([]error, 0),
	}
}

// Add adds a component error to the collector
func (ec *ErrorCollector) Add(err ComponentError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	err.Timestamp = time.Now()
	ec.componentErrors = append(ec.componentErrors, err)
}

// AddError adds a general error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetErrors returns all collected component errors
func (ec *ErrorCollector) GetErrors() []ComponentError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	// Return a copy to avoid race conditions
	result := make([]ComponentError, len(ec.componentErrors))
	copy(result, ec.componentErrors)
	return result
}

// GetAllErrors returns all collected errors (component and general)
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	allErrors := make([]error, 0, len(ec.componentErrors)+len(ec.errors))

	for i := range ec.componentErrors {
		allErrors = append(allErrors, &ec.componentErrors[i])
	}

	allErrors = append(allErrors, ec.errors...)

	return allErrors
}

// GetErrorsByFile returns component errors for a specific file
func (ec *ErrorCollector) GetErrorsByFile(file string) []ComponentError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var fileErrors []ComponentError
	for _, err := range ec.componentErrors {
		if err.File == file {
			fileErrors = append(fileErrors, err)
		}
	}
	return fileErrors
}

// GetErrorsByComponent returns component errors for a specific component
func (ec *ErrorCollector) GetErrorsByComponent(component string) []ComponentError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var componentErrors []ComponentError
	for _, err := range ec.componentErrors {
		if err.Component == component {
			componentErrors = append(componentErrors, err)
		}
	}
	return componentErrors
}

// First returns the first collected component error, falling back to the
// first general error, or nil when the collector is empty. Scan batches use
// this for stop-on-first-error reporting.
func (ec *ErrorCollector) First() error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	if len(ec.componentErrors) == 0 && len(ec.errors) == 0 {
		return nil
	}
	if len(ec.componentErrors) == 0 {
		return ec.errors[0]
	}
	return &ec.componentErrors[0]
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.componentErrors) > 0 || len(ec.errors) > 0
}

// Count returns the total number of collected errors.
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.componentErrors) + len(ec.errors)
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.componentErrors = ec.componentErrors[:0]
	ec.errors = ec.errors[:0]
}
