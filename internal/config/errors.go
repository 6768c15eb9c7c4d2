package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Error types carried by ConfigurationError.
const (
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
	ErrorTypeIO         = "io"
)

// ConfigurationError describes one problem with mediator.yaml.
type ConfigurationError struct {
	FilePath  string
	FileName  string
	Field     string // dotted yaml path, empty for file level errors
	ErrorType string
	Message   string
	Details   string

	Suggestions []string
}

func (ce ConfigurationError) Error() string {
	if ce.Field == "" {
		return fmt.Sprintf("[%s] %s: %s", ce.ErrorType, ce.FileName, ce.Message)
	}
	return fmt.Sprintf("[%s] %s: %s %s", ce.ErrorType, ce.FileName, ce.Field, ce.Message)
}

// Report renders the error over several lines with its details and
// suggestions, for printing to a terminal.
func (ce ConfigurationError) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s error)\n", ce.FilePath, ce.ErrorType)
	if ce.Field != "" {
		fmt.Fprintf(&b, "  %s: %s\n", ce.Field, ce.Message)
	} else {
		fmt.Fprintf(&b, "  %s\n", ce.Message)
	}
	if ce.Details != "" {
		fmt.Fprintf(&b, "  details: %s\n", ce.Details)
	}
	for _, s := range ce.Suggestions {
		fmt.Fprintf(&b, "  hint: %s\n", s)
	}
	return b.String()
}

// ConfigurationErrorCollection gathers every problem found in one file.
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError
}

func (cec ConfigurationErrorCollection) Error() string {
	switch len(cec.Errors) {
	case 0:
		return "no configuration errors"
	case 1:
		return cec.Errors[0].Error()
	}
	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// HasErrors reports whether anything was collected.
func (cec *ConfigurationErrorCollection) HasErrors() bool { return len(cec.Errors) > 0 }

// Count returns the number of collected errors.
func (cec *ConfigurationErrorCollection) Count() int { return len(cec.Errors) }

// Add appends err.
func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// Report renders every collected error, numbered.
func (cec ConfigurationErrorCollection) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d configuration error(s):\n", len(cec.Errors))
	for i, ce := range cec.Errors {
		fmt.Fprintf(&b, "%d. %s", i+1, ce.Report())
	}
	return b.String()
}

// Report returns the multi-line report of a configuration error found
// anywhere in err's chain. It reports false for any other error.
func Report(err error) (string, bool) {
	var coll ConfigurationErrorCollection
	if errors.As(err, &coll) {
		return coll.Report(), true
	}
	var ce ConfigurationError
	if errors.As(err, &ce) {
		return ce.Report(), true
	}
	return "", false
}

// NewConfigurationError returns a field level error for filePath.
func NewConfigurationError(filePath, field, errorType, message string) ConfigurationError {
	return ConfigurationError{
		FilePath:  filePath,
		FileName:  filepath.Base(filePath),
		Field:     field,
		ErrorType: errorType,
		Message:   message,
	}
}

// NewConfigurationErrorWithDetails returns a file level error carrying
// details and suggestions.
func NewConfigurationErrorWithDetails(filePath, fileName, errorType, message, details string, suggestions []string) ConfigurationError {
	return ConfigurationError{
		FilePath:    filePath,
		FileName:    fileName,
		ErrorType:   errorType,
		Message:     message,
		Details:     details,
		Suggestions: suggestions,
	}
}
