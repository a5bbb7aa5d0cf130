package naming

import (
	"errors"
	"fmt"
)

// Template error codes (E200-E299)
const (
	ErrTemplateEmpty        = "E201" // no header row
	ErrTooFewFields         = "E202" // fewer than 2 fields
	ErrNoSamples            = "E203" // no sample rows
	ErrNoSeparator          = "E204" // joined samples disagree on a separator
	ErrInvalidDelimiter     = "E205" // delimiter directive unusable
	ErrPartCountMismatch    = "E206" // declared part count disagrees with header
	ErrInvalidPartCountCell = "E207" // declared part count is not an integer
)

// TemplateError reports a malformed or ambiguous naming template.
// No partial pattern is ever returned alongside it.
type TemplateError struct {
	Code    string
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %s", e.Code, e.Message)
}

func newTemplateError(code, format string, args ...any) *TemplateError {
	return &TemplateError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsTemplateError reports whether err wraps a TemplateError.
func IsTemplateError(err error) bool {
	var te *TemplateError
	return errors.As(err, &te)
}
