package register

import (
	"errors"
	"fmt"
)

// Register error codes (E300-E399)
const (
	ErrRegisterEmpty      = "E301" // no header row
	ErrIdentifierNotFound = "E302" // hinted identifier column absent
	ErrNoIdentifierColumn = "E303" // no column recognisable as an identifier
)

// RegisterError reports a register that cannot be parsed. It is fatal to
// reconciliation only.
type RegisterError struct {
	Code    string
	Message string
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("register %s: %s", e.Code, e.Message)
}

func newRegisterError(code, format string, args ...any) *RegisterError {
	return &RegisterError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsRegisterError reports whether err wraps a RegisterError.
func IsRegisterError(err error) bool {
	var re *RegisterError
	return errors.As(err, &re)
}
