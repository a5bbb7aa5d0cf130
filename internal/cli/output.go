package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/roach88/valiblox/internal/archive"
	"github.com/roach88/valiblox/internal/naming"
	"github.com/roach88/valiblox/internal/register"
	"github.com/roach88/valiblox/internal/table"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution, no findings
	ExitFailure      = 1 // Findings present (non-compliant files, missing deliverables, failed scenarios)
	ExitCommandError = 2 // Command error (unreadable archive, bad template, invalid flags, etc.)
)

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// CLI error codes (E001-E099). Domain errors keep their own codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeArchive     = "E002" // Archive could not be opened or read
	ErrCodeNoTable     = "E003" // No template/register table in archive
	ErrCodeConfig      = "E004" // Configuration invalid
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeInvalidArg  = "E006" // Invalid flag or argument
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeHistory     = "E008" // Run history unavailable
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message; empty when the output already explains the failure
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// errFindings signals exit code 1 after a report has been written.
var errFindings = NewExitError(ExitFailure, "")

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode returns the stable code carried by err, or ErrCodeGeneric.
func ErrorCode(err error) string {
	var (
		te *naming.TemplateError
		re *register.RegisterError
		rd *table.ReadError
	)
	switch {
	case errors.As(err, &te):
		return te.Code
	case errors.As(err, &re):
		return re.Code
	case errors.As(err, &rd):
		return rd.Code
	case errors.Is(err, archive.ErrNoTable):
		return ErrCodeNoTable
	case errors.Is(err, archive.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	}
	var se *SourceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeGeneric
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`           // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`   // success payload
	Error  *CLIError   `json:"error,omitempty"`  // error details
	RunID  string      `json:"run_id,omitempty"` // history record, when one was written
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E005", "E202", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == FormatJSON {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
// Non-JSON formats write to ErrWriter so a rendered document is never mixed
// with diagnostics.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == FormatJSON {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
