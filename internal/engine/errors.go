package engine

import (
	"errors"
	"fmt"
)

// Stage names a pipeline.
type Stage string

const (
	StageNaming       Stage = "naming"
	StageDeliverables Stage = "deliverables"
)

// PipelineError is a failure confined to one pipeline. Err keeps the typed
// cause (naming.TemplateError, register.RegisterError, ...).
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsPipelineError reports whether err is a PipelineError.
func IsPipelineError(err error) bool {
	var pe *PipelineError
	return errors.As(err, &pe)
}
