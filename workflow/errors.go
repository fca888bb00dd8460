package workflow

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the workflow matches exactly one of
// them with errors.Is.
var (
	ErrConnection     = errors.New("connection error")
	ErrIndexLifecycle = errors.New("index lifecycle error")
	ErrParse          = errors.New("parse error")
	ErrIndexing       = errors.New("indexing error")
	ErrQuery          = errors.New("query error")
)

// StepError records which step failed, for which index, and why.
type StepError struct {
	Step  string
	Index string
	Kind  error
	Err   error
}

func (e *StepError) Error() string {
	if e.Index == "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %s", e.Kind, e.Step, e.Index, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func stepError(kind error, step, index string, err error) error {
	return &StepError{Step: step, Index: index, Kind: kind, Err: err}
}
