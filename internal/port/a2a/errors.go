package a2a

import "fmt"

// StageError wraps a failure from one remote stage so callers can name
// the stage that broke the pipeline.
type StageError struct {
	Agent string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Agent, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
