package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingReference is matched by DanglingReferenceError.
	ErrDanglingReference = errors.New("dangling dependency reference")
	// ErrUnresolvedReference is returned when a job pointer reaches the encoder.
	ErrUnresolvedReference = errors.New("unresolved job reference")
	// ErrDuplicateJobKey indicates two jobs share a key.
	ErrDuplicateJobKey = errors.New("duplicate job key")
	// ErrInvalidJob indicates a job entry with an empty key or a nil job.
	ErrInvalidJob = errors.New("invalid job entry")
	// ErrNoRunner indicates a job without runs-on.
	ErrNoRunner = errors.New("no runner")
)

// DanglingReferenceError reports a needs pointer to a job that is not part of
// the workflow.
type DanglingReferenceError struct {
	// Job is the key of the job declaring the dependency.
	Job string
	// Target is the name of the job it points at.
	Target string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("job %q: %s to job %q not found in workflow", e.Job, ErrDanglingReference, e.Target)
}

// Is lets errors.Is match ErrDanglingReference.
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}
