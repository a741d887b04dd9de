// Package workflow implements the submit/upgrade/shrink orchestrators and
// their predicates (spec.md §4.4). Every workflow's contract is
// "collected, never raised": remote-collaborator failures are appended to
// a returned error slice rather than aborting the call.
package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// WorkflowError is one collected failure from a single remote calendar
// leg, tagged with a fresh correlation ID generated when the error is
// collected; the ID is not sent with the calendar request or logged by
// the workflow (spec.md §4.4, §7). Mirrors the per-peer error aggregation of
// pkg/batch/errors.go in the reference repository.
type WorkflowError struct {
	RequestID uuid.UUID
	Calendar  string
	Err       error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("calendar %s [%s]: %v", e.Calendar, e.RequestID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func newWorkflowError(calendar string, err error) *WorkflowError {
	return &WorkflowError{RequestID: uuid.New(), Calendar: calendar, Err: err}
}
