package models

import (
	"errors"
	"fmt"
)

// ErrConfirmationDeclined is returned when the operator answers no at a
// confirmation gate. It is an intentional abort, not a failure of the tool.
var ErrConfirmationDeclined = errors.New("aborted: confirmation declined")

// SubmissionFailure is returned when the scheduler rejects a cell. Cells after
// it were never issued; cells before it stay queued.
type SubmissionFailure struct {
	JobID     string
	HChunk    int
	VChunk    int
	Submitted int
	Err       error
}

func (e *SubmissionFailure) Error() string {
	return fmt.Sprintf("submission of %s (hchunk %d, vchunk %d) failed after %d successful submissions: %v",
		e.JobID, e.HChunk, e.VChunk, e.Submitted, e.Err)
}

func (e *SubmissionFailure) Unwrap() error {
	return e.Err
}

// Declined wraps ErrConfirmationDeclined with the prompt that was declined.
func Declined(prompt string) error {
	return fmt.Errorf("%w: %s", ErrConfirmationDeclined, prompt)
}
