package production

import (
	"fmt"
	"time"
)

// ErrIllegalStateTransition indicates a job status change outside the allowed transition table
type ErrIllegalStateTransition struct {
	JobID JobID
	From  JobStatus
	To    JobStatus
}

func (e *ErrIllegalStateTransition) Error() string {
	return fmt.Sprintf("illegal state transition for job %d: %s -> %s", e.JobID, e.From, e.To)
}

// ErrSlotOverlap indicates a job was added to a slot where it would overlap an existing job
type ErrSlotOverlap struct {
	Slot        string
	JobID       JobID
	ConflictsID JobID
	Start       time.Time
	End         time.Time
}

func (e *ErrSlotOverlap) Error() string {
	return fmt.Sprintf("job %d [%s, %s) overlaps job %d in slot %s",
		e.JobID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.ConflictsID, e.Slot)
}

// ErrJobNotScheduled indicates a job without a start date was added to a slot
type ErrJobNotScheduled struct {
	JobID JobID
}

func (e *ErrJobNotScheduled) Error() string {
	return fmt.Sprintf("job %d has no start date", e.JobID)
}

// ErrInvalidTemplate represents validation errors for template definitions
type ErrInvalidTemplate struct {
	Template string
	Field    string
	Reason   string
}

func (e *ErrInvalidTemplate) Error() string {
	return fmt.Sprintf("invalid template %q: %s - %s", e.Template, e.Field, e.Reason)
}

// ErrForeignTemplate indicates a template from another catalog was linked as a prerequisite
type ErrForeignTemplate struct {
	Template string
}

func (e *ErrForeignTemplate) Error() string {
	return fmt.Sprintf("template %q does not belong to this catalog", e.Template)
}
