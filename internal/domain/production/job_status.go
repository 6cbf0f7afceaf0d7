package production

// JobStatus represents where a job is in its lifecycle
type JobStatus string

const (
	// JobStatusProspective - scheduled, not yet simulated
	JobStatusProspective JobStatus = "PROSPECTIVE"

	// JobStatusNotStarted - part of a simulation, waiting to start
	JobStatusNotStarted JobStatus = "NOT_STARTED"

	// JobStatusPending - running
	JobStatusPending JobStatus = "PENDING"

	// JobStatusFinished - terminal
	JobStatusFinished JobStatus = "FINISHED"
)

// State Machine:
//
//	PROSPECTIVE -> NOT_STARTED -> PENDING -> FINISHED
var allowedJobTransitions = map[JobStatus][]JobStatus{
	JobStatusProspective: {JobStatusNotStarted},
	JobStatusNotStarted:  {JobStatusPending},
	JobStatusPending:     {JobStatusFinished},
	JobStatusFinished:    {},
}

// CanTransitionTo reports whether the transition s -> next is in the allowed table
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range allowedJobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for FINISHED
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusFinished
}

// ValidateTransition returns ErrIllegalStateTransition when from -> to is not allowed
func ValidateTransition(job JobID, from, to JobStatus) error {
	if !from.CanTransitionTo(to) {
		return &ErrIllegalStateTransition{JobID: job, From: from, To: to}
	}
	return nil
}
