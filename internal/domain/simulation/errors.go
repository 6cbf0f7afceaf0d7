package simulation

import (
	"fmt"
	"time"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

// ErrPastScheduling indicates an action was scheduled before the clock's current time
type ErrPastScheduling struct {
	Action Action
	At     time.Time
	Now    time.Time
}

func (e *ErrPastScheduling) Error() string {
	return fmt.Sprintf("cannot schedule %s at %s: clock is already at %s",
		e.Action, e.At.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

// ErrRunnableNotDrained indicates Advance was called while actions were still runnable
type ErrRunnableNotDrained struct {
	Pending int
}

func (e *ErrRunnableNotDrained) Error() string {
	return fmt.Sprintf("cannot advance clock: %d runnable actions not executed", e.Pending)
}

// ErrAlreadyStarted indicates Run was invoked on a simulator that already ran
type ErrAlreadyStarted struct{}

func (e *ErrAlreadyStarted) Error() string {
	return "simulation has already been started"
}

// ErrSimulationStillRunning indicates a result was queried before the clock stopped
type ErrSimulationStillRunning struct{}

func (e *ErrSimulationStillRunning) Error() string {
	return "simulation is still running"
}

// ErrUnknownJob indicates an action referenced a job the simulator does not track
type ErrUnknownJob struct {
	JobID production.JobID
}

func (e *ErrUnknownJob) Error() string {
	return fmt.Sprintf("unknown job %d", e.JobID)
}
