package simulation

import (
	"fmt"
	"time"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

// ActionKind tags what an action does when the clock executes it
type ActionKind int

const (
	ActionStart ActionKind = iota
	ActionFinish
	ActionCheckManual
)

func (k ActionKind) String() string {
	switch k {
	case ActionStart:
		return "start"
	case ActionFinish:
		return "finish"
	case ActionCheckManual:
		return "check-manual"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Action is a command value queued on the clock. It carries only identifiers;
// the executor resolves them against the simulation state.
type Action struct {
	Kind ActionKind
	Job  production.JobID
	Slot production.SlotID
}

func (a Action) String() string {
	return fmt.Sprintf("%s job=%d slot=%d", a.Kind, a.Job, a.Slot)
}

// Executor runs one action at the clock's current time
type Executor func(now time.Time, a Action) error
