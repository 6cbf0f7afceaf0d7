package scheduling

import (
	"time"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

// DefaultSeparation is the gap left between a job and the one it follows
const DefaultSeparation = time.Second

// FindStartDate resolves the earliest start for a job of the given duration in a slot.
//
// Rules, applied to the slot's entries sorted by start:
// - empty slot: start at desired
// - exactly one entry running at desired: start separation after it ends
// - otherwise the first gap [end_i, start_i+1] that is long enough and does not begin before
//   desired: start at end_i
// - otherwise append separation after the last entry, never before desired
func FindStartDate(entries []production.SlotEntry, desired time.Time, duration, separation time.Duration) time.Time {
	if len(entries) == 0 {
		return desired
	}

	if len(entries) == 1 && entries[0].RunsAt(desired) {
		return entries[0].End.Add(separation)
	}

	for i := 0; i+1 < len(entries); i++ {
		gapStart := entries[i].End
		gapEnd := entries[i+1].Start
		if gapStart.Before(desired) {
			continue
		}
		if gapEnd.Sub(gapStart) >= duration {
			return gapStart
		}
	}

	start := entries[len(entries)-1].End.Add(separation)
	if start.Before(desired) {
		return desired
	}
	return start
}
