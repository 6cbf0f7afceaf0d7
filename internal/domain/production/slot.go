package production

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SlotType is the capability predicate deciding which templates a slot can run
type SlotType interface {
	Name() string
	Accepts(t *JobTemplate) bool
}

// ActivitySlotType accepts templates whose activity is in its set
type ActivitySlotType struct {
	name       string
	activities map[Activity]bool
}

// NewActivitySlotType creates a slot type accepting the given activities
func NewActivitySlotType(name string, activities ...Activity) *ActivitySlotType {
	set := make(map[Activity]bool, len(activities))
	for _, a := range activities {
		set[a] = true
	}
	return &ActivitySlotType{name: name, activities: set}
}

func (s *ActivitySlotType) Name() string {
	return s.name
}

func (s *ActivitySlotType) Accepts(t *JobTemplate) bool {
	return t != nil && s.activities[t.Activity()]
}

// Activities returns the accepted activities, sorted
func (s *ActivitySlotType) Activities() []Activity {
	out := make([]Activity, 0, len(s.activities))
	for a := range s.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *ActivitySlotType) String() string {
	names := make([]string, 0, len(s.activities))
	for _, a := range s.Activities() {
		names = append(names, string(a))
	}
	return s.name + "[" + strings.Join(names, ",") + "]"
}

// SlotID is the handle assigned to a slot by its plant
type SlotID int

// SlotEntry is one scheduled job occupying [Start, End) in a slot
type SlotEntry struct {
	Job   JobID
	Start time.Time
	End   time.Time
}

// RunsAt returns true if t falls inside [Start, End)
func (e SlotEntry) RunsAt(t time.Time) bool {
	return !t.Before(e.Start) && t.Before(e.End)
}

// Overlaps returns true if the two half-open intervals intersect
func (e SlotEntry) Overlaps(start, end time.Time) bool {
	return start.Before(e.End) && e.Start.Before(end)
}

// SlotSpec carries the fields needed to create a slot
type SlotSpec struct {
	Name           string
	Type           SlotType
	InputLocation  ProductionLocation
	OutputLocation ProductionLocation
	TimeMultiplier float64
	CostMultiplier decimal.Decimal
}

// FactorySlot hosts one job at a time on a non-overlapping timeline.
//
// Invariants:
// - entries are sorted by start time
// - no two entries overlap
type FactorySlot struct {
	id             SlotID
	factory        string
	name           string
	slotType       SlotType
	inputLocation  ProductionLocation
	outputLocation ProductionLocation
	timeMultiplier float64
	costMultiplier decimal.Decimal
	entries        []SlotEntry
}

func newFactorySlot(id SlotID, factory string, spec SlotSpec) *FactorySlot {
	timeMultiplier := spec.TimeMultiplier
	if timeMultiplier <= 0 {
		timeMultiplier = 1
	}
	costMultiplier := spec.CostMultiplier
	if costMultiplier.IsZero() {
		costMultiplier = decimal.NewFromInt(1)
	}
	return &FactorySlot{
		id:             id,
		factory:        factory,
		name:           spec.Name,
		slotType:       spec.Type,
		inputLocation:  spec.InputLocation,
		outputLocation: spec.OutputLocation,
		timeMultiplier: timeMultiplier,
		costMultiplier: costMultiplier,
		entries:        make([]SlotEntry, 0),
	}
}

// Getters

func (s *FactorySlot) ID() SlotID {
	return s.id
}

func (s *FactorySlot) Name() string {
	return s.name
}

// FactoryName returns the name of the factory owning this slot
func (s *FactorySlot) FactoryName() string {
	return s.factory
}

func (s *FactorySlot) Type() SlotType {
	return s.slotType
}

func (s *FactorySlot) InputLocation() ProductionLocation {
	return s.inputLocation
}

func (s *FactorySlot) OutputLocation() ProductionLocation {
	return s.outputLocation
}

func (s *FactorySlot) TimeMultiplier() float64 {
	return s.timeMultiplier
}

func (s *FactorySlot) CostMultiplier() decimal.Decimal {
	return s.costMultiplier
}

// Accepts returns true if the slot's type can run the template
func (s *FactorySlot) Accepts(t *JobTemplate) bool {
	return s.slotType != nil && s.slotType.Accepts(t)
}

// Entries returns the scheduled entries sorted by start time
func (s *FactorySlot) Entries() []SlotEntry {
	out := make([]SlotEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of jobs in the slot
func (s *FactorySlot) Len() int {
	return len(s.entries)
}

// Add places a scheduled job into the slot.
// Returns ErrSlotOverlap if the job would overlap a job already in the slot.
func (s *FactorySlot) Add(job *Job) error {
	start, ok := job.StartDate()
	if !ok {
		return &ErrJobNotScheduled{JobID: job.ID()}
	}
	end := start.Add(job.Duration())

	for _, e := range s.entries {
		if e.Overlaps(start, end) {
			return &ErrSlotOverlap{
				Slot:        s.QualifiedName(),
				JobID:       job.ID(),
				ConflictsID: e.Job,
				Start:       start,
				End:         end,
			}
		}
	}

	idx := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Start.After(start)
	})
	s.entries = append(s.entries, SlotEntry{})
	copy(s.entries[idx+1:], s.entries[idx:])
	s.entries[idx] = SlotEntry{Job: job.ID(), Start: start, End: end}

	job.slot = s.id
	return nil
}

// RunningAt returns the entry occupying the slot at time t, if any
func (s *FactorySlot) RunningAt(t time.Time) (SlotEntry, bool) {
	for _, e := range s.entries {
		if e.RunsAt(t) {
			return e, true
		}
	}
	return SlotEntry{}, false
}

// Utilization returns the fraction of [from, from+horizon) during which the slot is busy
func (s *FactorySlot) Utilization(from time.Time, horizon time.Duration) float64 {
	if horizon <= 0 {
		return 0
	}
	to := from.Add(horizon)

	var busy time.Duration
	for _, e := range s.entries {
		start := e.Start
		if start.Before(from) {
			start = from
		}
		end := e.End
		if end.After(to) {
			end = to
		}
		if end.After(start) {
			busy += end.Sub(start)
		}
	}
	return float64(busy) / float64(horizon)
}

// QualifiedName returns "factory/slot"
func (s *FactorySlot) QualifiedName() string {
	return s.factory + "/" + s.name
}
