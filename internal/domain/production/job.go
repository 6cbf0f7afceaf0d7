package production

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// JobID is the handle assigned to a job by the plant's job arena
type JobID int

// NoSlot marks a job that has not been placed in a slot yet
const NoSlot SlotID = -1

// Job is a scheduled instance of a template occupying one factory slot.
//
// prerequisites lists the jobs that must finish before this one may run.
type Job struct {
	id            JobID
	name          string
	template      *JobTemplate
	slot          SlotID
	duration      time.Duration
	cost          decimal.Decimal
	runs          int
	startDate     *time.Time
	prerequisites []JobID
	status        JobStatus
	production    ProductionJob
}

// newJob instantiates a job from a template for the given slot.
// Duration and cost are evaluated against the slot; the production capability is
// resolved here once.
func newJob(id JobID, template *JobTemplate, slot *FactorySlot, prerequisites []JobID) *Job {
	seen := make(map[JobID]bool, len(prerequisites))
	prereqs := make([]JobID, 0, len(prerequisites))
	for _, p := range prerequisites {
		if !seen[p] {
			seen[p] = true
			prereqs = append(prereqs, p)
		}
	}

	job := &Job{
		id:            id,
		name:          fmt.Sprintf("%s #%d", template.Name(), id),
		template:      template,
		slot:          NoSlot,
		duration:      template.Duration(slot),
		cost:          template.Cost(slot),
		runs:          template.Runs(),
		prerequisites: prereqs,
		status:        JobStatusProspective,
	}
	if r := template.Recipe(); r != nil && !r.IsEmpty() {
		job.production = &recipeJob{recipe: r, runs: job.runs}
	}
	return job
}

// Getters

func (j *Job) ID() JobID {
	return j.id
}

func (j *Job) Name() string {
	return j.name
}

func (j *Job) Template() *JobTemplate {
	return j.template
}

// Slot returns the slot the job was placed in, or NoSlot
func (j *Job) Slot() SlotID {
	return j.slot
}

func (j *Job) Duration() time.Duration {
	return j.duration
}

func (j *Job) Cost() decimal.Decimal {
	return j.cost
}

func (j *Job) Runs() int {
	return j.runs
}

func (j *Job) Mode() JobMode {
	return j.template.Mode()
}

func (j *Job) Status() JobStatus {
	return j.status
}

// Prerequisites returns the IDs of jobs that must finish before this job may run
func (j *Job) Prerequisites() []JobID {
	out := make([]JobID, len(j.prerequisites))
	copy(out, j.prerequisites)
	return out
}

// HasPrerequisites returns true when the job waits on other jobs
func (j *Job) HasPrerequisites() bool {
	return len(j.prerequisites) > 0
}

// DependsOn returns true if other is one of this job's prerequisites
func (j *Job) DependsOn(other JobID) bool {
	for _, p := range j.prerequisites {
		if p == other {
			return true
		}
	}
	return false
}

// StartDate returns the planned start date, if one has been resolved
func (j *Job) StartDate() (time.Time, bool) {
	if j.startDate == nil {
		return time.Time{}, false
	}
	return *j.startDate, true
}

// EndDate returns start date + duration, if the job has a start date
func (j *Job) EndDate() (time.Time, bool) {
	start, ok := j.StartDate()
	if !ok {
		return time.Time{}, false
	}
	return start.Add(j.duration), true
}

// ScheduleAt sets the planned start date. Only allowed before the job is placed in a slot.
func (j *Job) ScheduleAt(start time.Time) error {
	if j.slot != NoSlot {
		return fmt.Errorf("job %d is already placed in slot %d", j.id, j.slot)
	}
	j.startDate = &start
	return nil
}

// RunsAt returns true if the job is running at time t
func (j *Job) RunsAt(t time.Time) bool {
	start, ok := j.StartDate()
	if !ok {
		return false
	}
	return !t.Before(start) && t.Before(start.Add(j.duration))
}

// Production returns the job's physical input/output behaviour, if it has any
func (j *Job) Production() (ProductionJob, bool) {
	return j.production, j.production != nil
}

// TransitionTo moves the job to the next status, validated against the transition table
func (j *Job) TransitionTo(next JobStatus) error {
	if err := ValidateTransition(j.id, j.status, next); err != nil {
		return err
	}
	j.status = next
	return nil
}

func (j *Job) String() string {
	return j.name
}
