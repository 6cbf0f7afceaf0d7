package scheduling

import (
	"fmt"
	"strings"
)

// ErrCyclicDependency indicates the template graph contains a cycle
type ErrCyclicDependency struct {
	Cycle []string
}

func (e *ErrCyclicDependency) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

// ErrEmptyTemplateList indicates scheduling was requested with no templates
type ErrEmptyTemplateList struct{}

func (e *ErrEmptyTemplateList) Error() string {
	return "cannot schedule an empty template list"
}

// ErrNoEligibleSlot indicates no slot in any factory accepts the template
type ErrNoEligibleSlot struct {
	Template string
	Activity string
}

func (e *ErrNoEligibleSlot) Error() string {
	return fmt.Sprintf("no slot accepts template %s (activity %s)", e.Template, e.Activity)
}

// ErrMissingPrerequisiteJob indicates a prerequisite template has no job yet.
// Topological order guarantees this cannot happen for well-formed input.
type ErrMissingPrerequisiteJob struct {
	Template     string
	Prerequisite string
}

func (e *ErrMissingPrerequisiteJob) Error() string {
	return fmt.Sprintf("template %s: no job created for prerequisite %s", e.Template, e.Prerequisite)
}
