package simulation

import (
	"time"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

// Listener is notified as the simulation advances and jobs move through their lifecycle.
// Callers use it for resource accounting and progress reporting.
type Listener interface {
	ClockAdvanced(now time.Time)

	BeforeJobStart(job *production.Job, slot *production.FactorySlot, now time.Time)
	AfterJobStart(job *production.Job, slot *production.FactorySlot, now time.Time)

	BeforeJobEnd(job *production.Job, slot *production.FactorySlot, now time.Time)
	AfterJobEnd(job *production.Job, slot *production.FactorySlot, now time.Time)

	// HasManualJobBeenStarted reports whether an eligible MANUAL job has been started by the operator
	HasManualJobBeenStarted(job *production.Job, now time.Time) bool
}

// BaseListener ignores every notification and treats manual jobs as started immediately.
// Embed it to override only the callbacks you need.
type BaseListener struct{}

func (BaseListener) ClockAdvanced(time.Time) {}

func (BaseListener) BeforeJobStart(*production.Job, *production.FactorySlot, time.Time) {}

func (BaseListener) AfterJobStart(*production.Job, *production.FactorySlot, time.Time) {}

func (BaseListener) BeforeJobEnd(*production.Job, *production.FactorySlot, time.Time) {}

func (BaseListener) AfterJobEnd(*production.Job, *production.FactorySlot, time.Time) {}

func (BaseListener) HasManualJobBeenStarted(*production.Job, time.Time) bool {
	return true
}

// MultiListener fans every notification out to several listeners in order.
// A manual job counts as started only when every listener agrees.
type MultiListener []Listener

func (m MultiListener) ClockAdvanced(now time.Time) {
	for _, l := range m {
		l.ClockAdvanced(now)
	}
}

func (m MultiListener) BeforeJobStart(job *production.Job, slot *production.FactorySlot, now time.Time) {
	for _, l := range m {
		l.BeforeJobStart(job, slot, now)
	}
}

func (m MultiListener) AfterJobStart(job *production.Job, slot *production.FactorySlot, now time.Time) {
	for _, l := range m {
		l.AfterJobStart(job, slot, now)
	}
}

func (m MultiListener) BeforeJobEnd(job *production.Job, slot *production.FactorySlot, now time.Time) {
	for _, l := range m {
		l.BeforeJobEnd(job, slot, now)
	}
}

func (m MultiListener) AfterJobEnd(job *production.Job, slot *production.FactorySlot, now time.Time) {
	for _, l := range m {
		l.AfterJobEnd(job, slot, now)
	}
}

func (m MultiListener) HasManualJobBeenStarted(job *production.Job, now time.Time) bool {
	for _, l := range m {
		if !l.HasManualJobBeenStarted(job, now) {
			return false
		}
	}
	return true
}
