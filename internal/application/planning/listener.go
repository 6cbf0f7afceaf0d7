package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/domain/simulation"
)

// ResourceAccountingListener applies each job's physical side effects to a ledger:
// inputs are consumed before a job starts and outputs produced after it finishes.
// Manual jobs are started according to the scenario's policy.
type ResourceAccountingListener struct {
	simulation.BaseListener

	ledger        *resources.Manager
	policy        ManualStartPolicy
	logger        common.Logger
	eligibleSince map[production.JobID]time.Time
}

// NewResourceAccountingListener creates a listener mutating the given ledger (normally a snapshot)
func NewResourceAccountingListener(ctx context.Context, ledger *resources.Manager, policy ManualStartPolicy) *ResourceAccountingListener {
	return &ResourceAccountingListener{
		ledger:        ledger,
		policy:        policy,
		logger:        common.LoggerFromContext(ctx),
		eligibleSince: make(map[production.JobID]time.Time),
	}
}

// Ledger returns the ledger the listener mutates
func (l *ResourceAccountingListener) Ledger() *resources.Manager {
	return l.ledger
}

func (l *ResourceAccountingListener) BeforeJobStart(job *production.Job, slot *production.FactorySlot, now time.Time) {
	prod, ok := job.Production()
	if !ok {
		return
	}
	prod.ConsumeRequiredResources(slot, l.ledger)

	for _, req := range prod.RequiredResources() {
		if balance := l.ledger.Balance(req.Type, slot.InputLocation()); balance < 0 {
			l.logger.Log("WARNING", fmt.Sprintf("%s leaves %s short at %s", job.Name(), req.Type, slot.InputLocation()), map[string]interface{}{
				"job":      job.Name(),
				"resource": req.Type.Name,
				"location": slot.InputLocation().Name,
				"balance":  balance,
				"at":       now.Format(time.RFC3339),
			})
		}
	}
}

func (l *ResourceAccountingListener) AfterJobEnd(job *production.Job, slot *production.FactorySlot, now time.Time) {
	if prod, ok := job.Production(); ok {
		prod.AddProducedResources(slot, l.ledger)
	}
}

func (l *ResourceAccountingListener) HasManualJobBeenStarted(job *production.Job, now time.Time) bool {
	since, seen := l.eligibleSince[job.ID()]
	if !seen {
		since = now
		l.eligibleSince[job.ID()] = now
	}
	return l.policy.Started(since, now)
}
