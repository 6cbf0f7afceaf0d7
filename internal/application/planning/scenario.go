package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// BaselineScenario is the name of the scenario used when none is given
const BaselineScenario = "baseline"

// LedgerAdjustment changes one balance of a scenario's ledger snapshot
type LedgerAdjustment struct {
	Type     production.ResourceType
	Location production.ProductionLocation
	Delta    int64
}

// Scenario is one what-if variation of a plan: ledger adjustments plus a manual start policy
type Scenario struct {
	Name         string
	Adjustments  []LedgerAdjustment
	ManualPolicy ManualStartPolicy

	// CatchUp starts automatic jobs late instead of failing when a manual prerequisite ran late
	CatchUp bool
}

// Baseline returns the scenario with no adjustments where manual jobs start immediately
func Baseline() Scenario {
	return Scenario{Name: BaselineScenario, ManualPolicy: AlwaysStart()}
}

// Apply applies the scenario's adjustments to a ledger
func (s Scenario) Apply(ledger *resources.Manager) {
	for _, adj := range s.Adjustments {
		if adj.Delta >= 0 {
			ledger.Produce(adj.Type, adj.Location, adj.Delta)
		} else {
			ledger.Consume(adj.Type, adj.Location, -adj.Delta)
		}
	}
}

type manualPolicyKind int

const (
	policyAlways manualPolicyKind = iota
	policyNever
	policyAfter
)

// ManualStartPolicy decides when an eligible MANUAL job is considered started by its operator
type ManualStartPolicy struct {
	kind  manualPolicyKind
	delay time.Duration
}

// AlwaysStart starts manual jobs as soon as they are eligible
func AlwaysStart() ManualStartPolicy {
	return ManualStartPolicy{kind: policyAlways}
}

// NeverStart leaves manual jobs waiting forever
func NeverStart() ManualStartPolicy {
	return ManualStartPolicy{kind: policyNever}
}

// StartAfter starts manual jobs once they have been eligible for delay
func StartAfter(delay time.Duration) ManualStartPolicy {
	return ManualStartPolicy{kind: policyAfter, delay: delay}
}

// ParseManualStartPolicy parses "always", "never" or "after:<duration>" (e.g. "after:2h")
func ParseManualStartPolicy(s string) (ManualStartPolicy, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	switch {
	case value == "" || value == "always":
		return AlwaysStart(), nil
	case value == "never":
		return NeverStart(), nil
	case strings.HasPrefix(value, "after:"):
		delay, err := time.ParseDuration(strings.TrimPrefix(value, "after:"))
		if err != nil {
			return ManualStartPolicy{}, shared.NewValidationError("manual_policy", fmt.Sprintf("invalid delay in %q: %v", s, err))
		}
		if delay < 0 {
			return ManualStartPolicy{}, shared.NewValidationError("manual_policy", "delay cannot be negative")
		}
		return StartAfter(delay), nil
	default:
		return ManualStartPolicy{}, shared.NewValidationError("manual_policy", fmt.Sprintf("unknown policy %q", s))
	}
}

// Started reports whether a job eligible since eligibleSince has been started at now
func (p ManualStartPolicy) Started(eligibleSince, now time.Time) bool {
	switch p.kind {
	case policyNever:
		return false
	case policyAfter:
		return !now.Before(eligibleSince.Add(p.delay))
	default:
		return true
	}
}

func (p ManualStartPolicy) String() string {
	switch p.kind {
	case policyNever:
		return "never"
	case policyAfter:
		return "after:" + p.delay.String()
	default:
		return "always"
	}
}
