package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultNamespace is used when no namespace is configured
	DefaultNamespace = "industry_planner"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// namespace prefixes every metric name; set by InitRegistry
	namespace = DefaultNamespace

	// globalPlannerCollector is the singleton planner metrics collector
	// Set by SetGlobalPlannerCollector() when metrics are enabled
	globalPlannerCollector PlannerMetricsRecorder
)

// PlannerMetricsRecorder defines the interface for recording scheduling and simulation metrics.
// Application handlers record through the package-level helpers below.
type PlannerMetricsRecorder interface {
	RecordSchedule(plan string, jobs int, seconds float64)
	RecordSlotUtilization(plan, slot string, utilization float64)
	RecordSimulation(scenario string, ticks, started, finished, unstarted int, seconds float64)
	RecordResourceBalance(scenario, location, resource string, amount int64)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry(ns string) {
	if ns != "" {
		namespace = ns
	}
	Registry = prometheus.NewRegistry()
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Reset drops the registry and the global collector
func Reset() {
	Registry = nil
	globalPlannerCollector = nil
	namespace = DefaultNamespace
}

// WriteTextfile writes every registered metric to path in the node-exporter textfile format
func WriteTextfile(path string) error {
	if Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// SetGlobalPlannerCollector sets the global planner metrics collector
func SetGlobalPlannerCollector(collector PlannerMetricsRecorder) {
	globalPlannerCollector = collector
}

// RecordSchedule records a computed schedule globally
func RecordSchedule(plan string, jobs int, seconds float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordSchedule(plan, jobs, seconds)
	}
}

// RecordSlotUtilization records a slot's utilization over the horizon globally
func RecordSlotUtilization(plan, slot string, utilization float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordSlotUtilization(plan, slot, utilization)
	}
}

// RecordSimulation records a finished simulation run globally
func RecordSimulation(scenario string, ticks, started, finished, unstarted int, seconds float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordSimulation(scenario, ticks, started, finished, unstarted, seconds)
	}
}

// RecordResourceBalance records an end-of-run ledger balance globally
func RecordResourceBalance(scenario, location, resource string, amount int64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordResourceBalance(scenario, location, resource, amount)
	}
}
