package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PlannerMetricsCollector handles scheduling and simulation metrics
type PlannerMetricsCollector struct {
	// Scheduling metrics
	schedulesTotal     *prometheus.CounterVec
	jobsScheduledTotal *prometheus.CounterVec
	scheduleDuration   *prometheus.HistogramVec
	slotUtilization    *prometheus.GaugeVec

	// Simulation metrics
	simulationsTotal   *prometheus.CounterVec
	simulationTicks    *prometheus.HistogramVec
	simulationDuration *prometheus.HistogramVec
	jobsByOutcome      *prometheus.GaugeVec
	resourceBalance    *prometheus.GaugeVec
}

// NewPlannerMetricsCollector creates a new planner metrics collector
func NewPlannerMetricsCollector() *PlannerMetricsCollector {
	return &PlannerMetricsCollector{
		schedulesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "schedules_total",
				Help:      "Total number of schedules computed",
			},
			[]string{"plan"},
		),
		jobsScheduledTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "jobs_scheduled_total",
				Help:      "Total number of jobs placed in factory slots",
			},
			[]string{"plan"},
		),
		scheduleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "schedule_duration_seconds",
				Help:      "Wall time spent computing a schedule",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"plan"},
		),
		slotUtilization: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "slot_utilization_ratio",
				Help:      "Fraction of the planning horizon a slot is busy",
			},
			[]string{"plan", "slot"},
		),
		simulationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "runs_total",
				Help:      "Total number of simulation runs by scenario",
			},
			[]string{"scenario"},
		),
		simulationTicks: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "clock_ticks",
				Help:      "Clock advances per simulation run",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"scenario"},
		),
		simulationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "run_duration_seconds",
				Help:      "Wall time spent running a simulation",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"scenario"},
		),
		jobsByOutcome: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "jobs",
				Help:      "Jobs by end-of-run outcome for the latest run of a scenario",
			},
			[]string{"scenario", "outcome"},
		),
		resourceBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "resource_balance",
				Help:      "End-of-run ledger balance by scenario, location and resource",
			},
			[]string{"scenario", "location", "resource"},
		),
	}
}

// Register registers all planner metrics with the Prometheus registry
func (c *PlannerMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.schedulesTotal,
		c.jobsScheduledTotal,
		c.scheduleDuration,
		c.slotUtilization,
		c.simulationsTotal,
		c.simulationTicks,
		c.simulationDuration,
		c.jobsByOutcome,
		c.resourceBalance,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSchedule records a computed schedule
func (c *PlannerMetricsCollector) RecordSchedule(plan string, jobs int, seconds float64) {
	c.schedulesTotal.WithLabelValues(plan).Inc()
	c.jobsScheduledTotal.WithLabelValues(plan).Add(float64(jobs))
	c.scheduleDuration.WithLabelValues(plan).Observe(seconds)
}

// RecordSlotUtilization records a slot's utilization
func (c *PlannerMetricsCollector) RecordSlotUtilization(plan, slot string, utilization float64) {
	c.slotUtilization.WithLabelValues(plan, slot).Set(utilization)
}

// RecordSimulation records a finished simulation run
func (c *PlannerMetricsCollector) RecordSimulation(scenario string, ticks, started, finished, unstarted int, seconds float64) {
	c.simulationsTotal.WithLabelValues(scenario).Inc()
	c.simulationTicks.WithLabelValues(scenario).Observe(float64(ticks))
	c.simulationDuration.WithLabelValues(scenario).Observe(seconds)

	c.jobsByOutcome.WithLabelValues(scenario, "finished").Set(float64(finished))
	c.jobsByOutcome.WithLabelValues(scenario, "running").Set(float64(started - finished))
	c.jobsByOutcome.WithLabelValues(scenario, "not_started").Set(float64(unstarted))
}

// RecordResourceBalance records an end-of-run ledger balance
func (c *PlannerMetricsCollector) RecordResourceBalance(scenario, location, resource string, amount int64) {
	c.resourceBalance.WithLabelValues(scenario, location, resource).Set(float64(amount))
}
