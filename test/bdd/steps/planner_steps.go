package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/adapters/planfile"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/application/planning/commands"
	"github.com/andrescamacho/industry-planner/internal/application/planning/queries"
	"github.com/andrescamacho/industry-planner/internal/application/setup"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

// sharedErr carries the last operation error across step contexts
var sharedErr error

type plannerContext struct {
	settings setup.PlannerSettings
	mediator common.Mediator

	plan     *planning.Plan
	summary  *planning.ScheduleSummary
	report   *planning.SimulationReport
	reports  []*planning.SimulationReport
	planJobs int
}

func (pc *plannerContext) reset() {
	pc.settings = setup.PlannerSettings{
		Simulation: planning.SimulationOptions{
			Resolution: time.Minute,
			Horizon:    24 * time.Hour,
		},
		WhatIfParallelism: 4,
	}
	pc.mediator = nil
	pc.plan = nil
	pc.summary = nil
	pc.report = nil
	pc.reports = nil
	pc.planJobs = 0
	sharedErr = nil
}

// send dispatches through a mediator backed by the shared test database
func (pc *plannerContext) send(request common.Request) (common.Response, error) {
	if pc.mediator == nil {
		m, err := newTestMediator(pc.settings)
		if err != nil {
			return nil, err
		}
		pc.mediator = m
	}
	return pc.mediator.Send(context.Background(), request)
}

func newTestMediator(settings setup.PlannerSettings) (common.Mediator, error) {
	repos := helpers.NewTestRepositories()
	registry := setup.NewHandlerRegistry(
		repos.LedgerRepo,
		repos.ScheduleRepo,
		shared.NewMockClock(helpers.TestPlanStart),
		settings,
	)
	return registry.CreateConfiguredMediator(common.LoggingMiddleware())
}

// Given steps

func (pc *plannerContext) thePlan(doc *godog.DocString) error {
	parsed, err := planfile.Parse(strings.NewReader(doc.Content))
	if err != nil {
		return fmt.Errorf("invalid plan document: %w", err)
	}
	plan, err := parsed.Build()
	if err != nil {
		sharedErr = err
		return nil
	}
	pc.plan = plan
	return nil
}

func (pc *plannerContext) theSimulationResolutionAndHorizon(resolution, horizon string) error {
	res, err := time.ParseDuration(resolution)
	if err != nil {
		return err
	}
	hor, err := time.ParseDuration(horizon)
	if err != nil {
		return err
	}
	pc.settings.Simulation = planning.SimulationOptions{Resolution: res, Horizon: hor}
	pc.mediator = nil
	return nil
}

// When steps

func (pc *plannerContext) schedule(persist bool) error {
	if pc.plan == nil {
		return nil
	}
	resp, err := pc.send(&commands.SchedulePlanCommand{Plan: pc.plan, Persist: persist})
	if err != nil {
		sharedErr = err
		return nil
	}
	pc.summary = resp.(*commands.SchedulePlanResponse).Summary
	return nil
}

func (pc *plannerContext) iScheduleThePlan() error {
	return pc.schedule(false)
}

func (pc *plannerContext) iScheduleAndPersistThePlan() error {
	return pc.schedule(true)
}

func (pc *plannerContext) iScheduleThePlanAgain() error {
	return pc.schedule(false)
}

func (pc *plannerContext) simulate(scenario, ledger string) error {
	if pc.plan == nil {
		return nil
	}
	resp, err := pc.send(&commands.SimulatePlanCommand{Plan: pc.plan, Scenario: scenario, LedgerName: ledger})
	if err != nil {
		sharedErr = err
		return nil
	}
	pc.report = resp.(*commands.SimulatePlanResponse).Report
	pc.planJobs = len(pc.plan.Plant.Jobs())
	return nil
}

func (pc *plannerContext) iSimulateThePlan() error {
	return pc.simulate("", "")
}

func (pc *plannerContext) iSimulateThePlanUnderScenario(scenario string) error {
	return pc.simulate(scenario, "")
}

func (pc *plannerContext) iSimulateThePlanFromLedger(ledger string) error {
	return pc.simulate("", ledger)
}

func (pc *plannerContext) iRunEveryWhatIfScenario() error {
	if pc.plan == nil {
		return nil
	}
	resp, err := pc.send(&commands.RunWhatIfCommand{Plan: pc.plan})
	if err != nil {
		sharedErr = err
		return nil
	}
	pc.reports = resp.(*commands.RunWhatIfResponse).Reports
	return nil
}

// Then steps

func (pc *plannerContext) theScheduleShouldHaveJobs(expected int) error {
	if pc.summary == nil {
		return fmt.Errorf("no schedule computed (last error: %v)", sharedErr)
	}
	if len(pc.summary.Jobs) != expected {
		return fmt.Errorf("expected %d jobs, got %d", expected, len(pc.summary.Jobs))
	}
	return nil
}

func (pc *plannerContext) jobShouldRunOnFromTo(name, slot, from, to string) error {
	if pc.summary == nil {
		return fmt.Errorf("no schedule computed (last error: %v)", sharedErr)
	}
	start, err := time.ParseDuration(from)
	if err != nil {
		return err
	}
	end, err := time.ParseDuration(to)
	if err != nil {
		return err
	}
	for _, j := range pc.summary.Jobs {
		if j.Name != name {
			continue
		}
		if j.Slot != slot {
			return fmt.Errorf("expected %s on slot %s, got %s", name, slot, j.Slot)
		}
		if got := j.Start.Sub(pc.summary.Start); got != start {
			return fmt.Errorf("expected %s to start at +%s, got +%s", name, start, got)
		}
		if got := j.End.Sub(pc.summary.Start); got != end {
			return fmt.Errorf("expected %s to end at +%s, got +%s", name, end, got)
		}
		return nil
	}
	return fmt.Errorf("job %s not found in schedule", name)
}

func (pc *plannerContext) jobShouldWaitFor(name, prerequisite string) error {
	if pc.summary == nil {
		return fmt.Errorf("no schedule computed (last error: %v)", sharedErr)
	}
	for _, j := range pc.summary.Jobs {
		if j.Name != name {
			continue
		}
		for _, p := range j.Prerequisites {
			if p == prerequisite {
				return nil
			}
		}
		return fmt.Errorf("expected %s to wait for %s, prerequisites are %v", name, prerequisite, j.Prerequisites)
	}
	return fmt.Errorf("job %s not found in schedule", name)
}

func (pc *plannerContext) theMakespanShouldBe(expected string) error {
	if pc.summary == nil {
		return fmt.Errorf("no schedule computed (last error: %v)", sharedErr)
	}
	d, err := time.ParseDuration(expected)
	if err != nil {
		return err
	}
	if got := pc.summary.Makespan(); got != d {
		return fmt.Errorf("expected makespan %s, got %s", d, got)
	}
	return nil
}

func (pc *plannerContext) theTotalCostShouldBe(expected string) error {
	if pc.summary == nil {
		return fmt.Errorf("no schedule computed (last error: %v)", sharedErr)
	}
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !pc.summary.TotalCost.Equal(want) {
		return fmt.Errorf("expected total cost %s, got %s", want, pc.summary.TotalCost)
	}
	return nil
}

func (pc *plannerContext) theOperationShouldFailWith(fragment string) error {
	if sharedErr == nil {
		return fmt.Errorf("expected an error containing %q, got none", fragment)
	}
	if !strings.Contains(sharedErr.Error(), fragment) {
		return fmt.Errorf("expected an error containing %q, got %q", fragment, sharedErr.Error())
	}
	return nil
}

func (pc *plannerContext) noJobsShouldHaveBeenCreated() error {
	if pc.plan == nil {
		return nil
	}
	if n := len(pc.plan.Plant.Jobs()); n != 0 {
		return fmt.Errorf("expected no jobs, found %d", n)
	}
	return nil
}

func (pc *plannerContext) outcome(name string) (planning.JobOutcome, error) {
	if pc.report == nil {
		return planning.JobOutcome{}, fmt.Errorf("no simulation report (last error: %v)", sharedErr)
	}
	for _, j := range pc.report.Jobs {
		if j.Name == name {
			return j, nil
		}
	}
	return planning.JobOutcome{}, fmt.Errorf("job %s not found in simulation report", name)
}

func (pc *plannerContext) jobShouldEndTheRun(name, status string) error {
	o, err := pc.outcome(name)
	if err != nil {
		return err
	}
	if string(o.Status) != status {
		return fmt.Errorf("expected %s to be %s, got %s", name, status, o.Status)
	}
	return nil
}

func (pc *plannerContext) jobShouldHaveStartedAt(name, offset string) error {
	o, err := pc.outcome(name)
	if err != nil {
		return err
	}
	d, err := time.ParseDuration(offset)
	if err != nil {
		return err
	}
	if got := o.StartedAt.Sub(pc.report.Start); got != d {
		return fmt.Errorf("expected %s to start at +%s, got +%s", name, d, got)
	}
	return nil
}

func (pc *plannerContext) jobShouldHaveBeenDelayedBy(name, delay string) error {
	o, err := pc.outcome(name)
	if err != nil {
		return err
	}
	d, err := time.ParseDuration(delay)
	if err != nil {
		return err
	}
	if got := o.Delay(); got != d {
		return fmt.Errorf("expected %s to be delayed by %s, got %s", name, d, got)
	}
	return nil
}

func (pc *plannerContext) theBalanceOfAtShouldBe(resource, location string, expected int64) error {
	if pc.report == nil {
		return fmt.Errorf("no simulation report (last error: %v)", sharedErr)
	}
	if got := balanceOf(pc.report.Balances, resource, location); got != expected {
		return fmt.Errorf("expected %d %s at %s, got %d", expected, resource, location, got)
	}
	return nil
}

func (pc *plannerContext) thereShouldBeShortfalls(expected int) error {
	if pc.report == nil {
		return fmt.Errorf("no simulation report (last error: %v)", sharedErr)
	}
	if len(pc.report.Shortfalls) != expected {
		return fmt.Errorf("expected %d shortfalls, got %d: %v", expected, len(pc.report.Shortfalls), pc.report.Shortfalls)
	}
	return nil
}

func (pc *plannerContext) thePlanLedgerShouldStillHold(expected int64, resource, location string) error {
	if pc.plan == nil {
		return fmt.Errorf("no plan loaded")
	}
	got := balanceOf(pc.plan.Ledger.ResourcesAt(resources.AnyLocation), resource, location)
	if got != expected {
		return fmt.Errorf("expected plan ledger to hold %d %s at %s, got %d", expected, resource, location, got)
	}
	return nil
}

func (pc *plannerContext) theWhatIfRunShouldReportScenarios(expected int) error {
	if len(pc.reports) != expected {
		return fmt.Errorf("expected %d scenario reports, got %d (last error: %v)", expected, len(pc.reports), sharedErr)
	}
	return nil
}

func (pc *plannerContext) scenarioShouldHaveJobsInStatus(scenario string, expected int, status string) error {
	for _, r := range pc.reports {
		if r.Scenario != scenario {
			continue
		}
		if got := r.Count(production.JobStatus(status)); got != expected {
			return fmt.Errorf("expected %d %s jobs in scenario %s, got %d", expected, status, scenario, got)
		}
		return nil
	}
	return fmt.Errorf("scenario %s not found in what-if results", scenario)
}

func (pc *plannerContext) scenarioShouldEndWithOfAt(scenario string, expected int64, resource, location string) error {
	for _, r := range pc.reports {
		if r.Scenario != scenario {
			continue
		}
		if got := balanceOf(r.Balances, resource, location); got != expected {
			return fmt.Errorf("expected scenario %s to end with %d %s at %s, got %d", scenario, expected, resource, location, got)
		}
		return nil
	}
	return fmt.Errorf("scenario %s not found in what-if results", scenario)
}

func (pc *plannerContext) schedulesShouldBeStoredForPlan(expected int, plan string) error {
	resp, err := pc.send(&queries.GetScheduleQuery{PlanName: plan})
	if err != nil {
		return err
	}
	schedules := resp.(*queries.GetScheduleResponse).Schedules
	if len(schedules) != expected {
		return fmt.Errorf("expected %d stored schedules for %s, got %d", expected, plan, len(schedules))
	}
	return nil
}

// balanceOf finds a cell by resource and location name; missing cells are zero
func balanceOf(balances []resources.Resource, resource, location string) int64 {
	for _, b := range balances {
		if b.Type.Name == resource && b.Location.Name == location {
			return b.Amount
		}
	}
	return 0
}

func InitializePlannerScenario(ctx *godog.ScenarioContext) {
	pc := &plannerContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, helpers.TruncateAllTables()
	})

	// Given steps
	ctx.Step(`^the plan:$`, pc.thePlan)
	ctx.Step(`^the simulation resolution is (\S+) and the horizon is (\S+)$`, pc.theSimulationResolutionAndHorizon)

	// When steps
	ctx.Step(`^I schedule the plan$`, pc.iScheduleThePlan)
	ctx.Step(`^I schedule and persist the plan$`, pc.iScheduleAndPersistThePlan)
	ctx.Step(`^I schedule the plan again$`, pc.iScheduleThePlanAgain)
	ctx.Step(`^I simulate the plan$`, pc.iSimulateThePlan)
	ctx.Step(`^I simulate the plan under scenario "([^"]*)"$`, pc.iSimulateThePlanUnderScenario)
	ctx.Step(`^I simulate the plan from ledger "([^"]*)"$`, pc.iSimulateThePlanFromLedger)
	ctx.Step(`^I run every what-if scenario$`, pc.iRunEveryWhatIfScenario)

	// Then steps
	ctx.Step(`^the schedule should have (\d+) jobs?$`, pc.theScheduleShouldHaveJobs)
	ctx.Step(`^job "([^"]*)" should run on "([^"]*)" from \+(\S+) to \+(\S+)$`, pc.jobShouldRunOnFromTo)
	ctx.Step(`^job "([^"]*)" should wait for "([^"]*)"$`, pc.jobShouldWaitFor)
	ctx.Step(`^the makespan should be (\S+)$`, pc.theMakespanShouldBe)
	ctx.Step(`^the total cost should be (\S+)$`, pc.theTotalCostShouldBe)
	ctx.Step(`^the operation should fail with "([^"]*)"$`, pc.theOperationShouldFailWith)
	ctx.Step(`^no jobs should have been created$`, pc.noJobsShouldHaveBeenCreated)
	ctx.Step(`^job "([^"]*)" should be (PROSPECTIVE|NOT_STARTED|PENDING|FINISHED)$`, pc.jobShouldEndTheRun)
	ctx.Step(`^job "([^"]*)" should have started at \+(\S+)$`, pc.jobShouldHaveStartedAt)
	ctx.Step(`^job "([^"]*)" should have been delayed by (\S+)$`, pc.jobShouldHaveBeenDelayedBy)
	ctx.Step(`^the balance of "([^"]*)" at "([^"]*)" should be (-?\d+)$`, pc.theBalanceOfAtShouldBe)
	ctx.Step(`^there should be (\d+) shortfalls?$`, pc.thereShouldBeShortfalls)
	ctx.Step(`^the plan ledger should still hold (-?\d+) "([^"]*)" at "([^"]*)"$`, pc.thePlanLedgerShouldStillHold)
	ctx.Step(`^the what-if run should report (\d+) scenarios?$`, pc.theWhatIfRunShouldReportScenarios)
	ctx.Step(`^scenario "([^"]*)" should have (\d+) (PROSPECTIVE|NOT_STARTED|PENDING|FINISHED) jobs?$`, pc.scenarioShouldHaveJobsInStatus)
	ctx.Step(`^scenario "([^"]*)" should end with (-?\d+) "([^"]*)" at "([^"]*)"$`, pc.scenarioShouldEndWithOfAt)
	ctx.Step(`^(\d+) schedules? should be stored for plan "([^"]*)"$`, pc.schedulesShouldBeStoredForPlan)
}
