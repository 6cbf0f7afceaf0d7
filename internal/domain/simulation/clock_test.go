package simulation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/simulation"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type executed struct {
	at  time.Time
	job production.JobID
}

func recordingClock(log *[]executed) *simulation.Clock {
	return simulation.NewClock(t0, func(now time.Time, a simulation.Action) error {
		*log = append(*log, executed{at: now, job: a.Job})
		return nil
	})
}

func TestClock_SameTickActionsRunLIFO(t *testing.T) {
	var log []executed
	clock := recordingClock(&log)

	require.NoError(t, clock.Schedule(simulation.Action{Job: 1}, t0))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 2}, t0))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 3}, t0.Add(time.Minute)))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 4}, t0.Add(time.Minute)))

	require.NoError(t, clock.Run(context.Background(), nil))

	assert.Equal(t, []executed{
		{at: t0, job: 2},
		{at: t0, job: 1},
		{at: t0.Add(time.Minute), job: 4},
		{at: t0.Add(time.Minute), job: 3},
	}, log)
	assert.True(t, clock.Done())
	assert.Equal(t, t0.Add(time.Minute), clock.Now())
}

func TestClock_FutureTicksRunInTimeOrder(t *testing.T) {
	var log []executed
	clock := recordingClock(&log)

	require.NoError(t, clock.Schedule(simulation.Action{Job: 3}, t0.Add(3*time.Hour)))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 1}, t0.Add(time.Hour)))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 2}, t0.Add(2*time.Hour)))

	var advances []time.Time
	require.NoError(t, clock.Run(context.Background(), func(now time.Time) {
		advances = append(advances, now)
	}))

	require.Len(t, log, 3)
	for i := 1; i < len(advances); i++ {
		assert.True(t, advances[i].After(advances[i-1]))
	}
	assert.Equal(t, production.JobID(1), log[0].job)
	assert.Equal(t, production.JobID(3), log[2].job)
	assert.Len(t, advances, 3)
}

func TestClock_ActionsScheduledForCurrentTickAreDrainedFirst(t *testing.T) {
	var clock *simulation.Clock
	var log []production.JobID
	clock = simulation.NewClock(t0, func(now time.Time, a simulation.Action) error {
		log = append(log, a.Job)
		if a.Job == 1 {
			return clock.Schedule(simulation.Action{Job: 10}, now)
		}
		return nil
	})
	require.NoError(t, clock.Schedule(simulation.Action{Job: 2}, t0.Add(time.Second)))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 1}, t0))

	require.NoError(t, clock.Run(context.Background(), nil))

	assert.Equal(t, []production.JobID{1, 10, 2}, log)
}

func TestClock_RejectsPastScheduling(t *testing.T) {
	clock := simulation.NewClock(t0, func(time.Time, simulation.Action) error { return nil })

	err := clock.Schedule(simulation.Action{Job: 1}, t0.Add(-time.Second))

	var past *simulation.ErrPastScheduling
	require.True(t, errors.As(err, &past))
	assert.Equal(t, t0, past.Now)
}

func TestClock_AdvanceRequiresDrainedStack(t *testing.T) {
	clock := simulation.NewClock(t0, func(time.Time, simulation.Action) error { return nil })
	require.NoError(t, clock.Schedule(simulation.Action{Job: 1}, t0))

	_, err := clock.Advance()
	var notDrained *simulation.ErrRunnableNotDrained
	require.True(t, errors.As(err, &notDrained))
	assert.Equal(t, 1, notDrained.Pending)
}

func TestClock_AdvanceReportsEmptyQueue(t *testing.T) {
	clock := simulation.NewClock(t0, func(time.Time, simulation.Action) error { return nil })

	advanced, err := clock.Advance()

	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, t0, clock.Now())
}

func TestClock_StopHaltsBeforeNextAction(t *testing.T) {
	var clock *simulation.Clock
	count := 0
	clock = simulation.NewClock(t0, func(time.Time, simulation.Action) error {
		count++
		clock.Stop()
		return nil
	})
	require.NoError(t, clock.Schedule(simulation.Action{Job: 1}, t0))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 2}, t0))
	require.NoError(t, clock.Schedule(simulation.Action{Job: 3}, t0.Add(time.Minute)))

	require.NoError(t, clock.Run(context.Background(), nil))

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, clock.Pending())
	assert.Equal(t, t0, clock.Now())
}

func TestClock_ExecutorErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	clock := simulation.NewClock(t0, func(time.Time, simulation.Action) error { return boom })
	require.NoError(t, clock.Schedule(simulation.Action{Job: 1}, t0.Add(time.Minute)))

	err := clock.Run(context.Background(), nil)

	assert.ErrorIs(t, err, boom)
	assert.True(t, clock.Done())
}
