package simulation

import (
	"container/heap"
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// tickQueue implements heap.Interface over future tick keys (UnixNano)
type tickQueue []int64

func (q tickQueue) Len() int           { return len(q) }
func (q tickQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q tickQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *tickQueue) Push(x any) {
	*q = append(*q, x.(int64))
}

func (q *tickQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Clock is a single-threaded discrete-event scheduler over logical time.
//
// Actions due now sit on a LIFO runnable stack. Future actions are bucketed by tick,
// with the ticks kept in a min-heap. Time only moves forward.
type Clock struct {
	now      time.Time
	runnable []Action
	future   map[int64][]Action
	ticks    tickQueue
	executor Executor
	stopped  atomic.Bool
	done     atomic.Bool
}

// NewClock creates a clock at start that runs actions through the executor
func NewClock(start time.Time, executor Executor) *Clock {
	return &Clock{
		now:      start,
		runnable: make([]Action, 0),
		future:   make(map[int64][]Action),
		ticks:    make(tickQueue, 0),
		executor: executor,
	}
}

// Now returns the current logical time
func (c *Clock) Now() time.Time {
	return c.now
}

// Schedule queues an action. Actions for the current tick go on the runnable stack,
// future ones into their tick's bucket. Scheduling into the past fails.
func (c *Clock) Schedule(a Action, at time.Time) error {
	switch {
	case at.Equal(c.now):
		c.runnable = append(c.runnable, a)
	case at.After(c.now):
		key := at.UnixNano()
		if _, exists := c.future[key]; !exists {
			heap.Push(&c.ticks, key)
		}
		c.future[key] = append(c.future[key], a)
	default:
		return &ErrPastScheduling{Action: a, At: at, Now: c.now}
	}
	return nil
}

// Advance moves to the earliest future tick and makes its actions runnable.
// Returns false when no future ticks remain.
func (c *Clock) Advance() (bool, error) {
	if len(c.runnable) > 0 {
		return false, &ErrRunnableNotDrained{Pending: len(c.runnable)}
	}
	if c.ticks.Len() == 0 {
		return false, nil
	}

	key := heap.Pop(&c.ticks).(int64)
	actions := c.future[key]
	delete(c.future, key)

	c.now = time.Unix(0, key).In(c.now.Location())
	c.runnable = append(c.runnable, actions...)
	return true, nil
}

// Run drains the runnable stack, then advances, until no actions remain or Stop is called.
// onAdvance, when not nil, is notified after every successful advance.
// An executor error stops the clock and is returned.
func (c *Clock) Run(ctx context.Context, onAdvance func(now time.Time)) error {
	defer c.done.Store(true)

	for {
		for len(c.runnable) > 0 {
			if c.stopped.Load() {
				logrus.Debugf("[tick %s] Stop requested, %d runnable actions dropped", c.now.Format(time.RFC3339), len(c.runnable))
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			a := c.runnable[len(c.runnable)-1]
			c.runnable = c.runnable[:len(c.runnable)-1]
			logrus.Debugf("[tick %s] Executing %s", c.now.Format(time.RFC3339), a)
			if err := c.executor(c.now, a); err != nil {
				return err
			}
		}

		if c.stopped.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		advanced, err := c.Advance()
		if err != nil {
			return err
		}
		if !advanced {
			logrus.Debugf("[tick %s] Simulation ended", c.now.Format(time.RFC3339))
			return nil
		}
		if onAdvance != nil {
			onAdvance(c.now)
		}
	}
}

// Stop asks a running clock to halt before its next action or advance.
// Safe to call from another goroutine.
func (c *Clock) Stop() {
	c.stopped.Store(true)
}

// Done returns true once Run has returned
func (c *Clock) Done() bool {
	return c.done.Load()
}

// Pending returns the number of queued actions, runnable and future
func (c *Clock) Pending() int {
	n := len(c.runnable)
	for _, actions := range c.future {
		n += len(actions)
	}
	return n
}
