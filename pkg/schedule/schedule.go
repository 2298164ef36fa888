// Package schedule provides cancelable single-shot tasks used for banner
// auto-dismiss and deferred textarea resizing.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Task is a pending scheduled callback.
type Task interface {
	// Cancel stops the task. It reports false when the task already ran or was
	// canceled before.
	Cancel() bool
}

// Scheduler runs fn once after d elapses.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Task
}

// Real schedules on the runtime timer.
type Real struct{}

// Schedule wraps time.AfterFunc.
func (Real) Schedule(d time.Duration, fn func()) Task {
	return realTask{timer: time.AfterFunc(d, fn)}
}

type realTask struct {
	timer *time.Timer
}

func (t realTask) Cancel() bool {
	return t.timer.Stop()
}

// Manual is a deterministic scheduler for tests. Tasks run only when Advance
// moves the clock past their deadline.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	owner    *Manual
	due      time.Duration
	seq      int
	fn       func()
	done     bool
	canceled bool
}

func (t *manualTask) Cancel() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.done || t.canceled {
		return false
	}
	t.canceled = true
	return true
}

// Schedule registers fn to run once the clock reaches now+d.
func (m *Manual) Schedule(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	task := &manualTask{owner: m, due: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, task)
	return task
}

// Advance moves the clock forward by d and runs every task that became due,
// in deadline order. Callbacks run without the scheduler lock held, so they
// may schedule further tasks; those run too when already due.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()

	ran := 0
	for {
		task := m.nextDue()
		if task == nil {
			return ran
		}
		task.fn()
		ran++
	}
}

// Flush runs tasks that are already due without moving the clock.
func (m *Manual) Flush() int {
	return m.Advance(0)
}

func (m *Manual) nextDue() *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := m.tasks[:0]
	for _, task := range m.tasks {
		if !task.done && !task.canceled {
			pending = append(pending, task)
		}
	}
	m.tasks = pending

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due != m.tasks[j].due {
			return m.tasks[i].due < m.tasks[j].due
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	if len(m.tasks) == 0 || m.tasks[0].due > m.now {
		return nil
	}
	task := m.tasks[0]
	task.done = true
	return task
}

// Pending reports how many tasks are scheduled and not yet run or canceled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.tasks {
		if !task.done && !task.canceled {
			n++
		}
	}
	return n
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
