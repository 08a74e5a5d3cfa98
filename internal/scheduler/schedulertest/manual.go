// Package schedulertest provides a scheduler driven by hand from tests.
package schedulertest

import (
	"sort"
	"sync"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/scheduler"
)

// Manual queues callbacks until the test runs them. Callbacks run on the
// caller's goroutine, in due-time order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*task
}

type task struct {
	m       *Manual
	due     time.Duration
	seq     int
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *task) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) scheduler.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &task{m: m, due: m.now + d, seq: m.seq, delay: d, f: f}
	m.tasks = append(m.tasks, t)
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due == m.tasks[j].due {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].due < m.tasks[j].due
	})
	return t
}

// Pending reports how many callbacks are waiting to run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// NextDelay returns the delay the earliest pending callback was scheduled with.
func (m *Manual) NextDelay() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.tasks) == 0 {
		return 0, false
	}
	return m.tasks[0].delay, true
}

// Elapsed is the virtual time consumed by the callbacks run so far.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// RunNext runs the earliest pending callback and reports whether one ran.
func (m *Manual) RunNext() bool {
	m.mu.Lock()
	if len(m.tasks) == 0 {
		m.mu.Unlock()
		return false
	}
	t := m.tasks[0]
	m.tasks = m.tasks[1:]
	t.fired = true
	m.now = t.due
	m.mu.Unlock()

	t.f()
	return true
}

// RunAll runs callbacks until none are pending or limit callbacks have run.
// It returns how many ran.
func (m *Manual) RunAll(limit int) int {
	n := 0
	for n < limit && m.RunNext() {
		n++
	}
	return n
}

func (m *Manual) remove(t *task) {
	for i, candidate := range m.tasks {
		if candidate == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
