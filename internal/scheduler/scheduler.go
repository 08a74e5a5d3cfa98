// Package scheduler runs deferred callbacks that can be cancelled.
package scheduler

import "time"

// Task is a scheduled callback.
type Task interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// TimerScheduler schedules callbacks on runtime timers. Each callback runs
// on its own goroutine.
type TimerScheduler struct{}

func New() TimerScheduler {
	return TimerScheduler{}
}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}
