package reconcile

import "time"

// Timer is a cancellable handle for a scheduled callback. *time.Timer
// satisfies it.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d on its own goroutine.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
