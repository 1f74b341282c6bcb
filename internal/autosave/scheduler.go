package autosave

import "time"

type (
	// A Timer is a cancellable pending call.
	Timer interface {
		// Stop prevents the Timer from firing.
		// It returns false if the call has already been triggered or stopped.
		Stop() bool
	}

	// A Scheduler arms the debounce and status display timers of a Controller.
	Scheduler interface {
		// AfterFunc waits for the duration to elapse and then calls f in its own goroutine.
		AfterFunc(d time.Duration, f func()) Timer
	}

	realScheduler struct{}
)

// RealScheduler relies on the runtime timers.
var RealScheduler Scheduler = realScheduler{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
