package autosave_test

import (
	"sort"
	"sync"
	"time"

	"github.com/mdouchement/timecapsule/internal/autosave"
)

// manualScheduler fires timers only when the test advances its clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) autosave.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward and synchronously runs the timers that became due.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d

	var due, rest []*manualTimer
	for _, t := range s.timers {
		if t.stopped {
			continue
		}
		if t.at <= s.now {
			due = append(due, t)
			continue
		}
		rest = append(rest, t)
	}
	s.timers = rest
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})

	for _, t := range due {
		s.mu.Lock()
		stopped := t.stopped
		t.stopped = true
		s.mu.Unlock()

		if !stopped {
			t.f()
		}
	}
}

// Pending returns the number of armed timers.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
