package disclosure

import (
	"time"
)

// DefaultSoonThresholdDays is the number of days before the unlock instant
// during which a capsule is reported as unlocking soon.
const DefaultSoonThresholdDays = 7

const day = 24 * time.Hour

// Default is the engine configured with the default thresholds.
var Default = Engine{SoonThresholdDays: DefaultSoonThresholdDays}

type (
	// A Status is the lifecycle state of a capsule.
	Status int

	// A Record is the snapshot of a capsule fields needed to compute its disclosure state.
	Record struct {
		UnlocksAt time.Time
		// OpenedAt is set once by the recipient and never cleared.
		OpenedAt           *time.Time
		Anonymous          bool
		RevealDelaySeconds *int
		// RevealAt is nil on records written before it was stored.
		RevealAt         *time.Time
		SenderRevealedAt *time.Time
	}

	// An Engine computes statuses and countdowns.
	// The zero value never reports UnlockingSoon.
	Engine struct {
		SoonThresholdDays int
	}

	// A View gathers everything a presentation layer needs for a capsule at a given instant.
	View struct {
		Status          Status
		Countdown       string
		Revealed        bool
		RevealCountdown string
	}
)

// Capsule statuses.
const (
	Locked Status = iota
	UnlockingSoon
	Ready
	Opened
)

var statuses = map[Status]string{
	Locked:        "locked",
	UnlockingSoon: "unlocking_soon",
	Ready:         "ready",
	Opened:        "opened",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if v, ok := statuses[s]; ok {
		return v
	}
	return "unknown"
}

// Sealed returns true while the unlock instant is still ahead.
func (s Status) Sealed() bool {
	return s == Locked || s == UnlockingSoon
}

// Status returns the lifecycle status of r at now.
func (e Engine) Status(r Record, now time.Time) Status {
	switch {
	case r.OpenedAt != nil:
		// A recorded open is never second-guessed, whatever the clock says.
		return Opened
	case !r.UnlocksAt.After(now):
		return Ready
	case r.UnlocksAt.Sub(now) <= e.threshold():
		return UnlockingSoon
	default:
		return Locked
	}
}

// Evaluate returns the full View of r at now.
func (e Engine) Evaluate(r Record, now time.Time) View {
	return View{
		Status:          e.Status(r, now),
		Countdown:       e.CountdownText(r, now),
		Revealed:        IsRevealed(r, now),
		RevealCountdown: RevealCountdownText(r, now),
	}
}

func (e Engine) threshold() time.Duration {
	if e.SoonThresholdDays <= 0 {
		return 0
	}
	return time.Duration(e.SoonThresholdDays) * day
}
