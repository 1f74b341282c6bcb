package disclosure

import (
	"time"

	"github.com/pkg/errors"
)

// MaxRevealDelaySeconds is the longest allowed delay (72 hours) between opening and revealing the sender.
const MaxRevealDelaySeconds = 259200

// ErrRevealDelayOutOfRange is returned when a reveal delay is not within [0, MaxRevealDelaySeconds].
var ErrRevealDelayOutOfRange = errors.New("reveal delay out of range")

// ValidateRevealDelay checks the given delay in seconds.
func ValidateRevealDelay(seconds int) error {
	if seconds < 0 || seconds > MaxRevealDelaySeconds {
		return errors.Wrapf(ErrRevealDelayOutOfRange, "%d seconds", seconds)
	}
	return nil
}

// RevealAtFor returns the instant the sender is shown for a capsule opened at openedAt.
// Writers must store this value so it matches what EffectiveRevealAt derives for legacy records.
func RevealAtFor(openedAt time.Time, delaySeconds int) time.Time {
	return openedAt.Add(time.Duration(delaySeconds) * time.Second)
}

// EffectiveRevealAt returns the instant the sender of r is shown.
// The stored RevealAt wins; records written before it existed derive it from OpenedAt and the delay.
// It returns false when no instant can be derived yet (not opened) or when r is not anonymous.
func EffectiveRevealAt(r Record) (time.Time, bool) {
	if !r.Anonymous {
		return time.Time{}, false
	}

	switch {
	case r.RevealAt != nil:
		return *r.RevealAt, true
	case r.OpenedAt != nil && r.RevealDelaySeconds != nil:
		return RevealAtFor(*r.OpenedAt, *r.RevealDelaySeconds), true
	default:
		return time.Time{}, false
	}
}

// IsRevealed returns true when the sender of r can be shown at now.
// Capsules that are not anonymous are always revealed.
func IsRevealed(r Record, now time.Time) bool {
	if !r.Anonymous || r.SenderRevealedAt != nil {
		return true
	}

	at, ok := EffectiveRevealAt(r)
	if !ok {
		return false
	}
	return !at.After(now)
}
