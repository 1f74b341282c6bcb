package disclosure

import (
	"fmt"
	"time"
)

const (
	// ReadyText is displayed instead of a countdown once a capsule can be opened.
	ReadyText = "Ready to open"
	// RevealingNowText is displayed when the sender is about to be shown.
	RevealingNowText = "Revealing now"
	// RevealedText is displayed once the reveal has been recorded.
	RevealedText = "Revealed"
	// AwaitingOpenText is displayed while the reveal delay has not started yet.
	AwaitingOpenText = "Reveals after opening"
)

// Under a minute the countdown would show "0m", so it is rendered as already due.
const smoothing = time.Minute

// CountdownText returns the human-readable time left before r can be opened.
func (e Engine) CountdownText(r Record, now time.Time) string {
	if !e.Status(r, now).Sealed() {
		return ReadyText
	}

	remaining := r.UnlocksAt.Sub(now)
	if remaining < smoothing {
		return ReadyText
	}
	return Breakdown(remaining)
}

// RevealCountdownText returns the human-readable time left before the sender of r is shown.
// It returns an empty string for capsules that are not anonymous.
func RevealCountdownText(r Record, now time.Time) string {
	if !r.Anonymous {
		return ""
	}
	if r.SenderRevealedAt != nil {
		return RevealedText
	}

	at, ok := EffectiveRevealAt(r)
	if !ok {
		return AwaitingOpenText
	}

	remaining := at.Sub(now)
	if remaining < smoothing {
		return RevealingNowText
	}
	return "Reveals in " + Breakdown(remaining)
}

// Breakdown formats d using its two largest units ("3d 4h", "5h 12m") or minutes only ("42m").
// Remainders are truncated.
func Breakdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	switch {
	case d >= day:
		return fmt.Sprintf("%dd %dh", d/day, (d%day)/time.Hour)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", d/time.Hour, (d%time.Hour)/time.Minute)
	default:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
}
