package model

import (
	"time"

	"github.com/mdouchement/timecapsule/pkg/disclosure"
)

// A Capsule is a sealed message that can't be read before its unlock instant.
type Capsule struct {
	Base `msgpack:",inline" storm:"inline"`

	SenderID    string    `msgpack:"sender_id"    storm:"index"`
	RecipientID string    `msgpack:"recipient_id" storm:"index"`
	Title       string    `msgpack:"title"`
	Body        string    `msgpack:"body"`
	UnlocksAt   time.Time `msgpack:"unlocks_at"`
	// OpenedAt is set once by the recipient.
	OpenedAt *time.Time `msgpack:"opened_at,omitempty"`

	Anonymous          bool       `msgpack:"anonymous"`
	RevealDelaySeconds *int       `msgpack:"reveal_delay_seconds,omitempty"`
	RevealAt           *time.Time `msgpack:"reveal_at,omitempty"`
	SenderRevealedAt   *time.Time `msgpack:"sender_revealed_at,omitempty"`
}

// Disclosure returns the fields used to compute the capsule status.
func (c *Capsule) Disclosure() disclosure.Record {
	return disclosure.Record{
		UnlocksAt:          c.UnlocksAt,
		OpenedAt:           c.OpenedAt,
		Anonymous:          c.Anonymous,
		RevealDelaySeconds: c.RevealDelaySeconds,
		RevealAt:           c.RevealAt,
		SenderRevealedAt:   c.SenderRevealedAt,
	}
}

// Open records the opening of the capsule at now and computes its reveal instant.
// It returns false if the capsule was already opened.
func (c *Capsule) Open(now time.Time) bool {
	if c.OpenedAt != nil {
		return false
	}

	c.OpenedAt = &now
	if c.Anonymous && c.RevealDelaySeconds != nil {
		at := disclosure.RevealAtFor(now, *c.RevealDelaySeconds)
		c.RevealAt = &at
	}
	return true
}

// ObserveReveal records the first time the sender is observed as revealed.
// It returns true when the capsule has been modified.
func (c *Capsule) ObserveReveal(now time.Time) bool {
	if !c.Anonymous || c.SenderRevealedAt != nil {
		return false
	}
	if !disclosure.IsRevealed(c.Disclosure(), now) {
		return false
	}

	c.SenderRevealedAt = &now
	return true
}
