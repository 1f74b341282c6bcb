package libtc

import (
	"time"

	"github.com/mdouchement/timecapsule/pkg/disclosure"
)

type (
	// A User is a timecapsule account.
	User struct {
		ID              string     `json:"uuid"`
		Email           string     `json:"email"`
		Name            string     `json:"name"`
		Avatar          string     `json:"avatar"`
		LinkedAccountID string     `json:"linked_account_id,omitempty"`
		CreatedAt       *time.Time `json:"created_at,omitempty"`
	}

	// A Draft is an in-progress capsule.
	Draft struct {
		ID            string     `json:"uuid,omitempty"`
		Title         string     `json:"title"`
		Body          string     `json:"body"`
		RecipientHint string     `json:"recipient_hint"`
		CreatedAt     *time.Time `json:"created_at,omitempty"`
		UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	}

	// SealParams are the parameters used to seal a capsule.
	// When DraftID is set, the content of the draft is used and the draft is deleted.
	SealParams struct {
		DraftID            string    `json:"draft_id,omitempty"`
		Title              string    `json:"title,omitempty"`
		Body               string    `json:"body,omitempty"`
		Recipient          string    `json:"recipient,omitempty"`
		UnlocksAt          time.Time `json:"unlocks_at"`
		Anonymous          bool      `json:"anonymous"`
		RevealDelaySeconds *int      `json:"reveal_delay_seconds,omitempty"`
	}

	// A Capsule is a sealed message as rendered for the current user.
	Capsule struct {
		ID          string     `json:"uuid"`
		CreatedAt   *time.Time `json:"created_at"`
		Title       string     `json:"title"`
		Body        *string    `json:"body"` // nil while withheld
		RecipientID string     `json:"recipient_uuid"`
		UnlocksAt   time.Time  `json:"unlocks_at"`
		OpenedAt    *time.Time `json:"opened_at"`

		Anonymous          bool       `json:"anonymous"`
		RevealDelaySeconds *int       `json:"reveal_delay_seconds"`
		RevealAt           *time.Time `json:"reveal_at"`
		SenderRevealedAt   *time.Time `json:"sender_revealed_at"`

		Sender         disclosure.Identity `json:"sender"`
		SenderRevealed bool                `json:"sender_revealed"`

		// Computed by the server when the capsule was fetched.
		Status          string `json:"status"`
		Countdown       string `json:"countdown"`
		RevealCountdown string `json:"reveal_countdown"`
	}
)

// Disclosure returns the fields used to compute the capsule status locally.
func (c Capsule) Disclosure() disclosure.Record {
	return disclosure.Record{
		UnlocksAt:          c.UnlocksAt,
		OpenedAt:           c.OpenedAt,
		Anonymous:          c.Anonymous,
		RevealDelaySeconds: c.RevealDelaySeconds,
		RevealAt:           c.RevealAt,
		SenderRevealedAt:   c.SenderRevealedAt,
	}
}
