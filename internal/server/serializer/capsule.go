package serializer

import (
	"time"

	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/pkg/disclosure"
)

// A CapsuleContext holds what the capsule render depends on besides the capsule itself.
type CapsuleContext struct {
	Engine disclosure.Engine
	Now    time.Time
	// ViewerID is the user the capsule is rendered for.
	ViewerID string
	// Sender returns the real identity of the capsule sender.
	Sender func(*model.Capsule) disclosure.Identity
}

// Capsule serializes the render of a capsule.
// The body is withheld from the recipient until the capsule is unsealed
// and the sender identity only goes through disclosure.Redact.
func Capsule(m *model.Capsule, ctx CapsuleContext) map[string]interface{} {
	record := m.Disclosure()
	view := ctx.Engine.Evaluate(record, ctx.Now)
	sent := m.SenderID == ctx.ViewerID

	r := map[string]interface{}{
		"uuid":           m.ID,
		"created_at":     m.CreatedAt,
		"updated_at":     m.UpdatedAt,
		"title":          m.Title,
		"recipient_uuid": m.RecipientID,
		"unlocks_at":     m.UnlocksAt.UTC(),
		"opened_at":      m.OpenedAt,
		"anonymous":      m.Anonymous,
		"status":         view.Status.String(),
		"countdown":      view.Countdown,
	}

	if sent || !view.Status.Sealed() {
		r["body"] = m.Body
	}

	if m.Anonymous {
		r["reveal_delay_seconds"] = m.RevealDelaySeconds
		r["reveal_at"] = m.RevealAt
		r["sender_revealed_at"] = m.SenderRevealedAt
		r["reveal_countdown"] = view.RevealCountdown
	}

	var sender disclosure.Identity
	if ctx.Sender != nil {
		sender = ctx.Sender(m)
	}
	// The sender always knows who they are.
	r["sender"] = disclosure.Redact(sender, m.Anonymous && !sent, view.Revealed)
	r["sender_revealed"] = sent || view.Revealed

	return r
}

// Capsules serializes the render of capsules.
func Capsules(m []*model.Capsule, ctx CapsuleContext) []map[string]interface{} {
	capsules := make([]map[string]interface{}, len(m))
	for i, c := range m {
		capsules[i] = Capsule(c, ctx)
	}
	return capsules
}
