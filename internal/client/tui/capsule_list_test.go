package tui

import (
	"testing"
	"time"

	"github.com/gcla/gowid/widgets/list"
	"github.com/mdouchement/timecapsule/pkg/disclosure"
	"github.com/mdouchement/timecapsule/pkg/libtc"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestCapsuleColumns(t *testing.T) {
	delay := 3600
	c := libtc.Capsule{
		Title:              "For your 30th birthday",
		UnlocksAt:          now.Add(50 * time.Hour),
		Anonymous:          true,
		RevealDelaySeconds: &delay,
		Sender:             disclosure.Placeholder,
	}

	columns := CapsuleColumns(c, disclosure.Default.Evaluate(c.Disclosure(), now))
	assert.Equal(t, []string{"unlocking_soon", "2d 2h", "For your 30th birthday", "Anonymous (Reveals after opening)"}, columns)

	opened := now.Add(-10 * time.Minute)
	c.UnlocksAt = opened
	c.OpenedAt = &opened
	columns = CapsuleColumns(c, disclosure.Default.Evaluate(c.Disclosure(), now))
	assert.Equal(t, []string{"opened", disclosure.ReadyText, "For your 30th birthday", "Anonymous (Reveals in 50m)"}, columns)

	c.Sender = disclosure.Identity{ID: "1", Name: "Bob"}
	c.SenderRevealed = true
	columns = CapsuleColumns(c, disclosure.Default.Evaluate(c.Disclosure(), now))
	assert.Equal(t, "Bob", columns[3])
}

func TestCapsuleColumns_TruncatesTitle(t *testing.T) {
	c := libtc.Capsule{
		Title:     "A very long title that does not fit in the list",
		UnlocksAt: now.Add(-time.Second),
		Sender:    disclosure.Identity{Name: "Alice"},
	}

	columns := CapsuleColumns(c, disclosure.Default.Evaluate(c.Disclosure(), now))
	assert.Equal(t, "ready", columns[0])
	assert.Equal(t, "A very long title that does not…", columns[2])
	assert.Equal(t, 32, len([]rune(columns[2])))
}

func TestDescribe(t *testing.T) {
	c := libtc.Capsule{
		Title:     "Hello",
		UnlocksAt: now.Add(30 * 24 * time.Hour),
		Sender:    disclosure.Identity{Name: "Alice"},
	}
	s := Describe(c, now)
	assert.Contains(t, s, "From:     Alice\n")
	assert.Contains(t, s, "Status:   locked\n")
	assert.Contains(t, s, "(30d 0h)")
	assert.Contains(t, s, "(sealed)\n")
	assert.NotContains(t, s, "Reveal:")

	body := "See you in a month"
	c.Body = &body
	s = Describe(c, now)
	assert.NotContains(t, s, "(sealed)")
	assert.Contains(t, s, "\nSee you in a month\n")
}

func TestCapsuleListAbstraction_Set(t *testing.T) {
	row := func(id string) *capsuleRow {
		return &capsuleRow{capsule: libtc.Capsule{ID: id}}
	}

	abs := newCapsuleListAbstraction()
	assert.Nil(t, abs.First())
	_, ok := abs.focused()
	assert.False(t, ok)

	abs.Set([]*capsuleRow{row("a"), row("b"), row("c")})
	abs.SetFocus(list.ListPos(1), nil)

	// Focus follows the capsule.
	abs.Set([]*capsuleRow{row("c"), row("a"), row("b")})
	assert.Equal(t, list.ListPos(2), abs.Focus())

	// Focus goes back to the top when the capsule disappeared.
	abs.Set([]*capsuleRow{row("c"), row("a")})
	assert.Equal(t, list.ListPos(0), abs.Focus())
	focused, ok := abs.focused()
	assert.True(t, ok)
	assert.Equal(t, "c", focused.capsule.ID)

	assert.Equal(t, list.ListPos(1), abs.Next(list.ListPos(0)))
	assert.Equal(t, list.ListPos(-1), abs.Next(list.ListPos(1)))
	assert.Equal(t, list.ListPos(-1), abs.Previous(list.ListPos(0)))
	assert.Equal(t, list.ListPos(1), abs.Last())
}
