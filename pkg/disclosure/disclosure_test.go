package disclosure_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mdouchement/timecapsule/pkg/disclosure"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time {
	return &t
}

func seconds(n int) *int {
	return &n
}

func TestStatus(t *testing.T) {
	engine := disclosure.Default

	assert.Equal(t, disclosure.Ready, engine.Status(disclosure.Record{UnlocksAt: now.Add(-time.Second)}, now))
	assert.Equal(t, disclosure.Ready, engine.Status(disclosure.Record{UnlocksAt: now}, now), "boundary is inclusive")
	assert.Equal(t, disclosure.UnlockingSoon, engine.Status(disclosure.Record{UnlocksAt: now.Add(time.Second)}, now))
	assert.Equal(t, disclosure.UnlockingSoon, engine.Status(disclosure.Record{UnlocksAt: now.Add(7 * 24 * time.Hour)}, now))
	assert.Equal(t, disclosure.Locked, engine.Status(disclosure.Record{UnlocksAt: now.Add(7*24*time.Hour + time.Second)}, now))

	zero := disclosure.Engine{}
	assert.Equal(t, disclosure.Locked, zero.Status(disclosure.Record{UnlocksAt: now.Add(time.Second)}, now))
	assert.Equal(t, disclosure.Ready, zero.Status(disclosure.Record{UnlocksAt: now}, now))
}

func TestStatus_OpenedAlwaysWins(t *testing.T) {
	r := disclosure.Record{
		UnlocksAt: now.Add(30 * 24 * time.Hour),
		OpenedAt:  at(now.Add(-time.Hour)),
	}

	for _, d := range []time.Duration{-365 * 24 * time.Hour, -time.Second, 0, time.Second, 60 * 24 * time.Hour} {
		assert.Equal(t, disclosure.Opened, disclosure.Default.Status(r, now.Add(d)), d.String())
	}
	assert.Equal(t, disclosure.ReadyText, disclosure.Default.CountdownText(r, now))
}

func TestStatus_NeverRevertsToLocked(t *testing.T) {
	r := disclosure.Record{UnlocksAt: now.Add(10 * 24 * time.Hour)}

	previous := disclosure.Locked
	for clock := now; clock.Before(r.UnlocksAt.Add(time.Hour)); clock = clock.Add(17 * time.Minute) {
		status := disclosure.Default.Status(r, clock)
		assert.GreaterOrEqual(t, int(status), int(previous), clock.String())
		previous = status
	}
	assert.Equal(t, disclosure.Ready, previous)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "locked", disclosure.Locked.String())
	assert.Equal(t, "unlocking_soon", disclosure.UnlockingSoon.String())
	assert.Equal(t, "ready", disclosure.Ready.String())
	assert.Equal(t, "opened", disclosure.Opened.String())
	assert.Equal(t, "unknown", disclosure.Status(42).String())

	assert.True(t, disclosure.Locked.Sealed())
	assert.True(t, disclosure.UnlockingSoon.Sealed())
	assert.False(t, disclosure.Ready.Sealed())
	assert.False(t, disclosure.Opened.Sealed())
}

func TestCountdownText(t *testing.T) {
	r := disclosure.Record{UnlocksAt: now.Add(-time.Second)}
	assert.Equal(t, disclosure.Ready, disclosure.Default.Status(r, now))
	assert.Equal(t, disclosure.ReadyText, disclosure.Default.CountdownText(r, now))

	// Sub-minute smoothing does not change the status.
	r = disclosure.Record{UnlocksAt: now.Add(45 * time.Second)}
	assert.True(t, disclosure.Default.Status(r, now).Sealed())
	assert.Equal(t, disclosure.Locked, disclosure.Engine{}.Status(r, now))
	assert.Equal(t, disclosure.ReadyText, disclosure.Default.CountdownText(r, now))
	assert.Equal(t, disclosure.ReadyText, disclosure.Engine{}.CountdownText(r, now))

	r = disclosure.Record{UnlocksAt: now.Add(3*24*time.Hour + 4*time.Hour + 59*time.Minute)}
	assert.Equal(t, "3d 4h", disclosure.Default.CountdownText(r, now))
}

func TestCountdownText_UnlockingSoonShowsTimeLeft(t *testing.T) {
	r := disclosure.Record{UnlocksAt: now.Add(45 * time.Second)}
	assert.Equal(t, disclosure.UnlockingSoon, disclosure.Default.Status(r, now))

	r = disclosure.Record{UnlocksAt: now.Add(5*time.Hour + 12*time.Minute)}
	assert.Equal(t, disclosure.UnlockingSoon, disclosure.Default.Status(r, now))
	assert.Equal(t, "5h 12m", disclosure.Default.CountdownText(r, now))
	assert.Equal(t, disclosure.Locked, disclosure.Engine{}.Status(r, now))
	assert.Equal(t, "5h 12m", disclosure.Engine{}.CountdownText(r, now))
}

func TestCountdownText_Golden(t *testing.T) {
	offsets := []time.Duration{
		-time.Second,
		0,
		45 * time.Second,
		59 * time.Second,
		time.Minute,
		90 * time.Second,
		59*time.Minute + 59*time.Second,
		time.Hour,
		90 * time.Minute,
		23*time.Hour + 59*time.Minute,
		24 * time.Hour,
		25*time.Hour + 30*time.Minute,
		7 * 24 * time.Hour,
		7*24*time.Hour + time.Second,
		30*24*time.Hour + 5*time.Hour,
	}

	var b strings.Builder
	for _, offset := range offsets {
		r := disclosure.Record{UnlocksAt: now.Add(offset)}
		fmt.Fprintf(&b, "%s | %s | %s\n", offset, disclosure.Default.Status(r, now), disclosure.Default.CountdownText(r, now))
	}

	g := goldie.New(t)
	g.Assert(t, "countdown", []byte(b.String()))
}

func TestBreakdown(t *testing.T) {
	assert.Equal(t, "0m", disclosure.Breakdown(-time.Hour))
	assert.Equal(t, "0m", disclosure.Breakdown(59*time.Second))
	assert.Equal(t, "42m", disclosure.Breakdown(42*time.Minute+59*time.Second))
	assert.Equal(t, "5h 12m", disclosure.Breakdown(5*time.Hour+12*time.Minute))
	assert.Equal(t, "2d 0h", disclosure.Breakdown(48*time.Hour+59*time.Minute))
}

func TestEvaluate(t *testing.T) {
	r := disclosure.Record{
		UnlocksAt:          now.Add(-2 * time.Hour),
		OpenedAt:           at(now.Add(-time.Hour)),
		Anonymous:          true,
		RevealDelaySeconds: seconds(7200),
	}

	view := disclosure.Default.Evaluate(r, now)
	assert.Equal(t, disclosure.Opened, view.Status)
	assert.Equal(t, disclosure.ReadyText, view.Countdown)
	assert.False(t, view.Revealed)
	assert.Equal(t, "Reveals in 1h 0m", view.RevealCountdown)
}
