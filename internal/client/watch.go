package client

import (
	"context"
	"sync"
	"time"

	"github.com/gcla/gowid"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/timecapsule/internal/client/tui"
	"github.com/mdouchement/timecapsule/pkg/disclosure"
	"github.com/mdouchement/timecapsule/pkg/libtc"
)

// Watch displays a box of capsules with live countdowns.
func Watch(box string) error {
	defer logPanic()

	client, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := tui.Logger()
	state := newWatchState()

	var ui *tui.Watcher
	load := func(query string) {
		capsules, err := client.ListCapsules(ctx, box, query)
		if err != nil {
			logger.WithError(err).Error("could not list capsules")
			ui.DisplayStatus(err.Error())
			return
		}
		ui.Update(state.set(query, capsules))
	}
	refresh := func(id string) {
		capsule, err := client.GetCapsule(ctx, id)
		if err != nil {
			state.refreshed(id, false, time.Now())
			logger.WithError(err).WithField("capsule_id", id).Error("could not refresh capsule")
			return
		}
		ui.Update(state.replace(capsule))
		state.refreshed(id, capsule.SenderRevealed, time.Now())
	}
	open := func(id string) {
		capsule, err := client.OpenCapsule(ctx, id)
		if err != nil {
			ui.DisplayStatus(err.Error())
			return
		}
		ui.Update(state.replace(capsule))
		ui.DisplayStatus("Opened")
	}

	ui, err = tui.NewWatcher(box, load)
	if err != nil {
		return err
	}
	defer ui.Cleanup()

	ui.Bind(tcell.KeyCtrlR, func(gowid.IApp) {
		go load(state.lastQuery())
	})
	ui.Bind(tcell.KeyCtrlO, func(gowid.IApp) {
		if c, ok := ui.Focused(); ok {
			go open(c.ID)
		}
	})
	ui.Bind(tcell.KeyCtrlD, func(gowid.IApp) {
		if c, ok := ui.Focused(); ok {
			tui.Dump(c)
			go ui.DisplayStatus("Capsule dumped in " + tui.LogFilename)
		}
	})

	go load("")
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				ui.Tick(now)
				for _, id := range state.due(now) {
					go refresh(id)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	ui.Run()
	cancel()

	return persist(client, cfg)
}

// A watchState holds the capsules displayed by the watcher.
// Delays between two fetches of a capsule the server does not reveal yet.
const (
	refreshBackoff    = 2 * time.Second
	maxRefreshBackoff = time.Minute
)

type (
	watchState struct {
		mu         sync.Mutex
		query      string
		capsules   []libtc.Capsule
		refreshing map[string]*refreshing
	}

	refreshing struct {
		inflight bool
		attempts int
		next     time.Time
	}
)

func newWatchState() *watchState {
	return &watchState{
		refreshing: map[string]*refreshing{},
	}
}

func (s *watchState) set(query string, capsules []libtc.Capsule) []libtc.Capsule {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.capsules = capsules
	return s.snapshot()
}

func (s *watchState) replace(c libtc.Capsule) []libtc.Capsule {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.capsules {
		if s.capsules[i].ID == c.ID {
			s.capsules[i] = c
			break
		}
	}
	return s.snapshot()
}

func (s *watchState) lastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// due returns the capsules whose sender can be shown but was hidden when they were fetched.
// Fetching them again records the reveal and returns the sender identity.
// A capsule is fetched once at a time and backs off while the server keeps it hidden.
func (s *watchState) due(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, c := range s.capsules {
		if !c.Anonymous || c.SenderRevealed {
			continue
		}

		r := s.refreshing[c.ID]
		if r != nil && (r.inflight || now.Before(r.next)) {
			continue
		}

		if disclosure.IsRevealed(c.Disclosure(), now) {
			if r == nil {
				r = new(refreshing)
				s.refreshing[c.ID] = r
			}
			r.inflight = true
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// refreshed records the outcome of a fetch started by due.
func (s *watchState) refreshed(id string, revealed bool, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if revealed {
		delete(s.refreshing, id)
		return
	}

	r, ok := s.refreshing[id]
	if !ok {
		return
	}
	r.inflight = false
	r.attempts++

	delay := maxRefreshBackoff
	if r.attempts < 6 {
		delay = min(refreshBackoff<<(r.attempts-1), maxRefreshBackoff)
	}
	r.next = now.Add(delay)
}

func (s *watchState) snapshot() []libtc.Capsule {
	return append([]libtc.Capsule(nil), s.capsules...)
}
