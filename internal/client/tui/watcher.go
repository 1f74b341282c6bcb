package tui

import (
	"time"

	"github.com/bep/debounce"
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/mdouchement/timecapsule/pkg/libtc"
)

const (
	watcherHints = "Ctrl-O open | Ctrl-R reload | Ctrl-D dump | Ctrl-Q quit"
	searchDelay  = 300 * time.Millisecond
)

// A Watcher displays a box of capsules with live countdowns and a search box.
type Watcher struct {
	*TUI
	list   *CapsuleList
	detail *text.Widget
	search func(query string)
}

// NewWatcher returns a new Watcher for the given box.
// search is called outside of the event loop once the user stops typing in the search box.
func NewWatcher(box string, search func(query string)) (*Watcher, error) {
	w := &Watcher{
		detail: text.New(""),
		search: search,
	}
	w.list = NewCapsuleList(func(app gowid.IApp, c libtc.Capsule) {
		w.detail.SetText(Describe(c, time.Now()), app)
	})

	debounced := debounce.New(searchDelay)
	field := newField("Search: ", "", func(query string) {
		debounced(func() {
			w.search(query)
		})
	})

	panes := columns.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(w.list), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 3},
		},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(w.detail), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 2},
		},
	})

	view := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.New(field, framed.Options{Title: box}), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderFlow{},
		},
		&gowid.ContainerWidget{IWidget: panes, D: gowid.RenderWithWeight{W: 1}},
	})

	ui, err := newTUI(view, watcherHints)
	if err != nil {
		return nil, err
	}
	w.TUI = ui
	return w, nil
}

// Update replaces the displayed capsules. It can be called from any goroutine.
func (w *Watcher) Update(capsules []libtc.Capsule) {
	w.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		now := time.Now()
		w.list.SetCapsules(capsules, now, app)
		w.showFocused(now, app)
	}))
}

// Tick refreshes the countdowns. It can be called from any goroutine.
func (w *Watcher) Tick(now time.Time) {
	w.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		w.list.Tick(now, app)
		w.showFocused(now, app)
	}))
}

// Focused returns the focused capsule. It must be called from the event loop.
func (w *Watcher) Focused() (libtc.Capsule, bool) {
	return w.list.Focused()
}

func (w *Watcher) showFocused(now time.Time, app gowid.IApp) {
	c, ok := w.list.Focused()
	if !ok {
		w.detail.SetText("", app)
		return
	}
	w.detail.SetText(Describe(c, now), app)
}
