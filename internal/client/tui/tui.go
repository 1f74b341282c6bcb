package tui

import (
	"time"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// A TUI is a text-based interface made of a main pane and a status bar.
type TUI struct {
	App    *gowid.App
	status  *text.Widget
	message string // displayed in status, only accessed from the event loop
	hints   *text.Widget
	keys   map[tcell.Key]func(app gowid.IApp)
}

func newTUI(view gowid.IWidget, hints string) (*TUI, error) {
	ui := &TUI{
		status: text.New(""),
		hints:  text.New(hints, text.Options{Align: gowid.HAlignRight{}}),
		keys: map[tcell.Key]func(app gowid.IApp){
			tcell.KeyCtrlQ: func(app gowid.IApp) { app.Quit() },
		},
	}

	app, err := gowid.NewApp(layout(ui, view))
	if err != nil {
		return ui, errors.Wrap(err, "could not create application widgets")
	}

	ui.App = app
	return ui, nil
}

// Run starts the application and thus the event loop.
func (ui *TUI) Run() {
	ui.App.MainLoop(gowid.UnhandledInputFunc(ui.unhandled))
}

// Cleanup cleans the application properly (in case of panic).
func (ui *TUI) Cleanup() {
	ui.App.GetScreen().Fini() // Cleanup tcell screen's objects
}

// Bind registers f as the handler of key. f runs on the event loop.
func (ui *TUI) Bind(key tcell.Key, f func(app gowid.IApp)) {
	ui.keys[key] = f
}

// Quit stops the event loop. It can be called from any goroutine.
func (ui *TUI) Quit() {
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		app.Quit()
	}))
}

// SetStatus displays a message in the status bar until the next one.
func (ui *TUI) SetStatus(message string) {
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		ui.message = message
		ui.status.SetText(message, app)
	}))
}

// DisplayStatus displays a message in the status bar (aka notifications).
func (ui *TUI) DisplayStatus(message string) {
	ui.SetStatus(message)
	go func() {
		timer := time.NewTimer(1200 * time.Millisecond)
		<-timer.C
		ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
			if ui.message == message {
				ui.message = ""
				ui.status.SetText("", app)
			}
		}))
	}()
}

////////////////////
//                //
// Layout         //
//                //
////////////////////

func layout(ui *TUI, view gowid.IWidget) gowid.AppArgs {
	bar := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: ui.status, D: gowid.RenderFlow{}},
		&gowid.ContainerWidget{IWidget: styled.New(ui.hints, gowid.MakePaletteRef("hints")), D: gowid.RenderFlow{}},
	})

	main := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: view, D: gowid.RenderWithWeight{W: 1}},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(bar), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderFlow{},
		},
	})

	return gowid.AppArgs{
		View: main,
		Palette: &gowid.Palette{
			"mainpane": gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"hints":    gowid.MakePaletteEntry(gowid.ColorDarkGray, gowid.ColorBlack),
			// List style
			"normal":  gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"focused": gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorRed),
		},
		Log: Logger(),
	}
}

////////////////////
//                //
// Events         //
//                //
////////////////////

func (ui *TUI) unhandled(app gowid.IApp, ev any) bool {
	evk, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	f, ok := ui.keys[evk.Key()]
	if !ok {
		return false
	}

	f(app)
	return true
}
