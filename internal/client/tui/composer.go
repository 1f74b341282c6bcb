package tui

import (
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/divider"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/timecapsule/internal/autosave"
)

const composerHints = "Tab next field | Ctrl-S save | Ctrl-Q save & quit"

type (
	// ComposerEvents are called on the event loop when a field of the Composer is edited.
	ComposerEvents struct {
		Title         func(string)
		RecipientHint func(string)
		Body          func(string)
	}

	// A Composer is the draft editing screen.
	Composer struct {
		*TUI
		form *pile.Widget
	}
)

// NewComposer returns a new Composer filled with content.
func NewComposer(content autosave.Content, events ComposerEvents) (*Composer, error) {
	title := newField("Title: ", content.Title, events.Title)
	recipient := newField("To:    ", content.RecipientHint, events.RecipientHint)
	body := NewEditor(content.Body, events.Body)

	form := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: title, D: gowid.RenderFlow{}},
		&gowid.ContainerWidget{IWidget: recipient, D: gowid.RenderFlow{}},
		&gowid.ContainerWidget{IWidget: divider.NewUnicode(), D: gowid.RenderFlow{}},
		&gowid.ContainerWidget{IWidget: body, D: gowid.RenderWithWeight{W: 1}},
	})
	view := styled.New(framed.NewUnicode(form), gowid.MakePaletteRef("mainpane"))

	ui, err := newTUI(view, composerHints)
	if err != nil {
		return nil, err
	}

	w := &Composer{TUI: ui, form: form}
	w.Bind(tcell.KeyTab, w.next)
	if content.Body != "" {
		form.SetFocus(ui.App, 3)
	}
	return w, nil
}

// DisplaySaveStatus mirrors the autosave status in the status bar.
func (w *Composer) DisplaySaveStatus(s autosave.Status, err error) {
	w.SetStatus(SaveStatusText(s, err))
}

func (w *Composer) next(app gowid.IApp) {
	switch w.form.Focus() {
	case 0:
		w.form.SetFocus(app, 1)
	case 1:
		w.form.SetFocus(app, 3)
	default:
		w.form.SetFocus(app, 0)
	}
}

// SaveStatusText returns the status bar message of an autosave status.
func SaveStatusText(s autosave.Status, err error) string {
	switch s {
	case autosave.Saving:
		return "Saving..."
	case autosave.Saved:
		return "Saved"
	case autosave.Error:
		if err != nil {
			return "Not saved: " + err.Error()
		}
		return "Not saved"
	default:
		return ""
	}
}
