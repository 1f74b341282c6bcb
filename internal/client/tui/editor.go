package tui

import (
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/gwutil"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/edit"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gcla/gowid/widgets/vscroll"
	"github.com/gdamore/tcell/v2"
)

// An Editor is a multiline text area with a vertical scrollbar.
type Editor struct {
	*columns.Widget
	e        *edit.Widget
	sb       *vscroll.Widget
	goUpDown int // positive means down
	pgUpDown int // positive means down
}

// NewEditor returns a new Editor filled with content.
// onChange is called on the event loop with the whole text after each modification.
func NewEditor(content string, onChange func(string)) *Editor {
	e := newField("", content, onChange)
	sb := vscroll.NewExt(vscroll.VerticalScrollbarUnicodeRunes)

	w := &Editor{
		Widget: columns.New([]gowid.IContainerWidget{
			&gowid.ContainerWidget{IWidget: e, D: gowid.RenderWithWeight{W: 1}},
			&gowid.ContainerWidget{IWidget: sb, D: gowid.RenderWithUnits{U: 1}},
		}),
		e:  e,
		sb: sb,
	}
	sb.OnClickAbove(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { w.pgUpDown-- }})
	sb.OnClickBelow(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { w.pgUpDown++ }})
	sb.OnClickUpArrow(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { w.goUpDown-- }})
	sb.OnClickDownArrow(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { w.goUpDown++ }})
	return w
}

// Text returns the edited text.
func (w *Editor) Text() string {
	return w.e.Text()
}

// newField returns a single edit widget reporting its changes to onChange.
func newField(caption, content string, onChange func(string)) *edit.Widget {
	e := edit.New(edit.Options{Caption: caption, Text: content})
	if onChange != nil {
		e.OnTextSet(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(app gowid.IApp, iw gowid.IWidget) {
			onChange(e.Text())
		}})
	}
	return e
}

// UserInput implements gowid.IWidget
func (w *Editor) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	box, _ := size.(gowid.IRenderBox)
	w.sb.Top, w.sb.Middle, w.sb.Bottom = w.e.CalculateTopMiddleBottom(gowid.MakeRenderBox(box.BoxColumns()-1, box.BoxRows()))

	// Remap events
	if k, ok := ev.(*tcell.EventKey); ok {
		switch k.Key() {
		case tcell.KeyHome:
			ev = tcell.NewEventKey(tcell.KeyCtrlA, ' ', tcell.ModNone) // Start of line defined by edit widget
		case tcell.KeyEnd:
			ev = tcell.NewEventKey(tcell.KeyCtrlE, ' ', tcell.ModNone) // End of line defined by edit widget
		}
	}

	handled := w.Widget.UserInput(ev, size, focus, app)
	if handled {
		w.Widget.SetFocus(app, 0)
	}

	return handled
}

// Render implements gowid.IWidget
func (w *Editor) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	box, _ := size.(gowid.IRenderBox)
	ecols := box.BoxColumns() - 1
	ebox := gowid.MakeRenderBox(ecols, box.BoxRows())
	if w.goUpDown != 0 || w.pgUpDown != 0 {
		w.scroll(box, ebox, app)
	}
	w.goUpDown = 0
	w.pgUpDown = 0
	w.sb.Top, w.sb.Middle, w.sb.Bottom = w.e.CalculateTopMiddleBottom(ebox)

	return w.Widget.Render(size, focus, app)
}

// scroll moves the view by the clicks made on the scrollbar and keeps the cursor visible.
func (w *Editor) scroll(box gowid.IRenderBox, ebox gowid.RenderBox, app gowid.IApp) {
	w.e.SetLinesFromTop(gwutil.Max(0, w.e.LinesFromTop()+w.goUpDown+(w.pgUpDown*box.BoxRows())), app)

	txt := w.e.MakeText()
	layout := text.MakeTextLayout(txt.Content(), ebox.BoxColumns(), txt.Wrap(), gowid.HAlignLeft{})
	_, y := text.GetCoordsFromCursorPos(w.e.CursorPos(), ebox.BoxColumns(), layout, w.e)

	if y < w.e.LinesFromTop() {
		for i := y; i < w.e.LinesFromTop(); i++ {
			w.e.DownLines(ebox, false, app)
		}
	} else if y >= w.e.LinesFromTop()+box.BoxRows() {
		for i := w.e.LinesFromTop() + box.BoxRows(); i <= y; i++ {
			w.e.UpLines(ebox, false, app)
		}
	}
}
