package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/list"
	"github.com/gcla/gowid/widgets/selectable"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/timecapsule/pkg/disclosure"
	"github.com/mdouchement/timecapsule/pkg/libtc"
)

// A CapsuleList is a list of capsules with live countdowns.
// It implements gowid.IWidget by delegating to its presentation.
type CapsuleList struct {
	presentation list.IWidget
	abstraction  *capsuleListAbstraction
	onFocus      func(app gowid.IApp, c libtc.Capsule)
}

// NewCapsuleList returns a new CapsuleList.
// onFocus is called with the focused capsule when the user moves in the list.
func NewCapsuleList(onFocus func(app gowid.IApp, c libtc.Capsule)) *CapsuleList {
	abs := newCapsuleListAbstraction()

	return &CapsuleList{
		presentation: list.New(abs),
		abstraction:  abs,
		onFocus:      onFocus,
	}
}

// SetCapsules replaces the displayed capsules. The focus stays on the same capsule when it is still listed.
func (w *CapsuleList) SetCapsules(capsules []libtc.Capsule, now time.Time, app gowid.IApp) {
	rows := make([]*capsuleRow, 0, len(capsules))
	for _, c := range capsules {
		rows = append(rows, newCapsuleRow(c, now))
	}
	w.abstraction.Set(rows)
}

// Tick refreshes the countdowns.
func (w *CapsuleList) Tick(now time.Time, app gowid.IApp) {
	for _, row := range w.abstraction.rows {
		row.label.SetText(row.line(now), app)
	}
}

// Focused returns the focused capsule.
func (w *CapsuleList) Focused() (libtc.Capsule, bool) {
	row, ok := w.abstraction.focused()
	if !ok {
		return libtc.Capsule{}, false
	}
	return row.capsule, true
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *CapsuleList) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *CapsuleList) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *CapsuleList) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	ok := w.presentation.UserInput(ev, size, focus, app)

	if evm, ok := ev.(*tcell.EventMouse); !ok || evm.Buttons() != tcell.ButtonNone {
		// Avoid next action on mouse hover event
		if c, ok := w.Focused(); ok && w.onFocus != nil {
			w.onFocus(app, c)
		}
	}
	return ok
}

// Selectable implements gowid.IWidget
func (w *CapsuleList) Selectable() bool {
	return w.presentation.Selectable()
}

////////////////////
//                //
// Rows           //
//                //
////////////////////

type capsuleRow struct {
	gowid.IWidget
	capsule libtc.Capsule
	label   *text.Widget
}

func newCapsuleRow(c libtc.Capsule, now time.Time) *capsuleRow {
	row := &capsuleRow{capsule: c}
	row.label = text.New(row.line(now))
	row.IWidget = selectable.New(
		styled.NewExt(row.label, gowid.MakePaletteRef("normal"), gowid.MakePaletteRef("focused")),
	)
	return row
}

func (r *capsuleRow) line(now time.Time) string {
	columns := CapsuleColumns(r.capsule, disclosure.Default.Evaluate(r.capsule.Disclosure(), now))
	return fmt.Sprintf("%-14s %-14s %-32s %s", columns[0], columns[1], columns[2], columns[3])
}

// CapsuleColumns returns the status, the countdown, the title and the sender of c.
func CapsuleColumns(c libtc.Capsule, v disclosure.View) []string {
	sender := c.Sender.Name
	if c.Anonymous && !c.SenderRevealed && v.RevealCountdown != "" {
		sender = fmt.Sprintf("%s (%s)", sender, v.RevealCountdown)
	}

	return []string{
		v.Status.String(),
		v.Countdown,
		truncate(c.Title, 32),
		sender,
	}
}

// Describe returns the detailed view of c.
func Describe(c libtc.Capsule, now time.Time) string {
	view := disclosure.Default.Evaluate(c.Disclosure(), now)

	var b strings.Builder
	fmt.Fprintf(&b, "Title:    %s\n", c.Title)
	fmt.Fprintf(&b, "From:     %s\n", c.Sender.Name)
	if view.RevealCountdown != "" {
		fmt.Fprintf(&b, "Reveal:   %s\n", view.RevealCountdown)
	}
	fmt.Fprintf(&b, "Status:   %s\n", view.Status)
	fmt.Fprintf(&b, "Unlocks:  %s (%s)\n", c.UnlocksAt.Local().Format(time.RFC1123), view.Countdown)
	if c.OpenedAt != nil {
		fmt.Fprintf(&b, "Opened:   %s\n", c.OpenedAt.Local().Format(time.RFC1123))
	}

	b.WriteString("\n")
	if c.Body == nil {
		b.WriteString("(sealed)\n")
		return b.String()
	}
	b.WriteString(*c.Body)
	if !strings.HasSuffix(*c.Body, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

////////////////////
//                //
// Abstraction    //
//                //
////////////////////

// A capsuleListAbstraction implements list.IWalker interface.
type capsuleListAbstraction struct {
	rows  []*capsuleRow
	focus list.ListPos
}

func newCapsuleListAbstraction() *capsuleListAbstraction {
	return &capsuleListAbstraction{
		rows:  make([]*capsuleRow, 0),
		focus: 0,
	}
}

func (w *capsuleListAbstraction) Set(rows []*capsuleRow) {
	var id string
	if row, ok := w.focused(); ok {
		id = row.capsule.ID
	}

	w.rows = rows
	w.focus = 0
	for i, row := range rows {
		if row.capsule.ID == id {
			w.focus = list.ListPos(i)
			break
		}
	}
}

func (w *capsuleListAbstraction) focused() (*capsuleRow, bool) {
	i := int(w.focus)
	if i < 0 || i >= len(w.rows) {
		return nil, false
	}
	return w.rows[i], true
}

func (w *capsuleListAbstraction) First() list.IWalkerPosition {
	if len(w.rows) == 0 {
		return nil
	}
	return list.ListPos(0)
}

func (w *capsuleListAbstraction) Last() list.IWalkerPosition {
	if len(w.rows) == 0 {
		return nil
	}
	return list.ListPos(len(w.rows) - 1)
}

func (w *capsuleListAbstraction) Length() int {
	return len(w.rows)
}

func (w *capsuleListAbstraction) At(pos list.IWalkerPosition) gowid.IWidget {
	var res gowid.IWidget
	ipos := int(pos.(list.ListPos))
	if ipos >= 0 && ipos < w.Length() {
		res = w.rows[ipos]
	}
	return res
}

func (w *capsuleListAbstraction) Focus() list.IWalkerPosition {
	return w.focus
}

func (w *capsuleListAbstraction) SetFocus(focus list.IWalkerPosition, app gowid.IApp) {
	w.focus = focus.(list.ListPos)
}

func (w *capsuleListAbstraction) Next(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if int(pos) == w.Length()-1 {
		return list.ListPos(-1)
	}
	return pos + 1
}

func (w *capsuleListAbstraction) Previous(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if pos-1 == -1 {
		return list.ListPos(-1)
	}
	return pos - 1
}
