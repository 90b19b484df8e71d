package debugger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is an interactive text front end over a Debugger: it steps the
// loaded program one Translate call at a time and shows the program
// listing, live SSA bindings, and the assertions the last step produced.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	ProgramView    *tview.TextView
	RegisterView   *tview.TextView
	AssertionsView *tview.TextView
	OutputView     *tview.TextView
}

// NewTUI builds a TUI over d, laid out and key-bound but not yet
// running; call Run to start the event loop.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.RefreshAll()
	return t
}

func (t *TUI) initializeViews() {
	t.ProgramView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.ProgramView.SetBorder(true).SetTitle(" Program ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.RegisterView.SetBorder(true).SetTitle(" SSA Bindings ")

	t.AssertionsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.AssertionsView.SetBorder(true).SetTitle(" Last Step's Assertions ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output (F11 step, F5 run, Ctrl-R reset, Ctrl-C quit) ")
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.ProgramView, 0, 2, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(t.RegisterView, 0, 1, false).
			AddItem(t.AssertionsView, 0, 2, false), 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.OutputView, 8, 0, false)

	t.App.SetInputCapture(t.handleKey)
	t.App.SetRoot(layout, true)
}

func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyF11:
		t.doStep()
		return nil
	case event.Key() == tcell.KeyF5:
		t.doRun()
		return nil
	case event.Key() == tcell.KeyCtrlR:
		t.doReset()
		return nil
	case event.Key() == tcell.KeyCtrlC:
		t.App.Stop()
		return nil
	}
	return event
}

func (t *TUI) doStep() {
	if _, ok := t.Debugger.Step(); !ok {
		fmt.Fprintln(&t.Debugger.Output, "program complete")
	}
	t.RefreshAll()
}

// doRun steps every remaining instruction, stopping at the first
// translation error just as a single-instruction Step would leave it
// visible for inspection.
func (t *TUI) doRun() {
	for !t.Debugger.AtEnd() {
		res, _ := t.Debugger.Step()
		if res.Err != nil {
			break
		}
	}
	t.RefreshAll()
}

func (t *TUI) doReset() {
	if err := t.Debugger.Reset(); err != nil {
		fmt.Fprintf(&t.Debugger.Output, "reset failed: %v\n", err)
	}
	t.RefreshAll()
}

// Run starts the tview event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	return t.App.Run()
}

// RefreshAll repaints every panel from the Debugger's current state.
func (t *TUI) RefreshAll() {
	t.updateProgramView()
	t.updateRegisterView()
	t.updateAssertionsView()
	t.updateOutputView()
	t.App.Draw()
}

func (t *TUI) updateProgramView() {
	var b strings.Builder
	for i, ins := range t.Debugger.Program.Instructions {
		marker := "  "
		if i == t.Debugger.Position {
			marker = "->"
		} else if i < t.Debugger.Position {
			marker = " *"
		}
		fmt.Fprintf(&b, "%s [%3d] %s\n", marker, i, tview.Escape(ins.String()))
	}
	t.ProgramView.SetText(b.String())
}

func (t *TUI) updateRegisterView() {
	snapshot := t.Debugger.SSASnapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%-12s -> %s\n", name, snapshot[name])
	}
	t.RegisterView.SetText(b.String())
}

func (t *TUI) updateAssertionsView() {
	if len(t.Debugger.History) == 0 {
		t.AssertionsView.SetText("[yellow]no steps taken yet[white]")
		return
	}
	last := t.Debugger.History[len(t.Debugger.History)-1]

	var b strings.Builder
	if last.Err != nil {
		fmt.Fprintf(&b, "[red]%v[white]\n", last.Err)
	}
	for _, a := range last.Assertions {
		fmt.Fprintf(&b, "%s\n", tview.Escape(a))
	}
	if last.MemoryName != "" {
		fmt.Fprintf(&b, "\nmemory: %s\n", last.MemoryName)
	}
	t.AssertionsView.SetText(b.String())
}

func (t *TUI) updateOutputView() {
	t.OutputView.SetText(t.Debugger.Output.String())
	t.OutputView.ScrollToEnd()
}
