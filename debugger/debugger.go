// Package debugger steps a loaded REIL program through a
// translator.Translator one instruction at a time, exposing each step's
// SSA bindings, emitted assertions, and memory version so an interactive
// front end (tui.go) or an HTTP API (the sibling api package) can show a
// live view of the translation as it happens. It never executes REIL
// concretely; every "step" is a Translate call, not a CPU cycle.
package debugger

import (
	"fmt"
	"strings"

	"github.com/barfgo/reil/loader"
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/translator"
)

// StepResult records the outcome of translating one instruction: the
// instruction itself, the assertions it produced, and the SSA/memory
// handles live immediately afterward.
type StepResult struct {
	Index       int
	Instruction *reil.Instruction
	Assertions  []string
	MemoryName  string
	Err         error
}

// Debugger owns a Translator and steps it across a loaded Program's
// instruction stream. It is not safe for concurrent use, mirroring
// Translator's own single-threaded contract.
type Debugger struct {
	Program    *loader.Program
	Translator *translator.Translator

	// Position is the index of the next instruction Step will translate.
	Position int

	// History accumulates every StepResult produced so far, oldest
	// first, for a caller to scroll back through.
	History []StepResult

	// Output mirrors what a CLI front end would print per step; a TUI
	// or API consumer can keep appending here or ignore it and read
	// History directly.
	Output strings.Builder
}

// New builds a Debugger over a parsed Program, ready to step from
// instruction 0.
func New(program *loader.Program, t *translator.Translator) *Debugger {
	return &Debugger{Program: program, Translator: t}
}

// AtEnd reports whether every instruction in the program has been
// stepped.
func (d *Debugger) AtEnd() bool {
	return d.Position >= len(d.Program.Instructions)
}

// Step translates the next instruction and advances Position. It
// returns the StepResult whether or not translation succeeded, so a
// caller can show the failing instruction; Position still advances past
// it (translator state, however, is left unchanged on failure per
// translator.Translate's contract).
func (d *Debugger) Step() (StepResult, bool) {
	if d.AtEnd() {
		return StepResult{}, false
	}

	ins := d.Program.Instructions[d.Position]
	res := StepResult{Index: d.Position, Instruction: ins}

	terms, err := d.Translator.Translate(ins)
	if err != nil {
		res.Err = err
		fmt.Fprintf(&d.Output, "[%d] %s -> error: %v\n", d.Position, ins, err)
	} else {
		for _, term := range terms {
			res.Assertions = append(res.Assertions, term.String())
		}
		res.MemoryName = d.Translator.Memory().String()
		fmt.Fprintf(&d.Output, "[%d] %s -> %d assertion(s)\n", d.Position, ins, len(terms))
	}

	d.History = append(d.History, res)
	d.Position++
	return res, true
}

// Reset rewinds the program position to 0 and resets the underlying
// Translator (fresh SSA counters, fresh MEM_0, cleared solver context).
// History is cleared too — a reset debugger looks exactly like a
// freshly constructed one.
func (d *Debugger) Reset() error {
	d.Position = 0
	d.History = nil
	d.Output.Reset()
	return d.Translator.Reset()
}

// CurrentInstruction returns the instruction Step would translate next,
// or nil if the program has already run to completion.
func (d *Debugger) CurrentInstruction() *reil.Instruction {
	if d.AtEnd() {
		return nil
	}
	return d.Program.Instructions[d.Position]
}

// SSASnapshot reports the current SSA name bound to every register base
// name this debugger's Translator has seen so far, for display in a
// "registers" panel. Names are drawn from already-translated
// instructions' operands, not guessed.
func (d *Debugger) SSASnapshot() map[string]string {
	seen := make(map[string]bool)
	snapshot := make(map[string]string)
	for _, res := range d.History {
		if res.Instruction == nil {
			continue
		}
		for _, op := range res.Instruction.Operands {
			if op.Kind() != reil.KindRegister || seen[op.Name()] {
				continue
			}
			seen[op.Name()] = true
			snapshot[op.Name()] = d.Translator.CurrentName(op.Name())
		}
	}
	return snapshot
}

// RecentAssertions returns the assertions produced by the last n steps
// (fewer if History is shorter), most recent last.
func (d *Debugger) RecentAssertions(n int) []string {
	var out []string
	start := len(d.History) - n
	if start < 0 {
		start = 0
	}
	for _, res := range d.History[start:] {
		out = append(out, res.Assertions...)
	}
	return out
}
