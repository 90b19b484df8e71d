package loader

import (
	"fmt"
	"os"

	"github.com/barfgo/reil/reil"
)

// Program is a parsed REIL source file: its decoded instructions in file
// order, plus them grouped into reil.DualInstruction blocks by the
// machine address each block of IR was expanded from. Instructions with
// no address (HasAddr == false) are appended to the most recent block,
// mirroring how a lifter emits the IR for one machine instruction as a
// contiguous run of REIL lines under one leading "<addr>:" marker.
type Program struct {
	Filename     string
	Instructions []*reil.Instruction
	Blocks       []*reil.DualInstruction
}

// LoadFile reads and parses a REIL assembly file from disk. A non-nil
// ErrorList is always returned alongside the Program so a caller can
// decide whether to proceed with partial results or abort; Program is
// nil only when the file itself could not be read.
func LoadFile(path string) (*Program, *ErrorList) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		errs := &ErrorList{}
		errs.AddError(NewError(Position{Filename: path}, ErrSyntax, fmt.Sprintf("read file: %v", err)))
		return nil, errs
	}
	return Load(string(data), path)
}

// Load parses REIL assembly text already held in memory (e.g. piped to
// stdin, or embedded in a test) under the given filename, used only for
// error position reporting.
func Load(source, filename string) (*Program, *ErrorList) {
	instructions, errs := Parse(source, filename)
	prog := &Program{
		Filename:     filename,
		Instructions: instructions,
		Blocks:       groupByAddress(instructions),
	}
	return prog, errs
}

// groupByAddress folds a flat instruction stream into DualInstruction
// blocks, one per distinct leading address. Instructions is the ordered
// IR expansion for that address; AsmInstr is left nil since the textual
// loader never sees the originating machine instruction, only its IR.
func groupByAddress(instructions []*reil.Instruction) []*reil.DualInstruction {
	var blocks []*reil.DualInstruction

	for _, ins := range instructions {
		if ins.HasAddr {
			blocks = append(blocks, &reil.DualInstruction{
				Address:  ins.Address,
				IRInstrs: []*reil.Instruction{ins},
			})
			continue
		}
		if len(blocks) == 0 {
			blocks = append(blocks, &reil.DualInstruction{IRInstrs: []*reil.Instruction{ins}})
			continue
		}
		last := blocks[len(blocks)-1]
		last.IRInstrs = append(last.IRInstrs, ins)
	}

	return blocks
}
