// Package reillint runs static checks over a decoded REIL instruction
// sequence before it reaches the translator, and builds a
// register/address cross-reference report for after-the-fact inspection.
// Both passes are advisory: reil.Builder already rejects malformed
// instructions at construction time, so everything caught here is a
// property of the sequence as a whole rather than of any one
// instruction.
package reillint

import (
	"fmt"
	"sort"

	"github.com/barfgo/reil/reil"
)

// LintLevel is the severity of a LintIssue.
type LintLevel int

const (
	LintError   LintLevel = iota // Will confuse or break translation.
	LintWarning                  // Probably a mistake, translates fine anyway.
	LintInfo                     // Stylistic or informational observation.
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding, anchored to its position in the
// instruction slice (and to a machine address, when the instruction
// carries one).
type LintIssue struct {
	Level   LintLevel
	Index   int
	Address uint64
	HasAddr bool
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	if i.HasAddr {
		return fmt.Sprintf("instr %d (0x%x): %s: %s [%s]", i.Index, i.Address, i.Level, i.Message, i.Code)
	}
	return fmt.Sprintf("instr %d: %s: %s [%s]", i.Index, i.Level, i.Message, i.Code)
}

// LintOptions controls which passes Lint runs.
type LintOptions struct {
	CheckUnknown     bool // Flag UNKN/UNDEF instructions.
	CheckUnreachable bool // Flag code following RET or an unconditional JCC.
	CheckRegisterUse bool // Flag registers read before any write.
	CheckWidths      bool // Flag a register name reused at conflicting widths.
	SuggestFixes     bool // Append "did you mean" suggestions where cheap.
}

// DefaultLintOptions enables every pass.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckUnknown:     true,
		CheckUnreachable: true,
		CheckRegisterUse: true,
		CheckWidths:      true,
		SuggestFixes:     true,
	}
}

// Linter analyzes a decoded REIL sequence for issues.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	instructions []*reil.Instruction

	// Analysis state, rebuilt on every Lint call.
	firstWrite map[string]int
	widthOf    map[string]uint
}

// NewLinter creates a Linter. A nil options uses DefaultLintOptions.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{options: options}
}

// Lint analyzes instructions and returns every issue found, sorted by
// position.
func (l *Linter) Lint(instructions []*reil.Instruction) []*LintIssue {
	l.issues = nil
	l.instructions = instructions
	l.firstWrite = make(map[string]int)
	l.widthOf = make(map[string]uint)

	if l.options.CheckUnknown {
		l.checkUnknownInstructions()
	}
	if l.options.CheckUnreachable {
		l.checkUnreachableCode()
	}

	// Register-use and width checks share one pass over operands, since
	// both need to see writes before reads in instruction order.
	if l.options.CheckRegisterUse || l.options.CheckWidths {
		l.checkRegisters()
	}

	sort.SliceStable(l.issues, func(a, b int) bool {
		return l.issues[a].Index < l.issues[b].Index
	})
	return l.issues
}

func (l *Linter) add(idx int, level LintLevel, code, format string, args ...interface{}) {
	ins := l.instructions[idx]
	l.issues = append(l.issues, &LintIssue{
		Level:   level,
		Index:   idx,
		Address: ins.Address,
		HasAddr: ins.HasAddr,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

// checkUnknownInstructions flags UNKN, which the translator always
// rejects, and UNDEF, which is legal but usually marks a gap in the
// lifter's coverage.
func (l *Linter) checkUnknownInstructions() {
	for idx, ins := range l.instructions {
		switch ins.Mnemonic {
		case reil.UNKN:
			l.add(idx, LintError, "UNKNOWN_INSTRUCTION", "UNKN cannot be translated to an SMT assertion")
		case reil.UNDEF:
			l.add(idx, LintWarning, "UNDEFINED_VALUE", "UNDEF marks a register with no defined value")
		}
	}
}

// checkUnreachableCode flags an instruction that follows RET or an
// unconditional JCC (a nonzero immediate condition) within the same
// address group. Once control leaves unconditionally, anything after it
// before the next machine-instruction boundary can never execute.
func (l *Linter) checkUnreachableCode() {
	for idx := 0; idx < len(l.instructions)-1; idx++ {
		ins := l.instructions[idx]
		if !isUnconditionalExit(ins) {
			continue
		}
		next := l.instructions[idx+1]
		if next.HasAddr && next.HasAddr != ins.HasAddr {
			continue
		}
		if next.HasAddr && ins.HasAddr && next.Address != ins.Address {
			continue
		}
		l.add(idx+1, LintWarning, "UNREACHABLE_CODE", "unreachable: follows an unconditional %s", ins.Mnemonic)
	}
}

func isUnconditionalExit(ins *reil.Instruction) bool {
	if ins.Mnemonic == reil.RET {
		return true
	}
	if ins.Mnemonic != reil.JCC {
		return false
	}
	cond := ins.Src1()
	return cond.Kind() == reil.KindImmediate && cond.Value() != 0
}

// checkRegisters walks operands in instruction order, recording the
// first write to each register name and flagging a read that precedes
// any write, plus a register name reused at a conflicting bit width.
func (l *Linter) checkRegisters() {
	for idx, ins := range l.instructions {
		reads, writes := registerRoles(ins)

		for _, op := range reads {
			l.checkWidth(idx, op)
			if _, written := l.firstWrite[op.Name()]; !written && l.options.CheckRegisterUse {
				if !isIncomingVersion(op.Name()) {
					msg := fmt.Sprintf("%q is read before any write", op.Name())
					if l.options.SuggestFixes {
						if similar := l.findSimilarWrittenName(op.Name()); similar != "" {
							msg += fmt.Sprintf(" (did you mean %q?)", similar)
						}
					}
					l.add(idx, LintWarning, "READ_BEFORE_WRITE", "%s", msg)
				}
			}
		}
		for _, op := range writes {
			l.checkWidth(idx, op)
			if _, exists := l.firstWrite[op.Name()]; !exists {
				l.firstWrite[op.Name()] = idx
			}
		}
	}
}

func (l *Linter) checkWidth(idx int, op reil.Operand) {
	if !l.options.CheckWidths {
		return
	}
	prev, ok := l.widthOf[op.Name()]
	if !ok {
		l.widthOf[op.Name()] = op.Size()
		return
	}
	if prev != op.Size() {
		l.add(idx, LintError, "WIDTH_CONFLICT", "%q used at %d bits here, %d bits earlier", op.Name(), op.Size(), prev)
	}
}

// registerRoles splits an instruction's register operands into "read"
// and "written" sets, instruction-shape by instruction-shape. LDM's
// address operand and STM's address operand are both reads: neither
// mnemonic defines the address register, only consumes it.
func registerRoles(ins *reil.Instruction) (reads, writes []reil.Operand) {
	isReg := func(op reil.Operand) bool { return op.Kind() == reil.KindRegister }

	switch ins.Mnemonic {
	case reil.ADD, reil.SUB, reil.MUL, reil.DIV, reil.MOD, reil.BSH, reil.AND, reil.OR, reil.XOR:
		if isReg(ins.Src1()) {
			reads = append(reads, ins.Src1())
		}
		if isReg(ins.Src2()) {
			reads = append(reads, ins.Src2())
		}
		writes = append(writes, ins.Dst())
	case reil.STR, reil.BISZ:
		if isReg(ins.Src1()) {
			reads = append(reads, ins.Src1())
		}
		writes = append(writes, ins.Dst())
	case reil.LDM:
		if isReg(ins.Src1()) {
			reads = append(reads, ins.Src1())
		}
		writes = append(writes, ins.Dst())
	case reil.STM:
		if isReg(ins.Src1()) {
			reads = append(reads, ins.Src1())
		}
		if isReg(ins.Dst()) {
			reads = append(reads, ins.Dst())
		}
	case reil.JCC:
		if isReg(ins.Src1()) {
			reads = append(reads, ins.Src1())
		}
		if isReg(ins.Dst()) {
			reads = append(reads, ins.Dst())
		}
	}
	return reads, writes
}

// findSimilarWrittenName looks for an already-written register name
// within edit distance 2 of target, to suggest a likely typo.
func (l *Linter) findSimilarWrittenName(target string) string {
	best, bestDist := "", 3
	for name := range l.firstWrite {
		d := levenshteinDistance(name, target)
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// isIncomingVersion reports whether name ends in the SSA version-0
// suffix. A version-0 name (e.g. "rax_0") denotes a register's value on
// entry to the translated sequence, which is legitimately read without
// any prior write; a later version with no write anywhere is still
// suspicious.
func isIncomingVersion(name string) bool {
	return len(name) >= 2 && name[len(name)-2:] == "_0"
}
