// Package translator dispatches REIL instructions to SMT-LIBv2
// assertions. It asks an arch.Descriptor for alias resolution, issues
// fresh SSA names for destination symbols and memory versions, builds
// bit-vector terms through smt.Term constructors, and asserts them
// through an smt.Backend.
package translator

import (
	"fmt"

	"github.com/barfgo/reil/arch"
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
)

const memoryBaseName = "MEM"

// Translator converts REIL instructions to SMT assertions against one
// solver context. It is not safe for concurrent use: the REIL IR it
// consumes is itself a linear sequence and the SSA versioning it
// maintains depends on processing that sequence in order.
type Translator struct {
	backend     smt.Backend
	descriptor  arch.Descriptor
	addressSize uint

	namers   map[string]*reil.Namer
	declared map[string]bool

	mem         smt.Term
	memInit     smt.Term
	memInstance int
}

// New builds a Translator over backend, using descriptor to resolve
// register aliases and the architecture's address size.
func New(backend smt.Backend, descriptor arch.Descriptor) (*Translator, error) {
	t := &Translator{
		backend:     backend,
		descriptor:  descriptor,
		addressSize: descriptor.AddressSize(),
	}
	if err := t.Reset(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reset clears all translator and solver state: memory versioning
// restarts at MEM_0 and every symbol name mapper is forgotten.
func (t *Translator) Reset() error {
	if err := t.backend.Reset(true); err != nil {
		return wrapError(ErrSolver, err, "reset")
	}

	t.namers = make(map[string]*reil.Namer)
	t.declared = make(map[string]bool)
	t.memInstance = 0

	memName := t.memoryName(0)
	mem, err := t.backend.MkArray(t.addressSize, memName)
	if err != nil {
		return wrapError(ErrSolver, err, "declare %s", memName)
	}
	t.mem = mem
	t.memInit = mem
	t.declared[memName] = true

	return nil
}

func (t *Translator) memoryName(instance int) string {
	return fmt.Sprintf("%s_%d", memoryBaseName, instance)
}

// Memory returns the current symbolic memory array term.
func (t *Translator) Memory() smt.Term { return t.mem }

// MemoryInitial returns MEM_0, the memory snapshot at the start of the
// translated sequence. It remains valid across the whole session so that
// callers can assert "at-start" memory properties.
func (t *Translator) MemoryInitial() smt.Term { return t.memInit }

// namerFor returns the Namer tracking SSA versions for base, creating one
// the first time base is seen.
func (t *Translator) namerFor(base string) *reil.Namer {
	n, ok := t.namers[base]
	if !ok {
		n = reil.NewNamer(base)
		t.namers[base] = n
	}
	return n
}

// CurrentName returns the current SSA name bound to a symbolic register,
// implicitly treating an unseen name as being at version 0.
func (t *Translator) CurrentName(name string) string {
	return t.namerFor(name).Current()
}

// InitName returns the version-0 SSA name for a symbolic register,
// regardless of how far its current version has advanced.
func (t *Translator) InitName(name string) string {
	return t.namerFor(name).Init()
}

func (t *Translator) declareBitVec(size uint, name string) (smt.Term, error) {
	if t.declared[name] {
		return smt.BitVecVar(size, name), nil
	}
	term, err := t.backend.MkBitVec(size, name)
	if err != nil {
		return smt.Term{}, wrapError(ErrSolver, err, "declare %s", name)
	}
	t.declared[name] = true
	return term, nil
}

// ToBitVec returns a term for a Register or Immediate operand without
// asserting anything — a convenience for callers (analyses, the
// equivalence checker) that need a value term outside of a full
// instruction translation.
func (t *Translator) ToBitVec(op reil.Operand) (smt.Term, error) {
	switch op.Kind() {
	case reil.KindRegister:
		return t.translateSrcRegister(op)
	case reil.KindImmediate:
		return smt.BitVecLit(op.Size(), op.Value()), nil
	default:
		return smt.Term{}, newError(ErrInvalidOperand, "cannot convert %s to a term", op)
	}
}

// Translate dispatches ins to its per-mnemonic encoder and asserts the
// resulting formulas into the solver, in order. If encoding fails before
// any assertion is issued, the solver context is left unchanged — no
// partial assertions ever leak in.
func (t *Translator) Translate(ins *reil.Instruction) ([]smt.Term, error) {
	var (
		terms []smt.Term
		err   error
	)

	switch ins.Mnemonic {
	case reil.ADD:
		terms, err = t.translateAdd(ins)
	case reil.SUB:
		terms, err = t.translateSub(ins)
	case reil.MUL:
		terms, err = t.translateMul(ins)
	case reil.DIV:
		terms, err = t.translateDiv(ins)
	case reil.MOD:
		terms, err = t.translateMod(ins)
	case reil.BSH:
		terms, err = t.translateBsh(ins)
	case reil.AND:
		terms, err = t.translateAnd(ins)
	case reil.OR:
		terms, err = t.translateOr(ins)
	case reil.XOR:
		terms, err = t.translateXor(ins)
	case reil.LDM:
		terms, err = t.translateLdm(ins)
	case reil.STM:
		terms, err = t.translateStm(ins)
	case reil.STR:
		terms, err = t.translateStr(ins)
	case reil.BISZ:
		terms, err = t.translateBisz(ins)
	case reil.JCC:
		terms, err = t.translateJcc(ins)
	case reil.UNDEF:
		terms, err = t.translateUndef(ins)
	case reil.UNKN:
		terms, err = t.translateUnkn(ins)
	case reil.NOP:
		terms, err = t.translateNop(ins)
	case reil.RET:
		terms, err = t.translateRet(ins)
	default:
		err = newError(ErrUnsupportedInstruction, "mnemonic %s", ins.Mnemonic)
	}

	if err != nil {
		return nil, err
	}

	for _, term := range terms {
		if err := t.backend.Assert(term); err != nil {
			return nil, wrapError(ErrSolver, err, "assert")
		}
	}

	return terms, nil
}
