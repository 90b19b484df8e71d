package translator

import (
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
)

// translateJcc has no SMT effect: control flow is outside the logical
// encoding this translator produces.
func (t *Translator) translateJcc(ins *reil.Instruction) ([]smt.Term, error) {
	return nil, nil
}

// translateUndef asserts nothing; the destination stays logically
// unconstrained.
func (t *Translator) translateUndef(ins *reil.Instruction) ([]smt.Term, error) {
	return nil, nil
}

// translateUnkn has no sound encoding: it signals that the lifter could
// not represent a machine instruction's effect at all, so the translator
// refuses to proceed rather than silently asserting nothing.
func (t *Translator) translateUnkn(ins *reil.Instruction) ([]smt.Term, error) {
	return nil, newError(ErrUnsupportedInstruction, "UNKN at address 0x%x", ins.Address)
}

func (t *Translator) translateNop(ins *reil.Instruction) ([]smt.Term, error) {
	return nil, nil
}

func (t *Translator) translateRet(ins *reil.Instruction) ([]smt.Term, error) {
	return nil, nil
}
