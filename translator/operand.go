package translator

import (
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
)

// translateSrcOperand translates a source operand (Register or
// Immediate) to a value term. It never advances any SSA version.
func (t *Translator) translateSrcOperand(op reil.Operand) (smt.Term, error) {
	switch op.Kind() {
	case reil.KindRegister:
		return t.translateSrcRegister(op)
	case reil.KindImmediate:
		return smt.BitVecLit(op.Size(), op.Value()), nil
	default:
		return smt.Term{}, newError(ErrInvalidOperand, "invalid source operand %s", op)
	}
}

// translateSrcRegister resolves op.Name() through the architecture's
// alias map. A name with no alias mapping is a first-class symbol
// declared at its own width; an aliased name is EXTRACTed out of its
// base register at its current SSA version.
func (t *Translator) translateSrcRegister(op reil.Operand) (smt.Term, error) {
	access, aliased := t.descriptor.Access(op.Name())
	if !aliased {
		name := t.namerFor(op.Name()).Current()
		return t.declareBitVec(op.Size(), name)
	}

	baseSize, ok := t.descriptor.RegisterSize(access.Base)
	if !ok {
		return smt.Term{}, newError(ErrInvalidOperand, "alias %s has unknown base %s", op.Name(), access.Base)
	}

	baseName := t.namerFor(access.Base).Current()
	base, err := t.declareBitVec(baseSize, baseName)
	if err != nil {
		return smt.Term{}, err
	}
	return smt.Extract(base, access.Shift, op.Size()), nil
}

// destRegister is a destination register operand resolved to a fresh SSA
// term, plus (for an aliased operand) the preservation constraints that
// must be asserted to keep the rest of the base register unchanged.
type destRegister struct {
	term     smt.Term
	preserve []smt.Term
}

// translateDstOperand translates a destination operand to a fresh SSA
// term. Only Register destinations are legal.
func (t *Translator) translateDstOperand(op reil.Operand) (destRegister, error) {
	if op.Kind() != reil.KindRegister {
		return destRegister{}, newError(ErrInvalidOperand, "invalid destination operand %s", op)
	}
	return t.translateDstRegister(op)
}

func (t *Translator) translateDstRegister(op reil.Operand) (destRegister, error) {
	access, aliased := t.descriptor.Access(op.Name())
	if !aliased {
		name := t.namerFor(op.Name()).Next()
		term, err := t.declareBitVec(op.Size(), name)
		if err != nil {
			return destRegister{}, err
		}
		return destRegister{term: term}, nil
	}

	baseSize, ok := t.descriptor.RegisterSize(access.Base)
	if !ok {
		return destRegister{}, newError(ErrInvalidOperand, "alias %s has unknown base %s", op.Name(), access.Base)
	}

	baseNamer := t.namerFor(access.Base)
	oldName := baseNamer.Current()
	oldBase, err := t.declareBitVec(baseSize, oldName)
	if err != nil {
		return destRegister{}, err
	}

	newName := baseNamer.Next()
	newBase, err := t.declareBitVec(baseSize, newName)
	if err != nil {
		return destRegister{}, err
	}

	var preserve []smt.Term
	for i := int(baseSize) - 8; i >= 0; i -= 8 {
		shift := int(access.Shift)
		if i >= shift && i < shift+int(op.Size()) {
			continue
		}
		preserve = append(preserve, smt.Eq(
			smt.Extract(newBase, uint(i), 8),
			smt.Extract(oldBase, uint(i), 8),
		))
	}

	return destRegister{
		term:     smt.Extract(newBase, access.Shift, op.Size()),
		preserve: preserve,
	}, nil
}
