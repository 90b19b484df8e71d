package translator

import (
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
)

// widenOrTruncate matches the destination's width to the (common) source
// width for the 3-operand arithmetic/bitwise family: zero-extend if the
// destination is wider than the sources, extract the low bits if it is
// narrower, pass through unchanged if equal.
func widenOrTruncate(combine func(a, b smt.Term) smt.Term, op1, op2 smt.Term, dstSize uint) smt.Term {
	switch {
	case dstSize > op1.Size():
		return combine(smt.ZExtend(op1, dstSize), smt.ZExtend(op2, dstSize))
	case dstSize < op1.Size():
		return smt.Extract(combine(op1, op2), 0, dstSize)
	default:
		return combine(op1, op2)
	}
}

func (t *Translator) translateTernaryArith(ins *reil.Instruction, combine func(a, b smt.Term) smt.Term) ([]smt.Term, error) {
	src1, src2, dst := ins.Src1(), ins.Src2(), ins.Dst()
	if src1.Size() != src2.Size() {
		return nil, newError(ErrWidthMismatch, "%s: src widths differ (%d vs %d)", ins.Mnemonic, src1.Size(), src2.Size())
	}

	op1, err := t.translateSrcOperand(src1)
	if err != nil {
		return nil, err
	}
	op2, err := t.translateSrcOperand(src2)
	if err != nil {
		return nil, err
	}
	dreg, err := t.translateDstOperand(dst)
	if err != nil {
		return nil, err
	}

	result := widenOrTruncate(combine, op1, op2, dst.Size())
	terms := []smt.Term{smt.Eq(dreg.term, result)}
	return append(terms, dreg.preserve...), nil
}

func (t *Translator) translateAdd(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateTernaryArith(ins, smt.Add)
}

func (t *Translator) translateSub(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateTernaryArith(ins, smt.Sub)
}

func (t *Translator) translateMul(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateTernaryArith(ins, smt.Mul)
}

// translateEqualWidthArith encodes DIV and MOD, which (unlike the other
// arithmetic mnemonics) require all three operands to share one width;
// there is no widen/truncate step.
func (t *Translator) translateEqualWidthArith(ins *reil.Instruction, combine func(a, b smt.Term) smt.Term) ([]smt.Term, error) {
	src1, src2, dst := ins.Src1(), ins.Src2(), ins.Dst()
	if src1.Size() != src2.Size() || src2.Size() != dst.Size() {
		return nil, newError(ErrWidthMismatch, "%s: requires equal widths, got %d/%d/%d",
			ins.Mnemonic, src1.Size(), src2.Size(), dst.Size())
	}

	op1, err := t.translateSrcOperand(src1)
	if err != nil {
		return nil, err
	}
	op2, err := t.translateSrcOperand(src2)
	if err != nil {
		return nil, err
	}
	dreg, err := t.translateDstOperand(dst)
	if err != nil {
		return nil, err
	}

	terms := []smt.Term{smt.Eq(dreg.term, combine(op1, op2))}
	return append(terms, dreg.preserve...), nil
}

// translateDiv encodes unsigned division (bvudiv). Division is defined
// over two's-complement bit-vectors without a notion of sign in this
// translator: DIV/MOD always use the unsigned SMT-LIB operators.
func (t *Translator) translateDiv(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateEqualWidthArith(ins, smt.Udiv)
}

func (t *Translator) translateMod(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateEqualWidthArith(ins, smt.Urem)
}

// translateBsh encodes BSH: oprnd2 positive shifts left, negative shifts
// right by its magnitude. The sign test is evaluated as a signed
// comparison of the shift amount against zero (bvsge), not an unsigned
// one, so that a shift amount whose high bit is set is recognized as
// negative rather than as an enormous unsigned shift.
func (t *Translator) translateBsh(ins *reil.Instruction) ([]smt.Term, error) {
	src1, src2, dst := ins.Src1(), ins.Src2(), ins.Dst()
	if src1.Size() != src2.Size() {
		return nil, newError(ErrWidthMismatch, "BSH: src widths differ (%d vs %d)", src1.Size(), src2.Size())
	}

	op1, err := t.translateSrcOperand(src1)
	if err != nil {
		return nil, err
	}
	op2, err := t.translateSrcOperand(src2)
	if err != nil {
		return nil, err
	}
	dreg, err := t.translateDstOperand(dst)
	if err != nil {
		return nil, err
	}

	shiftRight := smt.Extract(smt.Lshr(op1, smt.Neg(op2)), 0, dst.Size())
	shiftLeft := smt.Extract(smt.Shl(op1, op2), 0, dst.Size())

	isLeft := smt.Sge(op2, smt.BitVecLit(op2.Size(), 0))
	result := smt.Ite(dst.Size(), isLeft, shiftLeft, shiftRight)

	terms := []smt.Term{smt.Eq(dreg.term, result)}
	return append(terms, dreg.preserve...), nil
}
