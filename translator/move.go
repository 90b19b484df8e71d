package translator

import (
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
)

// translateStr encodes STR (move/widen/truncate). When the destination
// is wider than the source, the Open Question this translator resolves
// is to constrain the high bits explicitly to zero — STR zero-pads
// rather than leaving them unconstrained, so a solver query over the
// destination's upper bits gets a definite answer instead of "anything
// goes".
func (t *Translator) translateStr(ins *reil.Instruction) ([]smt.Term, error) {
	src1, dst := ins.Src1(), ins.Dst()

	value, err := t.translateSrcOperand(src1)
	if err != nil {
		return nil, err
	}
	dreg, err := t.translateDstOperand(dst)
	if err != nil {
		return nil, err
	}

	var terms []smt.Term
	switch {
	case src1.Size() == dst.Size():
		terms = append(terms, smt.Eq(value, dreg.term))
	case src1.Size() < dst.Size():
		terms = append(terms, smt.Eq(value, smt.Extract(dreg.term, 0, src1.Size())))
		padWidth := dst.Size() - src1.Size()
		terms = append(terms, smt.Eq(
			smt.BitVecLit(padWidth, 0),
			smt.Extract(dreg.term, src1.Size(), padWidth),
		))
	default:
		terms = append(terms, smt.Eq(smt.Extract(value, 0, dst.Size()), dreg.term))
	}

	return append(terms, dreg.preserve...), nil
}

// translateBisz encodes BISZ: dst is 1 when src1 is zero, 0 otherwise.
func (t *Translator) translateBisz(ins *reil.Instruction) ([]smt.Term, error) {
	src1, dst := ins.Src1(), ins.Dst()

	value, err := t.translateSrcOperand(src1)
	if err != nil {
		return nil, err
	}
	dreg, err := t.translateDstOperand(dst)
	if err != nil {
		return nil, err
	}

	isZero := smt.Eq(value, smt.BitVecLit(value.Size(), 0))
	result := smt.Ite(dst.Size(), isZero, smt.BitVecLit(dst.Size(), 1), smt.BitVecLit(dst.Size(), 0))

	terms := []smt.Term{smt.Eq(dreg.term, result)}
	return append(terms, dreg.preserve...), nil
}
