package translator

import (
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
)

// translateLdm encodes LDM: for each byte offset i (descending, for
// determinism), assert select(mem, addr + i/8) == EXTRACT(dst, i, 8).
func (t *Translator) translateLdm(ins *reil.Instruction) ([]smt.Term, error) {
	src1, dst := ins.Src1(), ins.Dst()
	if src1.Size() != t.addressSize {
		return nil, newError(ErrWidthMismatch, "LDM: address operand width %d != address size %d", src1.Size(), t.addressSize)
	}

	addr, err := t.translateSrcOperand(src1)
	if err != nil {
		return nil, err
	}
	dreg, err := t.translateDstOperand(dst)
	if err != nil {
		return nil, err
	}

	var terms []smt.Term
	for i := int(dst.Size()) - 8; i >= 0; i -= 8 {
		offset := smt.Add(addr, smt.BitVecLit(addr.Size(), uint64(i/8)))
		byteTerm := smt.Select(t.mem, offset)
		terms = append(terms, smt.Eq(byteTerm, smt.Extract(dreg.term, uint(i), 8)))
	}
	return append(terms, dreg.preserve...), nil
}

// translateStm encodes STM: write src1's bytes at the address in dst via
// a chain of stores, allocate a new named memory version, and assert the
// new handle equal to the store chain (the redesign this translator
// takes over the source's "mutate in place then assert equal" approach:
// the new array is built explicitly from the old one).
func (t *Translator) translateStm(ins *reil.Instruction) ([]smt.Term, error) {
	src1, dst := ins.Src1(), ins.Dst()
	if dst.Size() != t.addressSize {
		return nil, newError(ErrWidthMismatch, "STM: address operand width %d != address size %d", dst.Size(), t.addressSize)
	}

	value, err := t.translateSrcOperand(src1)
	if err != nil {
		return nil, err
	}
	addr, err := t.translateSrcOperand(dst)
	if err != nil {
		return nil, err
	}

	chain := t.mem
	for i := 0; i < int(src1.Size()); i += 8 {
		offset := smt.Add(addr, smt.BitVecLit(addr.Size(), uint64(i/8)))
		chain = smt.Store(chain, offset, smt.Extract(value, uint(i), 8))
	}

	t.memInstance++
	newName := t.memoryName(t.memInstance)
	newMem, err := t.backend.MkArray(t.addressSize, newName)
	if err != nil {
		return nil, wrapError(ErrSolver, err, "declare %s", newName)
	}
	t.declared[newName] = true

	assertion := smt.Eq(newMem, chain)
	t.mem = newMem

	return []smt.Term{assertion}, nil
}
