package translator

import (
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
)

func (t *Translator) translateAnd(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateTernaryArith(ins, smt.And)
}

func (t *Translator) translateOr(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateTernaryArith(ins, smt.Or)
}

func (t *Translator) translateXor(ins *reil.Instruction) ([]smt.Term, error) {
	return t.translateTernaryArith(ins, smt.Xor)
}
