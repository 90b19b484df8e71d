package smt_test

import (
	"testing"

	"github.com/barfgo/reil/smt"
	"github.com/stretchr/testify/assert"
)

func TestBitVecLitHexFormatting(t *testing.T) {
	got := smt.BitVecLit(32, 0xdeadbeef).String()
	assert.Equal(t, "#xdeadbeef", got)
}

func TestBitVecLitBinaryFormattingWhenWidthNotMultipleOf4(t *testing.T) {
	got := smt.BitVecLit(3, 0b101).String()
	assert.Equal(t, "#b101", got)
}

func TestBitVecLitMasksValueToWidth(t *testing.T) {
	got := smt.BitVecLit(8, 0x1ff).String()
	assert.Equal(t, "#xff", got)
}

func TestBinaryOpRendering(t *testing.T) {
	a := smt.BitVecVar(32, "a")
	b := smt.BitVecVar(32, "b")

	cases := []struct {
		term smt.Term
		want string
	}{
		{smt.Add(a, b), "(bvadd a b)"},
		{smt.Sub(a, b), "(bvsub a b)"},
		{smt.Mul(a, b), "(bvmul a b)"},
		{smt.Udiv(a, b), "(bvudiv a b)"},
		{smt.Urem(a, b), "(bvurem a b)"},
		{smt.And(a, b), "(bvand a b)"},
		{smt.Or(a, b), "(bvor a b)"},
		{smt.Xor(a, b), "(bvxor a b)"},
		{smt.Shl(a, b), "(bvshl a b)"},
		{smt.Lshr(a, b), "(bvlshr a b)"},
		{smt.Not(a), "(bvnot a)"},
		{smt.Neg(a), "(bvneg a)"},
		{smt.Eq(a, b), "(= a b)"},
		{smt.Uge(a, b), "(bvuge a b)"},
		{smt.Sge(a, b), "(bvsge a b)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.term.String())
	}
}

func TestExtractRendering(t *testing.T) {
	a := smt.BitVecVar(32, "a")
	got := smt.Extract(a, 8, 8).String()
	assert.Equal(t, "((_ extract 15 8) a)", got)
}

func TestZExtendRendering(t *testing.T) {
	a := smt.BitVecVar(8, "a")
	got := smt.ZExtend(a, 32).String()
	assert.Equal(t, "((_ zero_extend 24) a)", got)
}

func TestIteRendering(t *testing.T) {
	cond := smt.Eq(smt.BitVecVar(1, "c"), smt.BitVecLit(1, 1))
	then := smt.BitVecLit(8, 1)
	els := smt.BitVecLit(8, 0)
	got := smt.Ite(8, cond, then, els).String()
	assert.Equal(t, "(ite (= c #b1) #x01 #x00)", got)
}

func TestSelectAndStoreRendering(t *testing.T) {
	mem := smt.ArrayVar(64, "mem_0")
	idx := smt.BitVecVar(64, "addr")
	val := smt.BitVecVar(8, "byte")

	sel := smt.Select(mem, idx)
	assert.Equal(t, "(select mem_0 addr)", sel.String())

	st := smt.Store(mem, idx, val)
	assert.Equal(t, "(store mem_0 addr byte)", st.String())
	assert.Equal(t, smt.SortArray, st.Sort())
}

func TestArrayEqRendering(t *testing.T) {
	a := smt.ArrayVar(64, "mem_0")
	b := smt.ArrayVar(64, "mem_1")
	got := smt.Eq(a, b).String()
	assert.Equal(t, "(= mem_0 mem_1)", got)
	assert.Equal(t, smt.SortBool, smt.Eq(a, b).Sort())
}
