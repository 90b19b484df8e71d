package smt

import (
	"fmt"
	"strings"
)

// Sort identifies the SMT-LIB sort a Term denotes.
type Sort int

const (
	SortBitVec Sort = iota
	SortArray
	SortBool
)

// kind identifies which expression shape a Term is built from.
type kind int

const (
	kindBitVecVar kind = iota
	kindBitVecLit
	kindArrayVar
	kindBinary
	kindUnary
	kindExtract
	kindZExtend
	kindIte
	kindCompare
	kindSelect
	kindStore
	kindArrayEq
	kindBoolNot
)

// Term is an immutable bit-vector/array/bool expression node. Terms are
// built by the package-level constructors below and rendered to
// SMT-LIBv2 text by String(). They carry no reference back to a Backend:
// ownership is unidirectional, Backend -> Term, never the reverse.
type Term struct {
	kind kind
	sort Sort
	size uint // bit-width for BitVec terms; address size for Array terms

	name  string // Var
	value uint64 // Lit

	op          string // Binary/Unary/compare opcode, e.g. "bvadd", "bvnot", "="
	left, right Term   // Binary/compare/Store index-value/ArrayEq operands
	operand     Term   // Unary/Extract/ZExtend operand
	lo          uint   // Extract low bit
	cond, then_ Term   // Ite
	els         Term   // Ite
	array, idx  Term   // Select/Store
	val         Term   // Store
}

// Sort reports which SMT-LIB sort this term denotes.
func (t Term) Sort() Sort { return t.sort }

// Size returns the bit-width of a BitVec term (or the address width of an
// Array term). It is meaningless for SortBool terms.
func (t Term) Size() uint { return t.size }

// BitVecVar returns a reference to a previously declared bit-vector
// symbol. Backend.MkBitVec is the only place that should construct one of
// these with a name actually declared to the solver.
func BitVecVar(size uint, name string) Term {
	return Term{kind: kindBitVecVar, sort: SortBitVec, size: size, name: name}
}

// BitVecLit returns a bit-vector literal of the given width. value is
// taken modulo 2^size, matching reil.Operand's own normalization.
func BitVecLit(size uint, value uint64) Term {
	if size < 64 {
		value &= (uint64(1) << size) - 1
	}
	return Term{kind: kindBitVecLit, sort: SortBitVec, size: size, value: value}
}

// ArrayVar returns a reference to a previously declared array symbol
// mapping BitVec(addrSize) to BitVec(8).
func ArrayVar(addrSize uint, name string) Term {
	return Term{kind: kindArrayVar, sort: SortArray, size: addrSize, name: name}
}

func binary(op string, size uint, a, b Term) Term {
	return Term{kind: kindBinary, sort: SortBitVec, size: size, op: op, left: a, right: b}
}

// Add, Sub, Mul, Udiv, Urem, And, Or, Xor, Shl, Lshr build a same-width
// bit-vector result from two same-width operands. Callers are
// responsible for zero-extending or truncating to the destination width
// first.
func Add(a, b Term) Term  { return binary("bvadd", a.size, a, b) }
func Sub(a, b Term) Term  { return binary("bvsub", a.size, a, b) }
func Mul(a, b Term) Term  { return binary("bvmul", a.size, a, b) }
func Udiv(a, b Term) Term { return binary("bvudiv", a.size, a, b) }
func Urem(a, b Term) Term { return binary("bvurem", a.size, a, b) }
func And(a, b Term) Term  { return binary("bvand", a.size, a, b) }
func Or(a, b Term) Term   { return binary("bvor", a.size, a, b) }
func Xor(a, b Term) Term  { return binary("bvxor", a.size, a, b) }
func Shl(a, b Term) Term  { return binary("bvshl", a.size, a, b) }
func Lshr(a, b Term) Term { return binary("bvlshr", a.size, a, b) }

// Not returns the bitwise complement of a.
func Not(a Term) Term {
	return Term{kind: kindUnary, sort: SortBitVec, size: a.size, op: "bvnot", operand: a}
}

// Neg returns the two's-complement negation of a, used by BSH's
// "shift right by -amount" encoding.
func Neg(a Term) Term {
	return Term{kind: kindUnary, sort: SortBitVec, size: a.size, op: "bvneg", operand: a}
}

// Extract returns bits [lo, lo+size) of e.
func Extract(e Term, lo, size uint) Term {
	return Term{kind: kindExtract, sort: SortBitVec, size: size, operand: e, lo: lo}
}

// ZExtend zero-extends e up to the given total width.
func ZExtend(e Term, size uint) Term {
	return Term{kind: kindZExtend, sort: SortBitVec, size: size, operand: e}
}

// Ite builds a bit-vector if-then-else of the given width.
func Ite(size uint, cond, then, els Term) Term {
	return Term{kind: kindIte, sort: SortBitVec, size: size, cond: cond, then_: then, els: els}
}

// Eq returns a boolean term asserting bit-vector or array equality.
func Eq(a, b Term) Term {
	if a.sort == SortArray {
		return Term{kind: kindArrayEq, sort: SortBool, left: a, right: b}
	}
	return Term{kind: kindCompare, sort: SortBool, op: "=", left: a, right: b}
}

// Uge returns the unsigned-greater-or-equal comparison.
func Uge(a, b Term) Term {
	return Term{kind: kindCompare, sort: SortBool, op: "bvuge", left: a, right: b}
}

// Sge returns the signed-greater-or-equal comparison. Used by BSH's
// shift-direction test, which this translator evaluates as a signed
// comparison against zero.
func Sge(a, b Term) Term {
	return Term{kind: kindCompare, sort: SortBool, op: "bvsge", left: a, right: b}
}

// BoolNot negates a boolean term, e.g. the result of Eq or Uge. Used by
// the equivalence-checking primitive to assert that two translations'
// outputs differ.
func BoolNot(a Term) Term {
	return Term{kind: kindBoolNot, sort: SortBool, operand: a}
}

// Select reads one byte from arr at idx.
func Select(arr, idx Term) Term {
	return Term{kind: kindSelect, sort: SortBitVec, size: 8, array: arr, idx: idx}
}

// Store returns a new array term equal to arr except at idx, which holds
// val. It does not mutate arr or register anything with a solver; it is
// a pure expression, exactly like SMT-LIB's (store a i v).
func Store(arr, idx, val Term) Term {
	return Term{kind: kindStore, sort: SortArray, size: arr.size, array: arr, idx: idx, val: val}
}

// String renders t as SMT-LIBv2 text.
func (t Term) String() string {
	switch t.kind {
	case kindBitVecVar, kindArrayVar:
		return t.name
	case kindBitVecLit:
		return formatLiteral(t.size, t.value)
	case kindBinary:
		return fmt.Sprintf("(%s %s %s)", t.op, t.left, t.right)
	case kindUnary:
		return fmt.Sprintf("(%s %s)", t.op, t.operand)
	case kindExtract:
		hi := t.lo + t.size - 1
		return fmt.Sprintf("((_ extract %d %d) %s)", hi, t.lo, t.operand)
	case kindZExtend:
		extra := t.size - t.operand.size
		return fmt.Sprintf("((_ zero_extend %d) %s)", extra, t.operand)
	case kindIte:
		return fmt.Sprintf("(ite %s %s %s)", t.cond, t.then_, t.els)
	case kindCompare:
		return fmt.Sprintf("(%s %s %s)", t.op, t.left, t.right)
	case kindSelect:
		return fmt.Sprintf("(select %s %s)", t.array, t.idx)
	case kindStore:
		return fmt.Sprintf("(store %s %s %s)", t.array, t.idx, t.val)
	case kindArrayEq:
		return fmt.Sprintf("(= %s %s)", t.left, t.right)
	case kindBoolNot:
		return fmt.Sprintf("(not %s)", t.operand)
	default:
		return "(_ unknown_term)"
	}
}

// Sexpr is an alias for String, for call sites that want to make clear
// they are requesting the SMT-LIBv2 s-expression rather than a
// human-facing label.
func (t Term) Sexpr() string { return t.String() }

func formatLiteral(size uint, value uint64) string {
	if size%4 == 0 && size > 0 {
		digits := int(size / 4)
		if size < 64 {
			value &= (uint64(1) << size) - 1
		}
		return fmt.Sprintf("#x%0*x", digits, value)
	}

	var b strings.Builder
	b.WriteString("#b")
	for i := int(size) - 1; i >= 0; i-- {
		if value&(uint64(1)<<uint(i)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
