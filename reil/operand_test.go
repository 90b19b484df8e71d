package reil_test

import (
	"testing"

	"github.com/barfgo/reil/reil"
)

func TestOperandEqualityIsStructural(t *testing.T) {
	cases := []struct {
		name     string
		a, b     reil.Operand
		wantSame bool
	}{
		{"same immediate", reil.Immediate(5, 32), reil.Immediate(5, 32), true},
		{"different value", reil.Immediate(5, 32), reil.Immediate(6, 32), false},
		{"different size", reil.Immediate(5, 32), reil.Immediate(5, 16), false},
		{"same register", reil.Register("eax", 32), reil.Register("eax", 32), true},
		{"different name", reil.Register("eax", 32), reil.Register("ebx", 32), false},
		{"register vs immediate", reil.Register("eax", 32), reil.Immediate(0, 32), false},
		{"two empties", reil.Empty, reil.Empty, true},
		{"empty vs immediate", reil.Empty, reil.Immediate(0, 32), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Equal(c.b); got != c.wantSame {
				t.Errorf("%v.Equal(%v) = %v, want %v", c.a, c.b, got, c.wantSame)
			}
		})
	}
}

func TestImmediateNormalization(t *testing.T) {
	cases := []struct {
		value int64
		size  uint
		want  uint64
	}{
		{3, 8, 3},
		{-1, 8, 0xFF},
		{-1, 16, 0xFFFF},
		{-2, 8, 0xFE},
		{256, 8, 0}, // 256 mod 2^8 == 0
		{0xBEEF, 16, 0xBEEF},
	}

	for _, c := range cases {
		op := reil.ImmediateSigned(c.value, c.size)
		if op.Value() != c.want {
			t.Errorf("ImmediateSigned(%d, %d).Value() = 0x%x, want 0x%x", c.value, c.size, op.Value(), c.want)
		}
	}
}

func TestEmptyHasNoSize(t *testing.T) {
	if reil.Empty.Size() != 0 {
		t.Errorf("Empty.Size() = %d, want 0", reil.Empty.Size())
	}
	if !reil.Empty.IsEmpty() {
		t.Error("Empty.IsEmpty() = false")
	}
}
