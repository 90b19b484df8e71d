package reil_test

import (
	"testing"

	"github.com/barfgo/reil/reil"
)

func TestMnemonicRoundTrip(t *testing.T) {
	all := []reil.Mnemonic{
		reil.ADD, reil.SUB, reil.MUL, reil.DIV, reil.MOD, reil.BSH,
		reil.AND, reil.OR, reil.XOR,
		reil.LDM, reil.STM, reil.STR,
		reil.BISZ, reil.JCC,
		reil.UNKN, reil.UNDEF, reil.NOP, reil.RET,
	}

	seen := make(map[string]reil.Mnemonic)
	for _, m := range all {
		s := m.String()
		if other, dup := seen[s]; dup && other != m {
			t.Errorf("to_string not injective: %v and %v both render %q", m, other, s)
		}
		seen[s] = m

		got, ok := reil.ParseMnemonic(s)
		if !ok {
			t.Fatalf("ParseMnemonic(%q) failed to parse round-tripped mnemonic", s)
		}
		if got != m {
			t.Errorf("ParseMnemonic(String(%v)) = %v, want %v", m, got, m)
		}
	}

	if len(all) != 18 {
		t.Fatalf("expected 18 mnemonics in the closed set, got %d", len(all))
	}
}

func TestParseMnemonicRejectsUnknown(t *testing.T) {
	if _, ok := reil.ParseMnemonic("frobnicate"); ok {
		t.Fatal("ParseMnemonic accepted a string outside the closed set")
	}
}

func TestArityOf(t *testing.T) {
	cases := []struct {
		m    reil.Mnemonic
		want reil.Arity
	}{
		{reil.ADD, reil.ArityTernary},
		{reil.XOR, reil.ArityTernary},
		{reil.LDM, reil.ArityBinary},
		{reil.JCC, reil.ArityBinary},
		{reil.NOP, reil.ArityNullary},
		{reil.RET, reil.ArityNullary},
	}
	for _, c := range cases {
		got, ok := reil.ArityOf(c.m)
		if !ok {
			t.Fatalf("ArityOf(%v) reported invalid mnemonic", c.m)
		}
		if got != c.want {
			t.Errorf("ArityOf(%v) = %v, want %v", c.m, got, c.want)
		}
	}

	if _, ok := reil.ArityOf(reil.Mnemonic(999)); ok {
		t.Fatal("ArityOf accepted an out-of-range mnemonic")
	}
}
