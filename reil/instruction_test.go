package reil_test

import (
	"strings"
	"testing"

	"github.com/barfgo/reil/reil"
)

func TestFormatShowsSizeByDefault(t *testing.T) {
	b := reil.NewBuilder()
	ins, err := b.Add(reil.Immediate(3, 32), reil.Immediate(5, 32), reil.Register("t", 64))
	if err != nil {
		t.Fatal(err)
	}

	s := ins.String()
	if !strings.HasPrefix(s, "add") {
		t.Errorf("expected string to start with mnemonic, got %q", s)
	}
	if !strings.Contains(s, "DWORD") || !strings.Contains(s, "QWORD") {
		t.Errorf("expected size tags in default formatting, got %q", s)
	}
}

func TestFormatterWithoutSize(t *testing.T) {
	b := reil.NewBuilder()
	ins, err := b.Add(reil.Immediate(3, 32), reil.Immediate(5, 32), reil.Register("t", 64))
	if err != nil {
		t.Fatal(err)
	}

	f := reil.NewFormatter(false)
	s := f.Format(ins)
	if strings.Contains(s, "DWORD") || strings.Contains(s, "QWORD") {
		t.Errorf("expected no size tags when ShowSize=false, got %q", s)
	}
}

func TestDualInstructionEqualityIgnoresIR(t *testing.T) {
	b := reil.NewBuilder()
	i1, _ := b.Nop()
	i2, _ := b.Ret()

	d1 := &reil.DualInstruction{Address: 0x1000, AsmInstr: "mov eax, 1", IRInstrs: []*reil.Instruction{i1}}
	d2 := &reil.DualInstruction{Address: 0x1000, AsmInstr: "mov eax, 1", IRInstrs: []*reil.Instruction{i2}}

	if !d1.Equal(d2) {
		t.Error("expected DualInstruction equality based on (address, asm) only")
	}

	d3 := &reil.DualInstruction{Address: 0x1004, AsmInstr: "mov eax, 1", IRInstrs: []*reil.Instruction{i1}}
	if d1.Equal(d3) {
		t.Error("expected inequality for differing address")
	}
}
