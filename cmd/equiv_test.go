package cmd

import (
	"testing"

	"github.com/barfgo/reil/arch"
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
	"github.com/barfgo/reil/translator"
)

func TestEquivContractInfersSharedInputsAndOutputs(t *testing.T) {
	b := reil.NewBuilder()

	addA, err := b.Add(reil.Register("rax", 64), reil.Register("rbx", 64), reil.Register("rcx", 64))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	seqA := []*reil.Instruction{addA}

	subB, err := b.Sub(reil.Register("rax", 64), reil.Register("rbx", 64), reil.Register("rcx", 64))
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	seqB := []*reil.Instruction{subB}

	equivInputs, equivOutputs = "", ""
	inputs, outputs, err := equivContract(seqA, seqB)
	if err != nil {
		t.Fatalf("equivContract: %v", err)
	}

	wantInputs := map[string]bool{"rax": true, "rbx": true}
	if len(inputs) != len(wantInputs) {
		t.Fatalf("inputs = %v, want keys of %v", inputs, wantInputs)
	}
	for _, in := range inputs {
		if !wantInputs[in] {
			t.Errorf("unexpected input %q", in)
		}
	}

	if len(outputs) != 1 || outputs[0] != "rcx" {
		t.Fatalf("outputs = %v, want [rcx]", outputs)
	}
}

func TestEquivContractHonorsExplicitFlags(t *testing.T) {
	b := reil.NewBuilder()
	addA, _ := b.Add(reil.Register("x", 32), reil.Register("y", 32), reil.Register("z", 32))

	equivInputs = "x"
	equivOutputs = "z"
	defer func() { equivInputs, equivOutputs = "", "" }()

	inputs, outputs, err := equivContract([]*reil.Instruction{addA}, []*reil.Instruction{addA})
	if err != nil {
		t.Fatalf("equivContract: %v", err)
	}
	if len(inputs) != 1 || inputs[0] != "x" {
		t.Fatalf("inputs = %v, want [x]", inputs)
	}
	if len(outputs) != 1 || outputs[0] != "z" {
		t.Fatalf("outputs = %v, want [z]", outputs)
	}
}

func TestRegisterSizesCollectsAcrossSequences(t *testing.T) {
	b := reil.NewBuilder()
	addA, _ := b.Add(reil.Register("x", 16), reil.Register("y", 16), reil.Register("z", 16))
	subB, _ := b.Sub(reil.Register("w", 8), reil.Immediate(1, 8), reil.Register("v", 8))

	sizes := registerSizes([]*reil.Instruction{addA}, []*reil.Instruction{subB})
	want := map[string]uint{"x": 16, "y": 16, "z": 16, "w": 8, "v": 8}
	for name, size := range want {
		if sizes[name] != size {
			t.Errorf("sizes[%q] = %d, want %d", name, sizes[name], size)
		}
	}
}

func TestTranslateRenamedAvoidsCollisionsBetweenSequences(t *testing.T) {
	b := reil.NewBuilder()
	addA, _ := b.Add(reil.Register("t0", 32), reil.Register("t1", 32), reil.Register("t0", 32))
	addB, _ := b.Add(reil.Register("t0", 32), reil.Register("t1", 32), reil.Register("t0", 32))

	backend := smt.NewRecordingBackend()
	tr, err := translator.New(backend, noAliasArch{addr: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := translateRenamed(tr, []*reil.Instruction{addA}, equivSuffixA); err != nil {
		t.Fatalf("translateRenamed a: %v", err)
	}
	if err := translateRenamed(tr, []*reil.Instruction{addB}, equivSuffixB); err != nil {
		t.Fatalf("translateRenamed b: %v", err)
	}

	nameA := tr.CurrentName("t0" + equivSuffixA)
	nameB := tr.CurrentName("t0" + equivSuffixB)
	if nameA == nameB {
		t.Fatalf("expected distinct SSA names across sequences, both got %q", nameA)
	}
}

// noAliasArch is a minimal Descriptor with no register aliasing.
type noAliasArch struct{ addr uint }

func (a noAliasArch) AddressSize() uint                     { return a.addr }
func (a noAliasArch) RegisterSize(string) (uint, bool)      { return 0, false }
func (a noAliasArch) Access(string) (arch.RegisterAccess, bool) { return arch.RegisterAccess{}, false }
