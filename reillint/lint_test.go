package reillint_test

import (
	"testing"

	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/reillint"
)

func instr(t *testing.T) func(*reil.Instruction, error) *reil.Instruction {
	return func(ins *reil.Instruction, err error) *reil.Instruction {
		t.Helper()
		if err != nil {
			t.Fatalf("build instruction: %v", err)
		}
		return ins
	}
}

func TestLintFlagsUnknownInstruction(t *testing.T) {
	b := reil.NewBuilder()
	seq := []*reil.Instruction{instr(t)(b.Unkn())}

	issues := reillint.NewLinter(nil).Lint(seq)
	if len(issues) != 1 || issues[0].Code != "UNKNOWN_INSTRUCTION" {
		t.Fatalf("issues = %v, want one UNKNOWN_INSTRUCTION", issues)
	}
	if issues[0].Level != reillint.LintError {
		t.Errorf("Level = %v, want LintError", issues[0].Level)
	}
}

func TestLintFlagsUnreachableCodeAfterRet(t *testing.T) {
	b := reil.NewBuilder()
	seq := []*reil.Instruction{
		instr(t)(b.Ret()),
		instr(t)(b.Nop()),
	}

	issues := reillint.NewLinter(nil).Lint(seq)
	found := false
	for _, i := range issues {
		if i.Code == "UNREACHABLE_CODE" && i.Index == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("issues = %v, want UNREACHABLE_CODE at index 1", issues)
	}
}

func TestLintDoesNotFlagUnreachableAcrossAddressBoundary(t *testing.T) {
	b := reil.NewBuilder()
	ret := instr(t)(b.Ret())
	ret.Address, ret.HasAddr = 0x1000, true
	nop := instr(t)(b.Nop())
	nop.Address, nop.HasAddr = 0x1004, true

	issues := reillint.NewLinter(nil).Lint([]*reil.Instruction{ret, nop})
	for _, i := range issues {
		if i.Code == "UNREACHABLE_CODE" {
			t.Fatalf("unexpected UNREACHABLE_CODE across a new machine-instruction address: %v", i)
		}
	}
}

func TestLintFlagsReadBeforeWrite(t *testing.T) {
	b := reil.NewBuilder()
	seq := []*reil.Instruction{
		instr(t)(b.Add(reil.Register("t0_0", 32), reil.Immediate(1, 32), reil.Register("t1_0", 32))),
	}

	issues := reillint.NewLinter(nil).Lint(seq)
	found := false
	for _, i := range issues {
		if i.Code == "READ_BEFORE_WRITE" {
			found = true
		}
	}
	if found {
		t.Fatalf("t0_0 is an incoming version-0 name, should not be flagged: %v", issues)
	}

	seq = []*reil.Instruction{
		instr(t)(b.Add(reil.Register("t0_1", 32), reil.Immediate(1, 32), reil.Register("t1_0", 32))),
	}
	issues = reillint.NewLinter(nil).Lint(seq)
	found = false
	for _, i := range issues {
		if i.Code == "READ_BEFORE_WRITE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("t0_1 has no prior write and is not a version-0 name, want READ_BEFORE_WRITE: %v", issues)
	}
}

func TestLintSuggestsSimilarRegisterName(t *testing.T) {
	b := reil.NewBuilder()
	seq := []*reil.Instruction{
		instr(t)(b.Add(reil.Register("counter_0", 32), reil.Immediate(1, 32), reil.Register("counter_1", 32))),
		instr(t)(b.Str(reil.Register("countar_1", 32), reil.Register("t9_0", 32))),
	}

	issues := reillint.NewLinter(nil).Lint(seq)
	for _, i := range issues {
		if i.Code == "READ_BEFORE_WRITE" && i.Index == 1 {
			if !contains(i.Message, "counter_1") {
				t.Errorf("Message = %q, want a suggestion naming counter_1", i.Message)
			}
			return
		}
	}
	t.Fatalf("expected a READ_BEFORE_WRITE issue at index 1, got %v", issues)
}

func TestLintFlagsWidthConflict(t *testing.T) {
	b := reil.NewBuilder()
	seq := []*reil.Instruction{
		instr(t)(b.Add(reil.Register("a_0", 32), reil.Immediate(1, 32), reil.Register("b_0", 32))),
		instr(t)(b.Str(reil.Register("b_0", 16), reil.Register("c_0", 16))),
	}

	issues := reillint.NewLinter(nil).Lint(seq)
	found := false
	for _, i := range issues {
		if i.Code == "WIDTH_CONFLICT" {
			found = true
		}
	}
	if !found {
		t.Fatalf("issues = %v, want a WIDTH_CONFLICT for b_0 (32 then 16 bits)", issues)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
