package reil

// DualInstruction pairs a machine instruction with its ordered IR
// expansion, keyed by address. AsmInstr is an opaque value supplied by
// the external disassembler/lifter; this module never inspects it, only
// compares it for equality.
type DualInstruction struct {
	Address  uint64
	AsmInstr interface{}
	IRInstrs []*Instruction
}

// Equal compares identity, not content: two DualInstructions are equal
// when they carry the same (address, machine instruction) pair, even if
// their IR expansions differ.
func (d *DualInstruction) Equal(other *DualInstruction) bool {
	if other == nil {
		return false
	}
	return d.Address == other.Address && d.AsmInstr == other.AsmInstr
}
