package reil

import (
	"fmt"
	"strings"
)

// sizeTag maps an operand bit-width to BARF's original size annotation
// (reil.py used DQWORD/POINTER/QWORD/.../UNK). Kept as a lookup table,
// not a magic-number switch, so Formatter.Format stays readable.
var sizeTags = map[uint]string{
	128: "DQWORD",
	72:  "POINTER",
	64:  "QWORD",
	40:  "POINTER",
	32:  "DWORD",
	16:  "WORD",
	8:   "BYTE",
	1:   "BIT",
}

// sizeFromTag is the reverse of sizeTags, used by the loader package to
// parse a size-tagged operand back into a bit-width. POINTER is
// ambiguous in the original annotation scheme (it covered both a 40-bit
// and a 72-bit far-pointer representation); this module only ships an
// x86-64 descriptor, so POINTER parses back to 64.
var sizeFromTag = map[string]uint{
	"DQWORD":  128,
	"POINTER": 64,
	"QWORD":   64,
	"DWORD":   32,
	"WORD":    16,
	"BYTE":    8,
	"BIT":     1,
}

// ParseSizeTag returns the bit-width a size tag (DWORD, BYTE, ...)
// denotes, or false if tag is not one this module recognizes.
func ParseSizeTag(tag string) (uint, bool) {
	size, ok := sizeFromTag[tag]
	return size, ok
}

// Formatter renders instructions as text. It replaces a module-level
// show_size flag with an explicit, per-formatter field — two callers can
// disagree about whether to show operand sizes without stepping on each
// other's global state.
type Formatter struct {
	// ShowSize prefixes each non-empty operand with its size tag
	// (DWORD, BYTE, ...), mirroring BARF's "show_size = True" default.
	ShowSize bool
}

var defaultFormatter = Formatter{ShowSize: true}

// NewFormatter returns a Formatter with ShowSize set as requested.
func NewFormatter(showSize bool) *Formatter {
	return &Formatter{ShowSize: showSize}
}

// Format renders ins as "mnemonic [oprnd1, oprnd2, oprnd3]", the same
// shape as ReilInstruction.__str__ in the original implementation.
func (f *Formatter) Format(ins *Instruction) string {
	parts := make([]string, 3)
	for i, op := range ins.Operands {
		parts[i] = f.formatOperand(op)
	}
	return fmt.Sprintf("%-5s [%s]", ins.Mnemonic.String(), strings.Join(parts, ", "))
}

func (f *Formatter) formatOperand(op Operand) string {
	if op.IsEmpty() {
		return op.String()
	}
	if !f.ShowSize {
		return op.String()
	}
	tag, ok := sizeTags[op.Size()]
	if !ok {
		tag = "UNK"
	}
	return fmt.Sprintf("%s %s", tag, op.String())
}
