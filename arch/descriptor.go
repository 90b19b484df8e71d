// Package arch describes the register model of a target architecture to
// the translator package. It is consumed by translator.Translator and
// provided by whichever disassembler/lifter front end lifts machine code
// for a given architecture; this module treats that front end as an
// external collaborator and ships exactly one concrete descriptor (x86-64)
// to exercise the interface.
package arch

// RegisterAccess describes how an alias register name projects onto a
// wider base register: the alias occupies operand.size bits of Base,
// starting at bit Shift. Mask is the alias's bit mask within Base
// (informational — Shift and the alias's own operand size already
// determine the affected range, but architecture descriptors
// conventionally publish the mask too).
type RegisterAccess struct {
	Base  string
	Mask  uint64
	Shift uint
}

// Descriptor answers the two questions the translator needs about a
// target architecture's registers, plus its pointer width.
type Descriptor interface {
	// AddressSize returns the architecture's pointer width in bits. LDM
	// source operands and STM destination operands must match this
	// width.
	AddressSize() uint

	// RegisterSize returns the bit-width of a base register (the widest
	// register its aliases project onto). ok is false if name is not a known base
	// register for this architecture.
	RegisterSize(name string) (size uint, ok bool)

	// Access returns the (base, mask, shift) triple for an alias
	// register name. ok is false when name has no alias mapping — the
	// translator then treats it as a first-class independent symbol of
	// its own declared size.
	Access(name string) (access RegisterAccess, ok bool)
}
