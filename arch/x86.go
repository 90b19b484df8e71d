package arch

// x86Reg describes one alias of an x86-64 base register: its bit width,
// and its (mask, shift) within the 64-bit base. Grounded on the register
// tables in keurnel-assembler's architecture/x86_64/registers.go (RAX,
// EAX, AX, AL, ... each a distinct named Register value), generalized
// here into the REIL-translator "alias projects onto base" shape rather
// than an instruction-encoding operand table.
type x86Reg struct {
	name  string
	size  uint
	shift uint
}

// gpBases lists the 64-bit base registers and the set of aliases that
// project onto each one. The high-byte aliases ah, bh, ch and dh are the
// irregular case: each occupies bits [8,16) of its base — every other
// alias is a simple low-order truncation.
var gpBases = map[string][]x86Reg{
	"rax": {{"rax", 64, 0}, {"eax", 32, 0}, {"ax", 16, 0}, {"al", 8, 0}, {"ah", 8, 8}},
	"rbx": {{"rbx", 64, 0}, {"ebx", 32, 0}, {"bx", 16, 0}, {"bl", 8, 0}, {"bh", 8, 8}},
	"rcx": {{"rcx", 64, 0}, {"ecx", 32, 0}, {"cx", 16, 0}, {"cl", 8, 0}, {"ch", 8, 8}},
	"rdx": {{"rdx", 64, 0}, {"edx", 32, 0}, {"dx", 16, 0}, {"dl", 8, 0}, {"dh", 8, 8}},
	"rsi": {{"rsi", 64, 0}, {"esi", 32, 0}, {"si", 16, 0}, {"sil", 8, 0}},
	"rdi": {{"rdi", 64, 0}, {"edi", 32, 0}, {"di", 16, 0}, {"dil", 8, 0}},
	"rbp": {{"rbp", 64, 0}, {"ebp", 32, 0}, {"bp", 16, 0}, {"bpl", 8, 0}},
	"rsp": {{"rsp", 64, 0}, {"esp", 32, 0}, {"sp", 16, 0}, {"spl", 8, 0}},
	"r8":  {{"r8", 64, 0}, {"r8d", 32, 0}, {"r8w", 16, 0}, {"r8b", 8, 0}},
	"r9":  {{"r9", 64, 0}, {"r9d", 32, 0}, {"r9w", 16, 0}, {"r9b", 8, 0}},
	"r10": {{"r10", 64, 0}, {"r10d", 32, 0}, {"r10w", 16, 0}, {"r10b", 8, 0}},
	"r11": {{"r11", 64, 0}, {"r11d", 32, 0}, {"r11w", 16, 0}, {"r11b", 8, 0}},
	"r12": {{"r12", 64, 0}, {"r12d", 32, 0}, {"r12w", 16, 0}, {"r12b", 8, 0}},
	"r13": {{"r13", 64, 0}, {"r13d", 32, 0}, {"r13w", 16, 0}, {"r13b", 8, 0}},
	"r14": {{"r14", 64, 0}, {"r14d", 32, 0}, {"r14w", 16, 0}, {"r14b", 8, 0}},
	"r15": {{"r15", 64, 0}, {"r15d", 32, 0}, {"r15w", 16, 0}, {"r15b", 8, 0}},
}

// X86_64 is the concrete Descriptor for the x86-64 general-purpose
// register file, built from gpBases above.
type X86_64 struct {
	sizes  map[string]uint
	access map[string]RegisterAccess
}

// NewX86_64 builds the register-size and alias-access tables once from
// gpBases.
func NewX86_64() *X86_64 {
	d := &X86_64{
		sizes:  make(map[string]uint),
		access: make(map[string]RegisterAccess),
	}

	for base, aliases := range gpBases {
		for _, a := range aliases {
			if a.name == base {
				d.sizes[base] = a.size
				continue
			}
			d.access[a.name] = RegisterAccess{
				Base:  base,
				Mask:  maskFor(a.size, a.shift),
				Shift: a.shift,
			}
		}
	}

	return d
}

func maskFor(size, shift uint) uint64 {
	if size >= 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << size) - 1) << shift
}

// AddressSize implements Descriptor.
func (d *X86_64) AddressSize() uint { return 64 }

// RegisterSize implements Descriptor.
func (d *X86_64) RegisterSize(name string) (uint, bool) {
	size, ok := d.sizes[name]
	return size, ok
}

// Access implements Descriptor.
func (d *X86_64) Access(name string) (RegisterAccess, bool) {
	access, ok := d.access[name]
	return access, ok
}

// MustRegisterSize is a convenience for callers (tests, CLI) that already
// know name is a valid base register; it panics otherwise.
func (d *X86_64) MustRegisterSize(name string) uint {
	size, ok := d.RegisterSize(name)
	if !ok {
		panic(newError("unknown base register %q", name))
	}
	return size
}
