package reil

// Builder generates well-typed REIL instructions. It rejects unknown
// mnemonics and malformed operand lists with a *reil.Error; it never
// silently coerces an operand to make an instruction "work".
type Builder struct{}

// NewBuilder returns a ready-to-use instruction builder. Builder holds no
// state, so the zero value works too; NewBuilder exists for symmetry with
// the rest of the module's constructors.
func NewBuilder() *Builder { return &Builder{} }

// Arithmetic / bitwise (3-operand) instructions.
// ==========================================================================

func (b *Builder) Add(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(ADD, src1, src2, dst)
}

func (b *Builder) Sub(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(SUB, src1, src2, dst)
}

func (b *Builder) Mul(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(MUL, src1, src2, dst)
}

func (b *Builder) Div(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(DIV, src1, src2, dst)
}

func (b *Builder) Mod(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(MOD, src1, src2, dst)
}

func (b *Builder) Bsh(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(BSH, src1, src2, dst)
}

func (b *Builder) And(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(AND, src1, src2, dst)
}

func (b *Builder) Or(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(OR, src1, src2, dst)
}

func (b *Builder) Xor(src1, src2, dst Operand) (*Instruction, error) {
	return b.buildTernary(XOR, src1, src2, dst)
}

// Data transfer / conditional (src, dst) instructions.
// ==========================================================================

func (b *Builder) Ldm(src, dst Operand) (*Instruction, error) {
	return b.buildBinary(LDM, src, dst)
}

func (b *Builder) Stm(src, dst Operand) (*Instruction, error) {
	return b.buildBinary(STM, src, dst)
}

func (b *Builder) Str(src, dst Operand) (*Instruction, error) {
	return b.buildBinary(STR, src, dst)
}

func (b *Builder) Bisz(src, dst Operand) (*Instruction, error) {
	return b.buildBinary(BISZ, src, dst)
}

func (b *Builder) Jcc(src, dst Operand) (*Instruction, error) {
	return b.buildBinary(JCC, src, dst)
}

// Nullary instructions.
// ==========================================================================

func (b *Builder) Unkn() (*Instruction, error) { return b.buildNullary(UNKN) }
func (b *Builder) Undef() (*Instruction, error) { return b.buildNullary(UNDEF) }
func (b *Builder) Nop() (*Instruction, error)   { return b.buildNullary(NOP) }
func (b *Builder) Ret() (*Instruction, error)   { return b.buildNullary(RET) }

// Build constructs an instruction from an explicit three-operand list,
// validating mnemonic and arity the same way the convenience
// constructors above do. It exists for callers (e.g. the loader) that
// already have operands in slot order.
func (b *Builder) Build(m Mnemonic, oprnd1, oprnd2, oprnd3 Operand) (*Instruction, error) {
	arity, ok := ArityOf(m)
	if !ok {
		return nil, newError(ErrInvalidMnemonic, "mnemonic %v is not a valid REIL mnemonic", m)
	}

	switch arity {
	case ArityTernary:
		return b.buildTernary(m, oprnd1, oprnd2, oprnd3)
	case ArityBinary:
		if !oprnd2.IsEmpty() {
			return nil, newError(ErrInvalidOperandArity, "%s requires oprnd2 to be Empty", m)
		}
		return b.buildBinary(m, oprnd1, oprnd3)
	default:
		if !oprnd1.IsEmpty() || !oprnd2.IsEmpty() || !oprnd3.IsEmpty() {
			return nil, newError(ErrInvalidOperandArity, "%s requires all operands to be Empty", m)
		}
		return b.buildNullary(m)
	}
}

func (b *Builder) buildTernary(m Mnemonic, src1, src2, dst Operand) (*Instruction, error) {
	if src1.IsEmpty() || src2.IsEmpty() || dst.IsEmpty() {
		return nil, newError(ErrInvalidOperandArity, "%s requires three non-empty operands", m)
	}
	if dst.Kind() == KindImmediate {
		return nil, newError(ErrInvalidOperandType, "%s: destination operand cannot be an immediate", m)
	}
	if src1.Size() != src2.Size() {
		return nil, newError(ErrWidthMismatch, "%s: size(src1)=%d != size(src2)=%d", m, src1.Size(), src2.Size())
	}
	if m == DIV || m == MOD {
		if src1.Size() != dst.Size() {
			return nil, newError(ErrWidthMismatch, "%s: all operand sizes must match, got src=%d dst=%d", m, src1.Size(), dst.Size())
		}
	}

	return &Instruction{Mnemonic: m, Operands: [3]Operand{src1, src2, dst}}, nil
}

func (b *Builder) buildBinary(m Mnemonic, src, dst Operand) (*Instruction, error) {
	if src.IsEmpty() || dst.IsEmpty() {
		return nil, newError(ErrInvalidOperandArity, "%s requires src and dst to be non-empty", m)
	}
	if dst.Kind() == KindImmediate {
		return nil, newError(ErrInvalidOperandType, "%s: destination operand cannot be an immediate", m)
	}

	return &Instruction{Mnemonic: m, Operands: [3]Operand{src, Empty, dst}}, nil
}

func (b *Builder) buildNullary(m Mnemonic) (*Instruction, error) {
	return &Instruction{Mnemonic: m, Operands: [3]Operand{Empty, Empty, Empty}}, nil
}
