package translator_test

import (
	"strings"
	"testing"

	"github.com/barfgo/reil/arch"
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/smt"
	"github.com/barfgo/reil/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noAliasArch is a minimal Descriptor with no register aliasing, used by
// tests that only care about plain symbolic names.
type noAliasArch struct{ addr uint }

func (a noAliasArch) AddressSize() uint                              { return a.addr }
func (a noAliasArch) RegisterSize(name string) (uint, bool)          { return 0, false }
func (a noAliasArch) Access(name string) (arch.RegisterAccess, bool) { return arch.RegisterAccess{}, false }

func newTranslator(t *testing.T, descriptor arch.Descriptor) (*translator.Translator, *smt.RecordingBackend) {
	t.Helper()
	backend := smt.NewRecordingBackend()
	tr, err := translator.New(backend, descriptor)
	require.NoError(t, err, "New should build a translator over a fresh RecordingBackend")
	return tr, backend
}

func TestAddWidensToDestination(t *testing.T) {
	tr, backend := newTranslator(t, noAliasArch{addr: 64})
	b := reil.NewBuilder()

	ins, err := b.Add(reil.Register("t0", 8), reil.Register("t1", 8), reil.Register("t2", 32))
	require.NoError(t, err, "Add")
	_, err = tr.Translate(ins)
	require.NoError(t, err, "Translate")

	require.Len(t, backend.Assertions, 1)
	got := backend.Assertions[0]
	assert.Contains(t, got, "zero_extend", "ADD widening should zero-extend the narrower sources")
	assert.Contains(t, got, "bvadd")
}

func TestSubRegisterWritePreservesRestOfBase(t *testing.T) {
	tr, backend := newTranslator(t, arch.NewX86_64())
	b := reil.NewBuilder()

	ins, err := b.Str(reil.Immediate(0xBEEF, 16), reil.Register("ax", 16))
	require.NoError(t, err, "Str")
	_, err = tr.Translate(ins)
	require.NoError(t, err, "Translate")

	// One move assertion plus one preservation assertion per untouched
	// byte of the 64-bit base register outside bits [0,16).
	require.Len(t, backend.Assertions, 7, "1 move + 6 preserved bytes")

	joined := strings.Join(backend.Assertions, "\n")
	assert.Contains(t, joined, "extract 15 0", "expected an extract of bits [0,16) of rax_1")
	// Bytes [16,64) of rax must be asserted unchanged across the write.
	for _, hi := range []string{"extract 23 16", "extract 31 24", "extract 39 32", "extract 47 40", "extract 55 48", "extract 63 56"} {
		assert.Contains(t, joined, hi, "missing preservation constraint for %s", hi)
	}
}

func TestBshPositiveShiftsLeftNegativeShiftsRight(t *testing.T) {
	tr, backend := newTranslator(t, noAliasArch{addr: 64})
	b := reil.NewBuilder()

	ins, err := b.Bsh(reil.Register("t0", 32), reil.Register("t1", 32), reil.Register("t2", 32))
	require.NoError(t, err, "Bsh")
	_, err = tr.Translate(ins)
	require.NoError(t, err, "Translate")

	got := backend.Assertions[0]
	assert.Contains(t, got, "bvsge")
	assert.Contains(t, got, "bvshl")
	assert.Contains(t, got, "bvlshr")
	assert.Contains(t, got, "bvneg")
}

func TestStoreThenLoadRoundTripsThroughMemoryVersioning(t *testing.T) {
	tr, backend := newTranslator(t, noAliasArch{addr: 32})
	b := reil.NewBuilder()

	stm, err := b.Stm(reil.Register("val", 8), reil.Register("addr", 32))
	require.NoError(t, err, "Stm")
	_, err = tr.Translate(stm)
	require.NoError(t, err, "Translate(stm)")

	require.Len(t, backend.Arrays, 2, "MEM_0 and MEM_1 should both be declared")
	assert.Equal(t, "MEM_1", backend.Arrays[1])
	assert.Contains(t, backend.Assertions[0], "store MEM_0", "STM assertion should store into MEM_0")

	ldm, err := b.Ldm(reil.Register("addr", 32), reil.Register("loaded", 8))
	require.NoError(t, err, "Ldm")
	_, err = tr.Translate(ldm)
	require.NoError(t, err, "Translate(ldm)")
	assert.Contains(t, backend.Assertions[1], "select MEM_1", "LDM after STM should read from MEM_1")
}

func TestDivRequiresEqualWidths(t *testing.T) {
	tr, _ := newTranslator(t, noAliasArch{addr: 64})

	// reil.Builder already rejects this at construction time; build the
	// instruction directly to exercise the translator's own width check.
	ins := &reil.Instruction{Mnemonic: reil.DIV, Operands: [3]reil.Operand{
		reil.Register("t0", 32), reil.Register("t1", 32), reil.Register("t2", 16),
	}}
	_, err := tr.Translate(ins)
	assert.Error(t, err, "Translate should reject DIV with unequal operand widths")
}

func TestBiszMapsZeroToOne(t *testing.T) {
	tr, backend := newTranslator(t, noAliasArch{addr: 64})
	b := reil.NewBuilder()

	ins, err := b.Bisz(reil.Register("flag", 32), reil.Register("zf", 8))
	require.NoError(t, err, "Bisz")
	_, err = tr.Translate(ins)
	require.NoError(t, err, "Translate")

	got := backend.Assertions[0]
	assert.Contains(t, got, "ite")
	assert.Contains(t, got, "#x01")
	assert.Contains(t, got, "#x00")
}

func TestUnknownMnemonicIsRejectedWithNoPartialAssertions(t *testing.T) {
	tr, backend := newTranslator(t, noAliasArch{addr: 64})

	ins := &reil.Instruction{Mnemonic: reil.UNKN}
	_, err := tr.Translate(ins)
	require.Error(t, err, "Translate(UNKN) should fail")
	assert.Empty(t, backend.Assertions, "a failed translation must not leave assertions behind")
}

func TestResetClearsSsaVersioning(t *testing.T) {
	tr, backend := newTranslator(t, noAliasArch{addr: 64})
	b := reil.NewBuilder()

	ins, err := b.Str(reil.Immediate(1, 8), reil.Register("t0", 8))
	require.NoError(t, err, "Str")
	_, err = tr.Translate(ins)
	require.NoError(t, err, "Translate")
	assert.Equal(t, "t0_1", tr.CurrentName("t0"))

	require.NoError(t, tr.Reset())
	assert.Equal(t, "t0_0", tr.CurrentName("t0"), "CurrentName(t0) after Reset")
	assert.Empty(t, backend.Assertions, "Reset should clear assertions")
	assert.NotZero(t, backend.Resets, "Reset should invoke the backend's Reset")
}
