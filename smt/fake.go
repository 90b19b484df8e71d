package smt

import "fmt"

// RecordingBackend is an in-memory Backend that never shells out to a
// real solver. It records every declaration and assertion it sees and
// always reports CheckSat as Sat. translator's unit tests use it so they
// can assert on the exact SMT-LIBv2 text produced for one instruction
// without a solver binary on the test machine.
type RecordingBackend struct {
	BitVecs    []string // declare-const names, in declaration order
	Arrays     []string
	Assertions []string // rendered (assert ...) bodies, in order
	Resets     int

	closed bool
}

// NewRecordingBackend returns a ready-to-use RecordingBackend.
func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{}
}

// MkBitVec implements Backend.
func (b *RecordingBackend) MkBitVec(size uint, name string) (Term, error) {
	if b.closed {
		return Term{}, newError("declare-const", fmt.Errorf("backend closed"))
	}
	b.BitVecs = append(b.BitVecs, name)
	return BitVecVar(size, name), nil
}

// MkArray implements Backend.
func (b *RecordingBackend) MkArray(addrSize uint, name string) (Term, error) {
	if b.closed {
		return Term{}, newError("declare-const", fmt.Errorf("backend closed"))
	}
	b.Arrays = append(b.Arrays, name)
	return ArrayVar(addrSize, name), nil
}

// Assert implements Backend.
func (b *RecordingBackend) Assert(t Term) error {
	if b.closed {
		return newError("assert", fmt.Errorf("backend closed"))
	}
	b.Assertions = append(b.Assertions, t.String())
	return nil
}

// CheckSat implements Backend. A RecordingBackend has no decision
// procedure of its own; it always reports Sat.
func (b *RecordingBackend) CheckSat() (Result, error) {
	return Sat, nil
}

// Reset implements Backend.
func (b *RecordingBackend) Reset(full bool) error {
	b.Resets++
	b.Assertions = nil
	if full {
		b.BitVecs = nil
		b.Arrays = nil
	}
	return nil
}

// Close implements Backend.
func (b *RecordingBackend) Close() error {
	b.closed = true
	return nil
}
