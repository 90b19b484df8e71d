package smt

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// ProcessBackend drives a real SMT-LIBv2 solver (z3, cvc5, boolector, ...)
// as a long-running subprocess, writing commands to its stdin and
// reading responses from its stdout. The solver is an external
// collaborator this package never reimplements; ProcessBackend is the
// thin protocol adapter between Term/Backend and solver text.
type ProcessBackend struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *bufio.Reader

	mu       sync.Mutex
	declared map[string]bool
}

// ProcessBackendOptions configures the solver subprocess to launch.
type ProcessBackendOptions struct {
	// Path is the solver executable, e.g. "z3" or "cvc5".
	Path string
	// Args are the arguments passed to Path. When Args is empty,
	// NewProcessBackend passes "-in" (read SMT-LIB commands from stdin);
	// otherwise Args are passed as given and "-in" is not added, so callers
	// that need different solver flags retain full control.
	Args []string
}

// NewProcessBackend starts the solver subprocess described by opts and
// puts it in SMT-LIBv2 interactive mode.
func NewProcessBackend(opts ProcessBackendOptions) (*ProcessBackend, error) {
	args := opts.Args
	if len(args) == 0 {
		args = []string{"-in"}
	}

	cmd := exec.Command(opts.Path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, newError("start", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, newError("start", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		return nil, newError("start", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, newError("start", err)
	}

	pb := &ProcessBackend{
		cmd:      cmd,
		stdin:    stdin,
		stdout:   bufio.NewReader(stdout),
		stderr:   bufio.NewReader(stderr),
		declared: make(map[string]bool),
	}

	if err := pb.send("(set-logic QF_ABV)"); err != nil {
		pb.Close()
		return nil, err
	}
	return pb, nil
}

func (pb *ProcessBackend) send(cmd string) error {
	if _, err := io.WriteString(pb.stdin, cmd+"\n"); err != nil {
		return newError("write", err)
	}
	return nil
}

// MkBitVec implements Backend.
func (pb *ProcessBackend) MkBitVec(size uint, name string) (Term, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if pb.declared[name] {
		return Term{}, newError("declare-const", fmt.Errorf("symbol %q already declared", name))
	}
	cmd := fmt.Sprintf("(declare-const %s (_ BitVec %d))", name, size)
	if err := pb.send(cmd); err != nil {
		return Term{}, err
	}
	pb.declared[name] = true
	return BitVecVar(size, name), nil
}

// MkArray implements Backend.
func (pb *ProcessBackend) MkArray(addrSize uint, name string) (Term, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if pb.declared[name] {
		return Term{}, newError("declare-const", fmt.Errorf("symbol %q already declared", name))
	}
	cmd := fmt.Sprintf("(declare-const %s (Array (_ BitVec %d) (_ BitVec 8)))", name, addrSize)
	if err := pb.send(cmd); err != nil {
		return Term{}, err
	}
	pb.declared[name] = true
	return ArrayVar(addrSize, name), nil
}

// Assert implements Backend.
func (pb *ProcessBackend) Assert(t Term) error {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.send(fmt.Sprintf("(assert %s)", t))
}

// CheckSat implements Backend.
func (pb *ProcessBackend) CheckSat() (Result, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if err := pb.send("(check-sat)"); err != nil {
		return Unknown, err
	}
	line, err := pb.stdout.ReadString('\n')
	if err != nil {
		return Unknown, newError("check-sat", err)
	}
	switch strings.TrimSpace(line) {
	case "sat":
		return Sat, nil
	case "unsat":
		return Unsat, nil
	default:
		return Unknown, nil
	}
}

// Reset implements Backend. A full reset sends (reset), clears the local
// declaration set and sets the QF_ABV logic again; a partial reset sends
// (reset-assertions) and keeps declarations. There is no fallback for a
// solver that does not support (reset).
func (pb *ProcessBackend) Reset(full bool) error {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if full {
		if err := pb.send("(reset)"); err != nil {
			return err
		}
		pb.declared = make(map[string]bool)
		return pb.send("(set-logic QF_ABV)")
	}
	return pb.send("(reset-assertions)")
}

// Close implements Backend.
func (pb *ProcessBackend) Close() error {
	pb.stdin.Close()
	return pb.cmd.Wait()
}
