package reillint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/barfgo/reil/reil"
)

// ReferenceKind identifies how a symbol is used at one position.
type ReferenceKind int

const (
	RefDefine        ReferenceKind = iota // Register written.
	RefRead                               // Register read as a value operand.
	RefMemoryAddress                      // Register read as an LDM/STM address.
	RefBranchTarget                       // Register read as a JCC target.
)

func (r ReferenceKind) String() string {
	switch r {
	case RefDefine:
		return "define"
	case RefRead:
		return "read"
	case RefMemoryAddress:
		return "memory-address"
	case RefBranchTarget:
		return "branch-target"
	default:
		return "unknown"
	}
}

// Reference is one use of a Symbol at a specific instruction.
type Reference struct {
	Kind    ReferenceKind
	Index   int
	Address uint64
	HasAddr bool
}

// Symbol is a register name and everywhere it is defined or used across
// a translated sequence.
type Symbol struct {
	Name           string
	Size           uint
	Definitions    []*Reference
	References     []*Reference
	IsBranchTarget bool
	IsMemoryAddr   bool
}

// XRefGenerator builds a register cross-reference over a decoded REIL
// instruction sequence. Where the teacher's generator resolves assembly
// labels, this one resolves SSA register names: every ADD/SUB/.../STR
// destination is a "definition", every source operand naming that
// register elsewhere is a "reference".
type XRefGenerator struct {
	symbols map[string]*Symbol
}

// NewXRefGenerator returns an empty generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate walks instructions and returns the resulting symbol table.
func (x *XRefGenerator) Generate(instructions []*reil.Instruction) map[string]*Symbol {
	for idx, ins := range instructions {
		reads, writes := registerRoles(ins)
		for _, op := range writes {
			x.record(op, RefDefine, idx, ins)
		}
		for _, op := range reads {
			kind := RefRead
			switch ins.Mnemonic {
			case reil.LDM:
				kind = RefMemoryAddress
			case reil.STM:
				if op.Equal(ins.Dst()) {
					kind = RefMemoryAddress
				}
			case reil.JCC:
				if op.Equal(ins.Dst()) {
					kind = RefBranchTarget
				}
			}
			x.record(op, kind, idx, ins)
		}
	}
	return x.symbols
}

func (x *XRefGenerator) record(op reil.Operand, kind ReferenceKind, idx int, ins *reil.Instruction) {
	sym, ok := x.symbols[op.Name()]
	if !ok {
		sym = &Symbol{Name: op.Name(), Size: op.Size()}
		x.symbols[op.Name()] = sym
	}
	ref := &Reference{Kind: kind, Index: idx, Address: ins.Address, HasAddr: ins.HasAddr}
	switch kind {
	case RefDefine:
		sym.Definitions = append(sym.Definitions, ref)
	case RefMemoryAddress:
		sym.IsMemoryAddr = true
		sym.References = append(sym.References, ref)
	case RefBranchTarget:
		sym.IsBranchTarget = true
		sym.References = append(sym.References, ref)
	default:
		sym.References = append(sym.References, ref)
	}
}

// GetSymbols returns the full symbol table built by Generate.
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetUndefinedSymbols returns symbols that are referenced but never
// defined in the sequence — typically a register's incoming value, but
// worth surfacing since it can also mean a definition was dropped.
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range x.symbols {
		if len(sym.Definitions) == 0 && len(sym.References) > 0 {
			out = append(out, sym)
		}
	}
	sortSymbols(out)
	return out
}

// GetUnusedSymbols returns symbols that are defined but never read
// again, which usually means a dead computation.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range x.symbols {
		if len(sym.Definitions) > 0 && len(sym.References) == 0 {
			out = append(out, sym)
		}
	}
	sortSymbols(out)
	return out
}

func sortSymbols(syms []*Symbol) {
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name < syms[j].Name })
}

// XRefReport renders a symbol table as a text report.
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport sorts symbols by name for stable reporting.
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	list := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		list = append(list, sym)
	}
	sortSymbols(list)
	return &XRefReport{symbols: list}
}

func (r *XRefReport) String() string {
	var sb strings.Builder
	sb.WriteString("Register Cross-Reference\n")
	sb.WriteString("=========================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-20s (%d bits)", sym.Name, sym.Size))
		switch {
		case sym.IsBranchTarget:
			sb.WriteString(" [branch-target]")
		case sym.IsMemoryAddr:
			sb.WriteString(" [memory-address]")
		}
		sb.WriteString("\n")

		if len(sym.Definitions) == 0 {
			sb.WriteString("  defined:    (never, incoming value)\n")
		} else {
			lines := make([]string, len(sym.Definitions))
			for i, d := range sym.Definitions {
				lines[i] = fmt.Sprintf("%d", d.Index)
			}
			sb.WriteString(fmt.Sprintf("  defined:    instr %s\n", strings.Join(lines, ", ")))
		}

		if len(sym.References) == 0 {
			sb.WriteString("  referenced: (never)\n")
		} else {
			lines := make([]string, len(sym.References))
			for i, ref := range sym.References {
				lines[i] = fmt.Sprintf("%d(%s)", ref.Index, ref.Kind)
			}
			sb.WriteString(fmt.Sprintf("  referenced: %s\n", strings.Join(lines, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// GenerateXRef is a convenience wrapper around XRefGenerator for callers
// that only want the rendered report.
func GenerateXRef(instructions []*reil.Instruction) string {
	gen := NewXRefGenerator()
	symbols := gen.Generate(instructions)
	return NewXRefReport(symbols).String()
}
