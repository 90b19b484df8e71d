package cmd

import (
	"fmt"
	"strings"

	"github.com/barfgo/reil/loader"
	"github.com/barfgo/reil/reil"
	"github.com/barfgo/reil/reillint"
	"github.com/barfgo/reil/smt"
	"github.com/barfgo/reil/translator"
	"github.com/spf13/cobra"
)

var (
	equivInputs  string
	equivOutputs string
)

var equivCmd = &cobra.Command{
	Use:   "equiv <a.reil> <b.reil>",
	Short: "Check whether two REIL sequences compute the same outputs from the same inputs",
	Long: `equiv translates two REIL instruction sequences against a shared set of
input symbols and asks the solver to prove their outputs always agree.

Every register in each sequence is renamed to a sequence-private name
before translation, so the two sequences cannot accidentally collide
on an internal temporary; the --inputs list then re-links the named
registers across both sequences so they denote the same incoming
value. The solver is asked whether any input assignment makes an
--outputs register disagree between the two sequences: unsat means
the sequences are equivalent over that input/output contract, sat
means they are not. Only the verdict is printed; no counterexample
model is retrieved from the solver.`,
	Args: cobra.ExactArgs(2),
	RunE: runEquiv,
}

func init() {
	equivCmd.Flags().StringVar(&equivInputs, "inputs", "", "comma-separated register names shared as inputs (default: inferred as names read-before-written in both sequences)")
	equivCmd.Flags().StringVar(&equivOutputs, "outputs", "", "comma-separated register names to compare as outputs (default: inferred as names written in both sequences)")
}

const (
	equivSuffixA = "$a"
	equivSuffixB = "$b"
)

func runEquiv(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	progA, errs := loader.LoadFile(args[0])
	if errs.HasErrors() {
		return errs
	}
	progB, errs := loader.LoadFile(args[1])
	if errs.HasErrors() {
		return errs
	}

	inputs, outputs, err := equivContract(progA.Instructions, progB.Instructions)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		return fmt.Errorf("no output register is defined in both sequences; pass --outputs explicitly")
	}

	sizes := registerSizes(progA.Instructions, progB.Instructions)

	backend, err := backendForSolving(cfg)
	if err != nil {
		return fmt.Errorf("start solver: %w", err)
	}
	defer backend.Close()

	descriptor := descriptorFor(cfg)
	t, err := translator.New(backend, descriptor)
	if err != nil {
		return fmt.Errorf("build translator: %w", err)
	}

	if err := translateRenamed(t, progA.Instructions, equivSuffixA); err != nil {
		return fmt.Errorf("translate %s: %w", args[0], err)
	}
	if err := translateRenamed(t, progB.Instructions, equivSuffixB); err != nil {
		return fmt.Errorf("translate %s: %w", args[1], err)
	}

	for _, name := range inputs {
		size := sizes[name]
		a := smt.BitVecVar(size, t.InitName(name+equivSuffixA))
		b := smt.BitVecVar(size, t.InitName(name+equivSuffixB))
		if err := backend.Assert(smt.Eq(a, b)); err != nil {
			return fmt.Errorf("assert shared input %s: %w", name, err)
		}
	}

	var disagreements []smt.Term
	for _, name := range outputs {
		size := sizes[name]
		a := smt.BitVecVar(size, t.CurrentName(name+equivSuffixA))
		b := smt.BitVecVar(size, t.CurrentName(name+equivSuffixB))
		differs := smt.BoolNot(smt.Eq(a, b))
		disagreements = append(disagreements, smt.Ite(1, differs, smt.BitVecLit(1, 1), smt.BitVecLit(1, 0)))
	}
	disagree := disagreements[0]
	for _, d := range disagreements[1:] {
		disagree = smt.Or(disagree, d)
	}
	if err := backend.Assert(smt.Eq(disagree, smt.BitVecLit(1, 1))); err != nil {
		return fmt.Errorf("assert output disagreement: %w", err)
	}

	result, err := backend.CheckSat()
	if err != nil {
		return fmt.Errorf("check-sat: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "inputs:  %s\n", strings.Join(inputs, ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "outputs: %s\n", strings.Join(outputs, ", "))
	switch result {
	case smt.Unsat:
		fmt.Fprintln(cmd.OutOrStdout(), "equivalent: no input makes the outputs disagree")
	case smt.Sat:
		fmt.Fprintln(cmd.OutOrStdout(), "not equivalent: solver found an input where outputs disagree")
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "unknown: solver could not decide")
	}
	return nil
}

// equivContract infers the shared input and output register sets from
// the two sequences' own cross-reference tables, unless --inputs or
// --outputs overrides it. Inputs are names read-before-written (i.e.
// incoming values) in both sequences; outputs are names written in
// both.
func equivContract(a, b []*reil.Instruction) (inputs, outputs []string, err error) {
	if equivInputs != "" {
		inputs = splitNames(equivInputs)
	} else {
		inputs = intersectNames(undefinedNames(a), undefinedNames(b))
	}
	if equivOutputs != "" {
		outputs = splitNames(equivOutputs)
	} else {
		outputs = intersectNames(definedNames(a), definedNames(b))
	}
	return inputs, outputs, nil
}

func splitNames(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func undefinedNames(instructions []*reil.Instruction) map[string]bool {
	gen := reillint.NewXRefGenerator()
	symbols := gen.Generate(instructions)
	names := make(map[string]bool)
	for name, sym := range symbols {
		if len(sym.References) == 0 {
			continue
		}
		// A read in the same instruction as the first write still sees the
		// incoming value: sources are translated before the destination.
		if len(sym.Definitions) == 0 || sym.References[0].Index <= sym.Definitions[0].Index {
			names[name] = true
		}
	}
	return names
}

func definedNames(instructions []*reil.Instruction) map[string]bool {
	gen := reillint.NewXRefGenerator()
	symbols := gen.Generate(instructions)
	names := make(map[string]bool)
	for name, sym := range symbols {
		if len(sym.Definitions) > 0 {
			names[name] = true
		}
	}
	return names
}

func intersectNames(a, b map[string]bool) []string {
	var out []string
	for name := range a {
		if b[name] {
			out = append(out, name)
		}
	}
	return out
}

func registerSizes(sequences ...[]*reil.Instruction) map[string]uint {
	sizes := make(map[string]uint)
	for _, instructions := range sequences {
		for _, ins := range instructions {
			for _, op := range ins.Operands {
				if op.Kind() == reil.KindRegister {
					sizes[op.Name()] = op.Size()
				}
			}
		}
	}
	return sizes
}

// translateRenamed translates a copy of instructions with every register
// operand suffixed, so its symbol names cannot collide with another
// sequence translated into the same solver context.
func translateRenamed(t *translator.Translator, instructions []*reil.Instruction, suffix string) error {
	builder := reil.NewBuilder()
	for _, ins := range instructions {
		renamed := [3]reil.Operand{}
		for i, op := range ins.Operands {
			if op.Kind() == reil.KindRegister {
				renamed[i] = reil.Register(op.Name()+suffix, op.Size())
			} else {
				renamed[i] = op
			}
		}
		built, err := builder.Build(ins.Mnemonic, renamed[0], renamed[1], renamed[2])
		if err != nil {
			return err
		}
		if _, err := t.Translate(built); err != nil {
			return err
		}
	}
	return nil
}
