package cmd

import (
	"fmt"

	"github.com/barfgo/reil/loader"
	"github.com/barfgo/reil/reillint"
	"github.com/spf13/cobra"
)

var xrefCmd = &cobra.Command{
	Use:   "xref <file.reil>",
	Short: "Cross-reference register definitions and uses in a REIL program",
	Args:  cobra.ExactArgs(1),
	RunE:  runXRef,
}

func runXRef(cmd *cobra.Command, args []string) error {
	prog, errs := loader.LoadFile(args[0])
	if errs.HasErrors() {
		return errs
	}

	fmt.Fprint(cmd.OutOrStdout(), reillint.GenerateXRef(prog.Instructions))

	gen := reillint.NewXRefGenerator()
	gen.Generate(prog.Instructions)
	if undefined := gen.GetUndefinedSymbols(); len(undefined) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Referenced but never defined in this sequence (incoming values):")
		for _, sym := range undefined {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", sym.Name)
		}
	}
	if unused := gen.GetUnusedSymbols(); len(unused) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Defined but never read again:")
		for _, sym := range unused {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", sym.Name)
		}
	}
	return nil
}
