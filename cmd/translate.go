package cmd

import (
	"fmt"

	"github.com/barfgo/reil/loader"
	"github.com/barfgo/reil/translator"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate <file.reil>",
	Short: "Translate a REIL program to SMT-LIBv2 assertions",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	prog, errs := loader.LoadFile(args[0])
	if errs.HasErrors() {
		return errs
	}

	t, err := translator.New(backendForDryRun(), descriptorFor(cfg))
	if err != nil {
		return fmt.Errorf("build translator: %w", err)
	}

	for i, ins := range prog.Instructions {
		terms, err := t.Translate(ins)
		if err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, ins, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "; [%d] %s\n", i, ins)
		for _, term := range terms {
			fmt.Fprintf(cmd.OutOrStdout(), "(assert %s)\n", term)
		}
	}
	return nil
}
