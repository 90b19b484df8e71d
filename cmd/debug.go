package cmd

import (
	"fmt"

	"github.com/barfgo/reil/debugger"
	"github.com/barfgo/reil/loader"
	"github.com/barfgo/reil/translator"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug <file.reil>",
	Short: "Step through a REIL program's translation in an interactive TUI",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebug,
}

func runDebug(cmd *cobra.Command, args []string) error {
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
	d := debugger.New(prog, t)
	return debugger.NewTUI(d).Run()
}
