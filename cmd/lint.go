package cmd

import (
	"fmt"

	"github.com/barfgo/reil/loader"
	"github.com/barfgo/reil/reillint"
	"github.com/spf13/cobra"
)

var failOnWarning bool

var lintCmd = &cobra.Command{
	Use:   "lint <file.reil>",
	Short: "Statically check a REIL program before translation",
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().BoolVar(&failOnWarning, "fail-on-warning", false, "exit non-zero if any warning-level issue is found, not just errors")
}

func runLint(cmd *cobra.Command, args []string) error {
	prog, errs := loader.LoadFile(args[0])
	if errs.HasErrors() {
		return errs
	}

	issues := reillint.NewLinter(reillint.DefaultLintOptions()).Lint(prog.Instructions)
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no issues found")
		return nil
	}

	hasError := false
	hasWarning := false
	for _, issue := range issues {
		fmt.Fprintln(cmd.OutOrStdout(), issue)
		if issue.Level == reillint.LintError {
			hasError = true
		}
		if issue.Level == reillint.LintWarning {
			hasWarning = true
		}
	}

	if hasError || (failOnWarning && hasWarning) {
		return fmt.Errorf("lint found %d issue(s)", len(issues))
	}
	return nil
}
