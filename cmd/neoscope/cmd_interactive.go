package main

import (
	"github.com/spf13/cobra"

	"github.com/star/neoscope/internal/shell"
)

const shellIntro = "Explore close approaches of near-Earth objects. Type `help` to list commands and `exit` to exit."

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "interactive",
		Short:       "Start an interactive session that reuses the loaded database",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsDatabase: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, closeTerm := shell.NewTerminal(cmd.OutOrStdout(), a.shellExecutor(), shellIntro, a.logger)
			defer closeTerm()
			return sh.Run()
		},
	}
}

// shellExecutor runs inspect and query lines against the already loaded
// database. Each line gets a fresh command tree so flag values never leak
// from one line to the next.
func (a *app) shellExecutor() shell.Executor {
	return func(args []string) error {
		root := &cobra.Command{
			Use:           "neo",
			SilenceUsage:  true,
			SilenceErrors: true,
		}
		root.CompletionOptions.DisableDefaultCmd = true
		root.SetOut(a.out)
		root.SetErr(a.out)
		root.AddCommand(newInspectCmd(a), newQueryCmd(a))
		root.SetArgs(args)
		return root.Execute()
	}
}
