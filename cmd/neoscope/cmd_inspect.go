package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/star/neoscope/internal/neo"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		designation string
		name        string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:         "inspect",
		Short:       "Inspect a NEO by primary designation or by name",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsDatabase: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				obj *neo.NearEarthObject
				ok  bool
			)
			if cmd.Flags().Changed("pdes") {
				obj, ok = a.db.NEOByDesignation(designation)
			} else {
				obj, ok = a.db.NEOByName(name)
			}

			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "No matching NEOs exist in the database.")
				return nil
			}

			fmt.Fprintln(out, obj)
			if verbose {
				for _, approach := range obj.Approaches {
					fmt.Fprintf(out, "- %s\n", approach)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&designation, "pdes", "", "the primary designation of the NEO to inspect (e.g. '433')")
	cmd.Flags().StringVar(&name, "name", "", "the IAU name of the NEO to inspect (e.g. 'Halley')")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "additionally, print all known close approaches of this NEO")
	cmd.MarkFlagsMutuallyExclusive("pdes", "name")
	cmd.MarkFlagsOneRequired("pdes", "name")
	return cmd
}
