package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meetupgraph/meetupgraph/graphs"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the graph description of every MET relationship",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(store graphs.GraphStore) error {
				description, err := a.newService(store).Export(cmd.Context())
				if err != nil {
					return err
				}

				if output != "" {
					return os.WriteFile(output, []byte(description+"\n"), 0o644)
				}
				fmt.Fprintln(cmd.OutOrStdout(), description)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the description to a file instead of standard output")

	return cmd
}
