package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meetupgraph/meetupgraph/graphs"
)

var errRenderTarget = errors.New("exactly one of --who and --query is required")

func newRenderCmd(a *app) *cobra.Command {
	var (
		who       string
		query     string
		extraArgs string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the people someone met, or the nodes of a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (who == "") == (query == "") {
				return errRenderTarget
			}

			return a.withStore(cmd.Context(), func(store graphs.GraphStore) error {
				service := a.newService(store)

				var (
					image []byte
					err   error
				)
				if who != "" {
					image, err = service.Graph(cmd.Context(), who, extraArgs)
				} else {
					image, err = service.GraphQuery(cmd.Context(), query, extraArgs)
				}
				if err != nil {
					return err
				}

				if err := os.WriteFile(output, image, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&who, "who", "", "draw the people this person met")
	cmd.Flags().StringVar(&query, "query", "", "draw the nodes returned by this query")
	cmd.Flags().StringVar(&extraArgs, "extra-args", "", "additional renderer arguments, split on whitespace")
	cmd.Flags().StringVarP(&output, "output", "o", "graph.png", "image file to write")

	return cmd
}
