package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meetupgraph/meetupgraph/graphs"
	"github.com/meetupgraph/meetupgraph/meetup"
)

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <cypher>",
		Short: "Run a query and print the raw rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(store graphs.GraphStore) error {
				text, err := a.newService(store).Query(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if text == "" {
					fmt.Fprintln(cmd.OutOrStdout(), meetup.TextReply(text).Content)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}
