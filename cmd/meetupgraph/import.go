package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/attendance"
	"github.com/meetupgraph/meetupgraph/graphs"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		keep     bool
		pairwise bool
		noHeader bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load an attendance CSV into the graph store",
		Long: `Load an attendance CSV into the graph store.

The fourth column names the event and every following non-empty column
names an attendee. Every pair of attendees of an event is merged as a MET
relationship. The store is emptied first unless --keep is given. Without a
file the CSV is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return a.withStore(cmd.Context(), func(store graphs.GraphStore) error {
				importer := attendance.NewImporter(store,
					attendance.WithReset(!keep),
					attendance.WithPairwise(pairwise),
					attendance.WithHeader(!noHeader),
					attendance.WithLogger(a.logger.Named("import")),
				)

				stats, err := importer.Import(cmd.Context(), in)
				if err != nil {
					return err
				}

				a.logger.Info("import finished",
					zap.Int("rows", stats.Rows),
					zap.Int("groups", stats.Groups),
					zap.Int("pairs", stats.Pairs),
					zap.Int("skipped", stats.Skipped))
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows, %d pairs\n", stats.Rows, stats.Pairs)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "keep the existing graph instead of deleting it first")
	cmd.Flags().BoolVar(&pairwise, "pairwise", false, "merge one pair per statement instead of one group per statement")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "treat the first row as data")

	return cmd
}
