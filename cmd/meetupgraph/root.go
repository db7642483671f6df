package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/dot"
	"github.com/meetupgraph/meetupgraph/graphs"
	"github.com/meetupgraph/meetupgraph/meetup"
	"github.com/meetupgraph/meetupgraph/render"
)

// app carries what every subcommand needs once the root command has run its
// pre-run hook.
type app struct {
	config *Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "meetupgraph",
		Short: "Track and draw who met whom at meetups",
		Long: `meetupgraph loads meetup attendance sheets into a graph database
and draws the people each attendee has met.

Configuration is read from the environment and from a .env file in the
working directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return err
			}

			logger, err := newLogger(config.LogLevel, config.LogFormat)
			if err != nil {
				return err
			}

			a.config = config
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(
		newImportCmd(a),
		newExportCmd(a),
		newRenderCmd(a),
		newQueryCmd(a),
		newBotCmd(a),
	)

	return rootCmd
}

// withStore opens the configured store, runs fn and closes the store.
func (a *app) withStore(ctx context.Context, fn func(graphs.GraphStore) error) error {
	store, err := openStore(ctx, a.config, a.logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", a.config.Store, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	return fn(store)
}

func (a *app) newRenderer() *render.Renderer {
	return render.New(
		render.WithBinary(a.config.RendererBinary),
		render.WithFormat(a.config.RenderFormat),
		render.WithTimeout(a.config.RenderTimeout),
		render.WithLenient(a.config.RenderLenient),
		render.WithLogger(a.logger.Named("render")),
	)
}

func (a *app) newService(store graphs.GraphStore) *meetup.Service {
	return meetup.NewService(store, a.newRenderer(),
		meetup.WithQueryTimeout(a.config.QueryTimeout),
		meetup.WithMaxRows(a.config.MaxRows),
		meetup.WithDescriptionOptions(dot.WithName(dot.DefaultName)),
		meetup.WithLogger(a.logger.Named("meetup")),
	)
}
