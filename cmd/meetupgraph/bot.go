package main

import (
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"github.com/meetupgraph/meetupgraph/graphs"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve the graph, graphquery and query slash commands on Discord",
		Long: `Serve the graph, graphquery and query slash commands on Discord.

Requires DISCORD_TOKEN. Commands are registered in DISCORD_GUILD_ID, or
globally when it is unset. The bot runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.config.DiscordToken == "" {
				return ErrMissingDiscordToken
			}

			session, err := discordgo.New("Bot " + a.config.DiscordToken)
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), func(store graphs.GraphStore) error {
				if err := store.HealthCheck(cmd.Context()); err != nil {
					return err
				}

				b := &bot{
					session:        session,
					handler:        a.newService(store),
					guildID:        a.config.DiscordGuildID,
					requestTimeout: a.config.RequestTimeout,
					logger:         a.logger.Named("discord"),
				}
				return b.run(cmd.Context())
			})
		},
	}
}
