package main

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/meetup"
)

// slashCommands are registered with Discord when the bot starts.
var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        meetup.CommandGraph,
		Description: "Draw the people someone has met",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "who",
				Description: "Name of the person",
				Required:    true,
			},
			extraArgsOption(),
		},
	},
	{
		Name:        meetup.CommandGraphQuery,
		Description: "Draw the nodes returned by a Cypher query",
		Options: []*discordgo.ApplicationCommandOption{
			queryOption(),
			extraArgsOption(),
		},
	},
	{
		Name:        meetup.CommandQuery,
		Description: "Run a Cypher query and show the rows",
		Options: []*discordgo.ApplicationCommandOption{
			queryOption(),
		},
	},
}

func queryOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "query",
		Description: "Cypher query",
		Required:    true,
	}
}

func extraArgsOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "extra_args",
		Description: "Additional renderer arguments",
	}
}

// handler is the part of meetup.Service the bot depends on.
type handler interface {
	Handle(ctx context.Context, cmd meetup.Command) meetup.Reply
}

type bot struct {
	session        *discordgo.Session
	handler        handler
	guildID        string
	requestTimeout time.Duration
	logger         *zap.Logger
}

// run connects to the gateway, registers the slash commands and serves
// interactions until ctx is done.
func (b *bot) run(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsGuilds
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("connected to discord", zap.String("user", r.User.Username))
	})
	b.session.AddHandler(b.onInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, slashCommands)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.logger.Info("registered commands",
		zap.Int("count", len(registered)),
		zap.String("guild_id", b.guildID))

	<-ctx.Done()
	b.logger.Info("shutting down")
	return nil
}

func (b *bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.Error("failed to defer response", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.requestTimeout)
	defer cancel()

	reply := b.handler.Handle(ctx, commandFromInteraction(i.ApplicationCommandData()))

	if _, err := s.FollowupMessageCreate(i.Interaction, true, webhookParams(reply)); err != nil {
		b.logger.Error("failed to send reply", zap.Error(err))
	}
}

// commandFromInteraction keeps the string options of a slash command.
func commandFromInteraction(data discordgo.ApplicationCommandInteractionData) meetup.Command {
	cmd := meetup.Command{
		Name:    data.Name,
		Options: make(map[string]string, len(data.Options)),
	}
	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			cmd.Options[opt.Name] = opt.StringValue()
		}
	}
	return cmd
}

func webhookParams(reply meetup.Reply) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{Content: reply.Content}
	for _, f := range reply.Files {
		params.Files = append(params.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: mime.TypeByExtension(filepath.Ext(f.Name)),
			Reader:      bytes.NewReader(f.Data),
		})
	}
	return params
}
