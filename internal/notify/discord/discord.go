// Package discord delivers Gatehouse notifications to a Discord channel.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/vantrevi/gatehouse/internal/notify"
)

// severityColors maps event severity to Discord embed colors.
var severityColors = map[string]int{
	notify.SeverityInfo:    0x439fe0,
	notify.SeverityError:   0xd00000,
	notify.SeveritySuccess: 0x36a64f,
}

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier implements notify.Notifier for Discord.
type Notifier struct {
	session   session
	channelID string
}

// Opts holds parameters for creating a Notifier.
type Opts struct {
	BotToken  string // Discord bot token
	ChannelID string // channel to post to
	// For testing: inject a mock session instead of the real gateway.
	Session session
}

// New creates a Discord Notifier. The underlying session is REST-only;
// no gateway connection is opened for plain message sends.
func New(opts Opts) (*Notifier, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel ID is required")
	}
	s := opts.Session
	if s == nil {
		if opts.BotToken == "" {
			return nil, fmt.Errorf("discord: bot token is required")
		}
		dg, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		s = dg
	}
	return &Notifier{session: s, channelID: opts.ChannelID}, nil
}

// Notify implements notify.Notifier.
func (n *Notifier) Notify(ctx context.Context, ev notify.Event) error {
	color, ok := severityColors[ev.Severity]
	if !ok {
		color = severityColors[notify.SeverityInfo]
	}
	embed := &discordgo.MessageEmbed{
		Title:       ev.Title,
		Description: ev.Body,
		Color:       color,
	}
	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}
