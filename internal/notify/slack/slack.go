// Package slack delivers Gatehouse notifications to a Slack channel.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
	"github.com/vantrevi/gatehouse/internal/notify"
)

// severityColors maps event severity to Slack attachment sidebar colors.
var severityColors = map[string]string{
	notify.SeverityInfo:    "#439fe0",
	notify.SeverityError:   "#d00000",
	notify.SeveritySuccess: "#36a64f",
}

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Notifier implements notify.Notifier for Slack.
type Notifier struct {
	client    slackClient
	channelID string
}

// Opts holds parameters for creating a Notifier.
type Opts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // channel to post to
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// New creates a Slack Notifier.
func New(opts Opts) (*Notifier, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel ID is required")
	}
	client := opts.Client
	if client == nil {
		if opts.BotToken == "" {
			return nil, fmt.Errorf("slack: bot token is required")
		}
		client = slackapi.New(opts.BotToken)
	}
	return &Notifier{client: client, channelID: opts.ChannelID}, nil
}

// Notify implements notify.Notifier. Events render as a colored
// attachment with the title as headline.
func (n *Notifier) Notify(ctx context.Context, ev notify.Event) error {
	color, ok := severityColors[ev.Severity]
	if !ok {
		color = severityColors[notify.SeverityInfo]
	}
	attachment := slackapi.Attachment{
		Color: color,
		Title: ev.Title,
		Text:  ev.Body,
	}
	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}
