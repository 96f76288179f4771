package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vantrevi/gatehouse/internal/api"
	"github.com/vantrevi/gatehouse/internal/config"
	"github.com/vantrevi/gatehouse/internal/notify"
	"github.com/vantrevi/gatehouse/internal/notify/discord"
	"github.com/vantrevi/gatehouse/internal/notify/slack"
	"github.com/vantrevi/gatehouse/internal/session"
	"github.com/vantrevi/gatehouse/internal/store"
)

// defaultConfigPath is where commands look for the config file unless
// --config says otherwise.
const defaultConfigPath = "gatehouse.yaml"

// app bundles the wired components every command needs: config, local
// state, the session manager, and the backend client. The session
// manager is the client's token source and the client is the manager's
// auth backend, so the two are bound in sequence here and nowhere else.
type app struct {
	cfg      *config.Config
	store    *store.Store
	session  *session.Manager
	client   *api.Client
	notifier notify.Notifier
}

// newApp loads config, opens local state, and hydrates the session.
func newApp(cmd *cobra.Command, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}

	notifier, err := buildNotifier(cfg, cmd)
	if err != nil {
		return nil, err
	}

	mgr := session.NewManager(session.Opts{Store: st, Notifier: notifier})
	client, err := api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Tokens:  mgr,
	})
	if err != nil {
		return nil, err
	}
	mgr.SetAuth(client)

	if mgr.Hydrate() == session.StateAuthenticated {
		if session.Expired(mgr.Token(), time.Now()) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Stored session has expired — run 'gate login' again.")
		}
	}

	return &app{
		cfg:      cfg,
		store:    st,
		session:  mgr,
		client:   client,
		notifier: notifier,
	}, nil
}

// buildNotifier selects the configured notification channel.
func buildNotifier(cfg *config.Config, cmd *cobra.Command) (notify.Notifier, error) {
	switch cfg.Notify.Channel {
	case "slack":
		return slack.New(slack.Opts{
			BotToken:  cfg.Notify.Slack.BotToken,
			ChannelID: cfg.Notify.Slack.ChannelID,
		})
	case "discord":
		return discord.New(discord.Opts{
			BotToken:  cfg.Notify.Discord.BotToken,
			ChannelID: cfg.Notify.Discord.ChannelID,
		})
	default:
		return notify.NewTerminal(cmd.OutOrStdout()), nil
	}
}

// requireAuth errors unless a session is active.
func (a *app) requireAuth() error {
	if a.session.State() != session.StateAuthenticated {
		return fmt.Errorf("not logged in — run 'gate login' first")
	}
	return nil
}

// apiFailure converts a backend error into the message shown to staff,
// dropping a dead session on authorization failures so the next command
// starts clean instead of replaying the same rejected token.
func (a *app) apiFailure(verb string, err error) error {
	if api.IsAuthError(err) {
		a.session.Invalidate()
		return fmt.Errorf("%s: %s — session cleared, run 'gate login' again", verb, api.UserMessage(err))
	}
	return fmt.Errorf("%s: %s", verb, api.UserMessage(err))
}
