package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vantrevi/gatehouse/internal/notify"
)

func newDigestCmd() *cobra.Command {
	var (
		configPath string
		serve      bool
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Post the daily sales digest",
		Long: `Summarizes today's sales from the local log and posts the summary
to the configured notification channel. With --serve it stays running
and fires on the configured cron schedule instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, configPath, serve)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().BoolVar(&serve, "serve", false, "keep running and fire on the cron schedule")
	return cmd
}

func runDigest(cmd *cobra.Command, configPath string, serve bool) error {
	a, err := newApp(cmd, configPath)
	if err != nil {
		return err
	}

	d, err := notify.NewDigest(a.store, a.notifier, a.cfg.Digest.Cron)
	if err != nil {
		return err
	}

	if !serve {
		return d.Fire(cmd.Context())
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if err := d.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
