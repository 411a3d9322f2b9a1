package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sunpack/boxline/internal/config"
	"github.com/sunpack/boxline/internal/notify"
	"github.com/sunpack/boxline/internal/notify/discord"
	"github.com/sunpack/boxline/internal/notify/slack"
	"github.com/sunpack/boxline/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		trace      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Boxline API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, trace)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "boxline.yaml", "path to Boxline config file")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default: from config)")
	cmd.Flags().BoolVar(&trace, "trace-access", false, "log access engine decisions")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, trace bool) error {
	gormDB, cfg, err := openDB(configPath)
	if err != nil {
		return err
	}

	notifier, err := buildNotifier(cfg.Notify)
	if err != nil {
		return err
	}
	defer notifier.Close()

	if port == 0 {
		port = cfg.Server.Port
	}

	var accessLog *log.Logger
	if trace {
		accessLog = log.New(cmd.ErrOrStderr(), "access ", log.LstdFlags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := server.StartOpts{
		DB:         gormDB,
		Port:       port,
		Out:        cmd.OutOrStdout(),
		Notifier:   notifier,
		DigestCron: cfg.Server.DigestCron,
	}
	if accessLog != nil {
		opts.Log = accessLog
	}
	return server.Start(ctx, opts)
}

// buildNotifier assembles the configured chat notifiers. With nothing
// configured, events are discarded.
func buildNotifier(cfg config.NotifyConfig) (notify.Notifier, error) {
	var targets notify.Multi
	if cfg.SlackToken != "" {
		targets = append(targets, slack.New(cfg.SlackToken, cfg.SlackChannel))
	}
	if cfg.DiscordToken != "" {
		d, err := discord.New(cfg.DiscordToken, cfg.DiscordChannel)
		if err != nil {
			return nil, err
		}
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		return notify.Nop{}, nil
	}
	return targets, nil
}
