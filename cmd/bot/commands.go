package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgard/tickbot/internal/bot"
	"github.com/edgard/tickbot/internal/clock"
	"github.com/edgard/tickbot/internal/config"
	"github.com/edgard/tickbot/internal/logger"
	"github.com/edgard/tickbot/internal/twitter"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	dryRun     bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "tickbot",
		Short: "Reply to recent mentions or tweet the current time",
		Long: `tickbot performs one pass: it verifies the account, replies to mentions
from the last interval that match a reply rule, and tweets the current time
when nothing was answered. Run it from an external scheduler.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath, "Path to configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log replies and statuses instead of posting them")

	root.AddCommand(newVerifyCmd(opts), newVersionCmd())
	return root
}

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify credentials and print account statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			_, err = b.Verify(cmd.Context())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func runSession(ctx context.Context, opts *rootOptions) error {
	b, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}

// setup loads the configuration, initializes logging and wires the bot.
func setup(ctx context.Context, opts *rootOptions) (*bot.Bot, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dryRun {
		cfg.Bot.DryRun = true
	}
	if opts.logLevel != "" {
		cfg.Logger.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Debug("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	formatter, err := clock.NewFormatter(cfg.Bot.Timezone, nil)
	if err != nil {
		return nil, err
	}

	client := twitter.New(ctx, cfg.Credentials, twitter.Options{
		RequestTimeout: cfg.Twitter.RequestTimeout,
		MentionsCount:  cfg.Twitter.MentionsCount,
	}, log)

	if cfg.Bot.DryRun {
		log.Info("Dry run enabled, nothing will be posted")
	}

	return bot.NewBot(log, cfg, client, formatter), nil
}
