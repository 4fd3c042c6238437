package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"ArticlePublisher/internal/app"
	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "articlepublisher",
		Short:         "Generate a blog article and refresh the RSS feed and sitemap",
		Long:          "articlepublisher picks an unused topic, drafts an article through the text API (or a local template), appends it to the article ledger and regenerates rss.xml and sitemap.xml.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (default $ARTICLE_PUBLISHER_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging level (error, warn, info, debug)")

	root.AddCommand(
		newGenerateCmd(opts),
		newRenderCmd(opts),
		newTopicsCmd(opts),
		newCheckCmd(opts),
		newHistoryCmd(opts),
		newScheduleCmd(opts),
		newVersionCmd(),
	)
	return root
}

// withApp loads configuration, builds the application and runs fn with a
// context cancelled on SIGINT/SIGTERM.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app.Application) error) error {
	cfg := config.Load(opts.configPath)
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	defer func() {
		if cErr := application.Close(); cErr != nil {
			logger.Warn("close application", "error", cErr)
		}
	}()

	if err := fn(ctx, application); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}

func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	return withApp(cmd, opts, func(ctx context.Context, a *app.Application) error {
		result, err := a.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s, %s)\n%s\n", result.Record.ID, result.Record.Category, result.Source, result.ArticleLink)
		return nil
	})
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Publish one new article and regenerate feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Regenerate rss.xml and sitemap.xml from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.Application) error {
				count, err := a.Render(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rendered feeds for %d articles\n", count)
				return nil
			})
		},
	}
}

func newTopicsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Show how many unused topics remain per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.Application) error {
				remaining, err := a.Remaining(ctx)
				if err != nil {
					return err
				}
				categories := make([]string, 0, len(remaining))
				for category := range remaining {
					categories = append(categories, category)
				}
				sort.Strings(categories)
				for _, category := range categories {
					fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d\n", category, remaining[category])
				}
				return nil
			})
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify rss.xml and sitemap.xml against the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.Application) error {
				count, err := a.Check(ctx)
				if err != nil {
					return fmt.Errorf("feeds are out of sync, run render: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d articles\n", count)
				return nil
			})
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent publications from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.Application) error {
				entries, err := a.History(ctx, limit)
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s  %-12s  %s\n",
						e.PublishedAt.Format("2006-01-02 15:04"), e.Source, e.Category, e.ID)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show")
	return cmd
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Publish on the configured cron expression until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.Application) error {
				return a.Schedule(ctx)
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "articlepublisher %s (commit: %s)\n", version, commit)
		},
	}
}
