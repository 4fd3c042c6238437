package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ArticlePublisher/internal/catalog"
	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/content"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/feed"
	"ArticlePublisher/internal/infrastructure/llm"
	"ArticlePublisher/internal/infrastructure/scheduler"
	"ArticlePublisher/internal/infrastructure/storage"
	"ArticlePublisher/internal/infrastructure/telegram"
	"ArticlePublisher/internal/logging"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/selector"
	"ArticlePublisher/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	ledger    *storage.LedgerFile
	journal   *storage.SQLiteJournal
	publisher *usecase.Publisher
}

// New builds a runnable application instance. The journal database is opened
// here when configured; call Close when done.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	loc := cfg.Scheduler.Location()
	now := func() time.Time { return time.Now().In(loc) }

	var provider ports.ContentProvider
	client, err := llm.NewClient(cfg.Provider)
	switch {
	case err == nil:
		provider = client
	case errors.Is(err, llm.ErrNotConfigured):
		baseLogger.Warn("XAI_API_KEY is not set, articles will use the fallback template")
	default:
		return nil, fmt.Errorf("content provider: %w", err)
	}

	a := &Application{
		cfg:    cfg,
		logger: baseLogger,
		ledger: storage.NewLedgerFile(cfg.Paths.LedgerFile),
	}

	var journal ports.Journal
	if cfg.Journal.Path != "" {
		a.journal, err = storage.OpenJournal(ctx, cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		journal = a.journal
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	a.publisher = usecase.NewPublisher(usecase.PublisherDeps{
		Ledger:   a.ledger,
		Bodies:   storage.NewBodyDir(cfg.Paths.ArticlesDir),
		Selector: selector.New(catalog.Default, nil, now),
		Content: content.NewService(
			provider,
			content.NewFallback(cfg.Site.Brand, nil),
			baseLogger.With("component", "content"),
		),
		Site: SiteFromConfig(cfg),
		Artifacts: usecase.ArtifactPaths{
			RSS:     cfg.Paths.RSSFile,
			Sitemap: cfg.Paths.SitemapFile,
		},
		Journal:  journal,
		Notifier: notifier,
		Logger:   baseLogger.With("component", "publisher"),
		Now:      now,
	})
	return a, nil
}

// SiteFromConfig maps configuration onto the feed renderer's site description.
func SiteFromConfig(cfg config.Config) feed.Site {
	return feed.Site{
		URL:         cfg.Site.URL,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Language:    cfg.Site.Language,
		ImagePath:   cfg.Site.Image,
		ImageTitle:  cfg.Site.Brand,
		MaxItems:    cfg.Feed.MaxItems,
		Zone:        cfg.Feed.Zone(),
		PublishHour: cfg.Feed.PublishHour,
	}
}

// Close releases the journal database.
func (a *Application) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// Run performs a single publishing run.
func (a *Application) Run(ctx context.Context) (usecase.Result, error) {
	return a.publisher.Publish(ctx)
}

// Render regenerates the RSS feed and sitemap from the ledger.
func (a *Application) Render(ctx context.Context) (int, error) {
	return a.publisher.Rebuild(ctx)
}

// Remaining reports unused topics per category.
func (a *Application) Remaining(ctx context.Context) (map[string]int, error) {
	return a.publisher.Remaining(ctx)
}

// Check verifies the persisted RSS feed and sitemap against the ledger.
func (a *Application) Check(ctx context.Context) (int, error) {
	records, err := a.ledger.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}
	rss, err := os.ReadFile(a.cfg.Paths.RSSFile)
	if err != nil {
		return 0, fmt.Errorf("read rss: %w", err)
	}
	sitemap, err := os.ReadFile(a.cfg.Paths.SitemapFile)
	if err != nil {
		return 0, fmt.Errorf("read sitemap: %w", err)
	}
	if err := feed.Verify(SiteFromConfig(a.cfg), records, rss, sitemap); err != nil {
		return 0, err
	}
	return len(records), nil
}

// History lists the latest journal entries.
func (a *Application) History(ctx context.Context, limit int) ([]domain.Publication, error) {
	if a.journal == nil {
		return nil, fmt.Errorf("journal is disabled (set journal.path)")
	}
	return a.journal.Recent(ctx, limit)
}

// Schedule runs the publisher on the configured cron expression until ctx is done.
func (a *Application) Schedule(ctx context.Context) error {
	spec := a.cfg.Scheduler.CronExpression
	if err := scheduler.Validate(spec); err != nil {
		return err
	}

	driver := scheduler.NewCronScheduler(spec, a.cfg.Scheduler.Location(), a.logger.With("component", "scheduler"))
	runner := usecase.NewScheduler(driver, a.publisher, a.logger.With("component", "scheduler"))
	if err := runner.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return runner.Stop(stopCtx)
}
