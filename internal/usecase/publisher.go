package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ArticlePublisher/internal/catalog"
	"ArticlePublisher/internal/content"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/feed"
	"ArticlePublisher/internal/infrastructure/storage"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/selector"
	"ArticlePublisher/internal/slug"
)

// ArtifactPaths locates the derived documents on disk.
type ArtifactPaths struct {
	RSS     string
	Sitemap string
}

// PublisherDeps wires all driven adapters into the publishing workflow.
type PublisherDeps struct {
	Ledger    ports.LedgerStore
	Bodies    ports.BodyStore
	Selector  *selector.Selector
	Content   *content.Service
	Site      feed.Site
	Artifacts ArtifactPaths
	Journal   ports.Journal
	Notifier  ports.Notifier
	Logger    *slog.Logger
	Now       func() time.Time
}

// Publisher implements the generate-and-publish workflow.
type Publisher struct {
	ledger    ports.LedgerStore
	bodies    ports.BodyStore
	selector  *selector.Selector
	content   *content.Service
	site      feed.Site
	artifacts ArtifactPaths
	journal   ports.Journal
	notifier  ports.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// Result describes one completed publishing run.
type Result struct {
	Record      domain.ArticleRecord
	Source      domain.DraftSource
	LedgerSize  int
	ArticleLink string
}

// NewPublisher constructs the orchestration component.
func NewPublisher(deps PublisherDeps) *Publisher {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	sel := deps.Selector
	if sel == nil {
		sel = selector.New(catalog.Default, nil, now)
	}
	svc := deps.Content
	if svc == nil {
		svc = content.NewService(nil, nil, deps.Logger)
	}
	return &Publisher{
		ledger:    deps.Ledger,
		bodies:    deps.Bodies,
		selector:  sel,
		content:   svc,
		site:      deps.Site,
		artifacts: deps.Artifacts,
		journal:   deps.Journal,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
		now:       now,
	}
}

// Publish selects a topic, obtains a draft, stores its body, prepends the
// record to the ledger and regenerates the RSS feed and sitemap. The whole
// load-modify-save sequence runs under the ledger lock.
func (p *Publisher) Publish(ctx context.Context) (Result, error) {
	if p.ledger == nil || p.bodies == nil {
		return Result{}, fmt.Errorf("publisher is not configured")
	}

	unlock, err := p.ledger.Lock(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("lock ledger: %w", err)
	}
	defer func() {
		if uErr := unlock(); uErr != nil {
			p.warn("release ledger lock", "error", uErr)
		}
	}()

	records, err := p.ledger.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load ledger: %w", err)
	}
	p.info("ledger loaded", "articles", len(records))

	pair, err := p.selector.Select(records)
	if err != nil {
		return Result{}, fmt.Errorf("select topic: %w", err)
	}
	p.info("topic selected", "category", pair.Category, "topic", pair.Topic)

	draft, source := p.content.Obtain(ctx, pair.Topic, pair.Category)
	p.info("draft obtained", "source", source, "title", draft.Title)

	now := p.now()
	id := UniqueID(slug.MakeID(draft.Title, now), records)

	ref, err := p.bodies.WriteBody(ctx, id, draft.Body)
	if err != nil {
		return Result{}, fmt.Errorf("store body: %w", err)
	}

	record := domain.ArticleRecord{
		ID:         id,
		Title:      draft.Title,
		Excerpt:    draft.Excerpt,
		Category:   pair.Category,
		Date:       domain.DateOf(now),
		ReadTime:   draft.ReadTime,
		ContentRef: ref,
	}
	if record.ReadTime == "" {
		record.ReadTime = "7 мин"
	}

	records = storage.Prepend(records, record)
	if err := p.ledger.Save(ctx, records); err != nil {
		return Result{}, fmt.Errorf("save ledger: %w", err)
	}

	if err := p.writeArtifacts(records, now); err != nil {
		return Result{}, err
	}

	result := Result{
		Record:      record,
		Source:      source,
		LedgerSize:  len(records),
		ArticleLink: p.site.ArticleLink(record.ID),
	}
	p.info("article published", "id", record.ID, "articles", result.LedgerSize)

	p.sideChannels(ctx, result, now)
	return result, nil
}

// Rebuild regenerates the derived artifacts from the persisted ledger only.
func (p *Publisher) Rebuild(ctx context.Context) (int, error) {
	if p.ledger == nil {
		return 0, fmt.Errorf("publisher is not configured")
	}

	unlock, err := p.ledger.Lock(ctx)
	if err != nil {
		return 0, fmt.Errorf("lock ledger: %w", err)
	}
	defer func() { _ = unlock() }()

	records, err := p.ledger.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}
	if err := p.writeArtifacts(records, p.now()); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Remaining reports unused topics per category for the current ledger.
func (p *Publisher) Remaining(ctx context.Context) (map[string]int, error) {
	records, err := p.ledger.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return p.selector.Remaining(records), nil
}

func (p *Publisher) writeArtifacts(records []domain.ArticleRecord, builtAt time.Time) error {
	docs, err := feed.Render(p.site, records, builtAt)
	if err != nil {
		return fmt.Errorf("render feeds: %w", err)
	}
	if err := storage.WriteFileAtomic(p.artifacts.RSS, docs.RSS, 0o644); err != nil {
		return fmt.Errorf("write rss: %w", err)
	}
	if err := storage.WriteFileAtomic(p.artifacts.Sitemap, docs.Sitemap, 0o644); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	p.info("feeds regenerated", "rss", p.artifacts.RSS, "sitemap", p.artifacts.Sitemap)
	return nil
}

func (p *Publisher) sideChannels(ctx context.Context, result Result, now time.Time) {
	if p.journal != nil {
		err := p.journal.Record(ctx, domain.Publication{
			ID:          result.Record.ID,
			Title:       result.Record.Title,
			Category:    result.Record.Category,
			Source:      result.Source,
			PublishedAt: now,
		})
		if err != nil {
			p.warn("journal record failed", "id", result.Record.ID, "error", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.AnnounceArticle(ctx, result.Record, result.ArticleLink); err != nil {
			p.warn("announcement failed", "id", result.Record.ID, "error", err)
		}
	}
}

// UniqueID returns id unchanged unless the ledger already holds it, in which
// case a short random suffix is appended.
func UniqueID(id string, records []domain.ArticleRecord) string {
	taken := make(map[string]bool, len(records))
	for _, record := range records {
		taken[record.ID] = true
	}
	candidate := id
	for taken[candidate] {
		candidate = id + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	}
	return candidate
}

func (p *Publisher) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Publisher) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
