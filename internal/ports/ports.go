package ports

import (
	"context"
	"time"

	"ArticlePublisher/internal/domain"
)

// ContentProvider turns a topic into an article draft (e.g., xAI chat completions).
type ContentProvider interface {
	Draft(ctx context.Context, topic, category string) (domain.ArticleDraft, error)
}

// LedgerStore persists the ordered article ledger, newest first.
type LedgerStore interface {
	Load(ctx context.Context) ([]domain.ArticleRecord, error)
	Save(ctx context.Context, records []domain.ArticleRecord) error
	// Lock takes the exclusive writer lock; the returned func releases it.
	Lock(ctx context.Context) (func() error, error)
}

// BodyStore writes article body fragments and returns the ledger reference.
type BodyStore interface {
	WriteBody(ctx context.Context, id string, body string) (string, error)
}

// Journal keeps an append-only history of publications.
type Journal interface {
	Record(ctx context.Context, publication domain.Publication) error
	Recent(ctx context.Context, limit int) ([]domain.Publication, error)
}

// Notifier announces freshly published articles (Telegram, etc.).
type Notifier interface {
	AnnounceArticle(ctx context.Context, record domain.ArticleRecord, link string) error
}

// Scheduler controls when publishing runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
