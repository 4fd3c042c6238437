package content

import (
	"context"
	"log/slog"
	"strings"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
)

// Service obtains drafts from the provider and substitutes the fallback on any failure.
type Service struct {
	provider ports.ContentProvider
	fallback *Fallback
	logger   *slog.Logger
}

// NewService wires the provider (nil means "not configured") with the fallback.
func NewService(provider ports.ContentProvider, fallback *Fallback, logger *slog.Logger) *Service {
	if fallback == nil {
		fallback = NewFallback("", nil)
	}
	return &Service{provider: provider, fallback: fallback, logger: logger}
}

// Obtain always returns a draft. Provider errors are logged and absorbed.
func (s *Service) Obtain(ctx context.Context, topic, category string) (domain.ArticleDraft, domain.DraftSource) {
	if s.provider == nil {
		s.warn("content provider not configured, using fallback", "topic", topic)
		return s.fallback.Draft(topic, category), domain.SourceFallback
	}

	draft, err := s.provider.Draft(ctx, topic, category)
	if err != nil {
		s.warn("content provider failed, using fallback", "topic", topic, "error", err)
		return s.fallback.Draft(topic, category), domain.SourceFallback
	}

	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = topic
	}
	return draft, domain.SourceProvider
}

func (s *Service) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
