package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
)

const publicationsTable = "publications"

// SQLiteJournal keeps the publication history in an embedded SQLite file.
type SQLiteJournal struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Journal = (*SQLiteJournal)(nil)

// OpenJournal opens (or creates) the journal database at path.
func OpenJournal(ctx context.Context, path string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := j.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *SQLiteJournal) init(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS publications (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			category     TEXT NOT NULL,
			source       TEXT NOT NULL,
			published_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_publications_published ON publications(published_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("init journal schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (j *SQLiteJournal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends a publication; re-recording the same id overwrites it.
func (j *SQLiteJournal) Record(ctx context.Context, p domain.Publication) error {
	query, args, err := j.builder.
		Insert(publicationsTable).
		Columns("id", "title", "category", "source", "published_at").
		Values(p.ID, p.Title, p.Category, string(p.Source), p.PublishedAt.Unix()).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			source = excluded.source,
			published_at = excluded.published_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert publication %s: %w", p.ID, err)
	}
	return nil
}

// Recent returns up to limit publications, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]domain.Publication, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := j.builder.
		Select("id", "title", "category", "source", "published_at").
		From(publicationsTable).
		OrderBy("published_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query publications: %w", err)
	}
	defer rows.Close()

	var result []domain.Publication
	for rows.Next() {
		var (
			p        domain.Publication
			source   string
			unixTime int64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &source, &unixTime); err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		p.Source = domain.DraftSource(source)
		p.PublishedAt = time.Unix(unixTime, 0)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}
