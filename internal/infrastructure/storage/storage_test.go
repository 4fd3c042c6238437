package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlePublisher/internal/domain"
)

func sampleRecord(id string) domain.ArticleRecord {
	return domain.ArticleRecord{
		ID:         id,
		Title:      "Гайд по TON <для> маркетологов",
		Excerpt:    "Коротко & по делу",
		Category:   "guides",
		Date:       domain.Date{Year: 2026, Month: time.March, Day: 1},
		ReadTime:   "7 мин",
		ContentRef: id + ".html",
	}
}

func TestLedgerLoadMissingFile(t *testing.T) {
	t.Parallel()

	ledger := NewLedgerFile(filepath.Join(t.TempDir(), "articles", "articles.json"))
	records, err := ledger.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestLedgerSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "articles", "articles.json")
	ledger := NewLedgerFile(path)

	records := Prepend([]domain.ArticleRecord{sampleRecord("old")}, sampleRecord("new"))
	require.NoError(t, ledger.Save(ctx, records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, `"contentRef": "new.html"`)
	assert.Contains(t, text, `"date": "2026-03-01"`)
	assert.Contains(t, text, "Гайд по TON <для> маркетологов", "no unicode or HTML escaping")
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"id\": \"new\""), text)

	loaded, err := ledger.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")
}

func TestLedgerLoadLegacyContentKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "articles.json")
	legacy := `[{"id":"a-20250101-1200","title":"T","excerpt":"E","category":"cases","date":"2025-01-01","readTime":"5 мин","content":"a-20250101-1200.html"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	records, err := NewLedgerFile(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a-20250101-1200.html", records[0].ContentRef)
	assert.Equal(t, "2025-01-01", records[0].Date.String())
}

func TestLedgerLoadCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "articles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewLedgerFile(path).Load(context.Background())
	require.Error(t, err)
}

func TestLedgerLock(t *testing.T) {
	t.Parallel()

	ledger := NewLedgerFile(filepath.Join(t.TempDir(), "articles.json"))
	unlock, err := ledger.Lock(context.Background())
	require.NoError(t, err)
	require.NoError(t, unlock())

	unlock, err = ledger.Lock(context.Background())
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestPrependDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	base := make([]domain.ArticleRecord, 1, 4)
	base[0] = sampleRecord("a")
	out := Prepend(base, sampleRecord("b"))
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "a", base[0].ID)
}

func TestBodyDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "articles")
	bodies := NewBodyDir(dir)

	ref, err := bodies.WriteBody(context.Background(), "some-id", "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "some-id.html", ref)

	raw, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(raw))

	_, err = bodies.WriteBody(context.Background(), "../escape", "x")
	require.Error(t, err)
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rss.xml")
	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(raw))
}

func TestJournalRecordAndRecent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal, err := OpenJournal(ctx, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, journal.Record(ctx, domain.Publication{
			ID:          id,
			Title:       "Title " + id,
			Category:    "guides",
			Source:      domain.SourceFallback,
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, journal.Record(ctx, domain.Publication{
		ID:          "second",
		Title:       "Title second",
		Category:    "guides",
		Source:      domain.SourceProvider,
		PublishedAt: base.Add(time.Hour),
	}))

	recent, err := journal.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].ID)
	assert.Equal(t, "second", recent[1].ID)
	assert.Equal(t, domain.SourceProvider, recent[1].Source)
	assert.True(t, recent[0].PublishedAt.Equal(base.Add(2*time.Hour)))
}
