package feed

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlePublisher/internal/domain"
)

var testSite = Site{
	URL:         "https://blog.example.org/",
	Title:       "Example Blog",
	Description: "Статьи о рекламе",
	Language:    "ru",
	ImagePath:   "logo.jpeg",
	ImageTitle:  "Example",
}

var lastBuildExpr = regexp.MustCompile(`<lastBuildDate>[^<]*</lastBuildDate>`)

func ledgerOf(n int) []domain.ArticleRecord {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.ArticleRecord, 0, n)
	for i := n - 1; i >= 0; i-- {
		records = append(records, domain.ArticleRecord{
			ID:       fmt.Sprintf("article-%02d", i),
			Title:    fmt.Sprintf("Article %d", i),
			Excerpt:  fmt.Sprintf("Excerpt %d", i),
			Category: "guides",
			Date:     domain.DateOf(start.AddDate(0, 0, i)),
			ReadTime: "5 мин",
		})
	}
	return records
}

func TestRenderRSSCapsAtTwentyNewestFirst(t *testing.T) {
	t.Parallel()

	ledger := ledgerOf(25)
	rss, err := RenderRSS(testSite, ledger, time.Now())
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(rss))
	require.NoError(t, err)
	require.Len(t, parsed.Items, 20)
	for i, item := range parsed.Items {
		assert.Equal(t, ledger[i].Title, item.Title)
		assert.Equal(t, "https://blog.example.org/article.html?id="+ledger[i].ID, item.Link)
		assert.Equal(t, item.Link, item.GUID)
		assert.Equal(t, ledger[i].Excerpt, item.Description)
		assert.Equal(t, []string{"guides"}, item.Categories)
	}
	assert.Equal(t, "Example Blog", parsed.Title)
	assert.Equal(t, "ru", parsed.Language)
	require.NotNil(t, parsed.Image)
	assert.Equal(t, "https://blog.example.org/logo.jpeg", parsed.Image.URL)
}

func TestRenderRSSPublishTimeIsNoonPlusThree(t *testing.T) {
	t.Parallel()

	ledger := []domain.ArticleRecord{{ID: "a", Title: "A", Date: domain.Date{Year: 2025, Month: time.December, Day: 11}}}
	rss, err := RenderRSS(testSite, ledger, time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(rss), "<pubDate>Thu, 11 Dec 2025 12:00:00 +0300</pubDate>")
	assert.Contains(t, string(rss), `<atom:link href="https://blog.example.org/rss.xml" rel="self" type="application/rss+xml"></atom:link>`)
	assert.True(t, strings.HasPrefix(string(rss), `<?xml version="1.0" encoding="UTF-8"?>`))
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	ledger := ledgerOf(7)
	first, err := Render(testSite, ledger, time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := Render(testSite, ledger, time.Date(2026, time.March, 9, 17, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, string(first.Sitemap), string(second.Sitemap))
	assert.NotEqual(t, string(first.RSS), string(second.RSS))
	assert.Equal(t,
		lastBuildExpr.ReplaceAllString(string(first.RSS), ""),
		lastBuildExpr.ReplaceAllString(string(second.RSS), ""))
}

func TestRenderSitemapCompleteness(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 25} {
		sitemap, err := RenderSitemap(testSite, ledgerOf(n), time.Now())
		require.NoError(t, err)
		assert.Equal(t, n+2, strings.Count(string(sitemap), "<url>"), "ledger of %d", n)
	}
}

func TestRenderSitemapPolicy(t *testing.T) {
	t.Parallel()

	ledger := ledgerOf(2)
	sitemap, err := RenderSitemap(testSite, ledger, time.Now())
	require.NoError(t, err)
	text := string(sitemap)

	assert.Contains(t, text, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, text, "<loc>https://blog.example.org/</loc>\n    <lastmod>2026-01-02</lastmod>\n    <changefreq>weekly</changefreq>\n    <priority>1.0</priority>")
	assert.Contains(t, text, "<loc>https://blog.example.org/blog.html</loc>\n    <lastmod>2026-01-02</lastmod>\n    <changefreq>daily</changefreq>\n    <priority>0.9</priority>")
	assert.Contains(t, text, "<loc>https://blog.example.org/article.html?id=article-00</loc>\n    <lastmod>2026-01-01</lastmod>\n    <changefreq>monthly</changefreq>\n    <priority>0.7</priority>")
}

func TestRenderSitemapEmptyLedgerUsesBuildDate(t *testing.T) {
	t.Parallel()

	builtAt := time.Date(2026, time.May, 4, 22, 30, 0, 0, time.UTC)
	sitemap, err := RenderSitemap(testSite, nil, builtAt)
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<lastmod>2026-05-05</lastmod>", "build date is taken in UTC+3")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	ledger := ledgerOf(22)
	docs, err := Render(testSite, ledger, time.Now())
	require.NoError(t, err)
	require.NoError(t, Verify(testSite, ledger, docs.RSS, docs.Sitemap))

	stale := ledgerOf(3)
	staleDocs, err := Render(testSite, stale, time.Now())
	require.NoError(t, err)
	assert.Error(t, Verify(testSite, ledger, staleDocs.RSS, docs.Sitemap))
	assert.Error(t, Verify(testSite, ledger, docs.RSS, staleDocs.Sitemap))
	assert.Error(t, Verify(testSite, ledger, []byte("not xml"), docs.Sitemap))
}
