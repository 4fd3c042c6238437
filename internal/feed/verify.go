package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/mmcdole/gofeed"

	"ArticlePublisher/internal/domain"
)

// Verify checks that persisted artifacts match what the ledger implies:
// the feed parses and lists the newest records in ledger order, and the
// sitemap has one url per record plus the two static pages.
func Verify(site Site, ledger []domain.ArticleRecord, rss, sitemap []byte) error {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(rss))
	if err != nil {
		return fmt.Errorf("parse rss: %w", err)
	}
	if parsed.FeedType != "rss" {
		return fmt.Errorf("feed type is %q, want rss", parsed.FeedType)
	}

	want := min(len(ledger), site.maxItems())
	if len(parsed.Items) != want {
		return fmt.Errorf("rss has %d items, ledger implies %d", len(parsed.Items), want)
	}
	for i, item := range parsed.Items {
		link := site.ArticleLink(ledger[i].ID)
		if item.Link != link {
			return fmt.Errorf("rss item %d links %s, want %s", i, item.Link, link)
		}
	}

	var set urlSet
	if err := xml.Unmarshal(sitemap, &set); err != nil {
		return fmt.Errorf("parse sitemap: %w", err)
	}
	if len(set.URLs) != len(ledger)+2 {
		return fmt.Errorf("sitemap has %d urls, ledger implies %d", len(set.URLs), len(ledger)+2)
	}
	return nil
}
