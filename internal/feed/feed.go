package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ArticlePublisher/internal/domain"
)

const (
	// DefaultMaxItems caps the number of RSS items.
	DefaultMaxItems = 20

	rssDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"
	atomNamespace = "http://www.w3.org/2005/Atom"
	sitemapNS     = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// Site describes the channel metadata and URL layout of the blog.
type Site struct {
	URL         string
	Title       string
	Description string
	Language    string
	ImagePath   string
	ImageTitle  string
	// MaxItems defaults to 20.
	MaxItems int
	// Zone is the publish-time zone; defaults to UTC+3.
	Zone *time.Location
	// PublishHour defaults to noon.
	PublishHour int
}

// Documents holds both derived artifacts.
type Documents struct {
	RSS     []byte
	Sitemap []byte
}

// ArticleLink is the canonical URL of an article.
func (s Site) ArticleLink(id string) string {
	return s.base() + "/article.html?id=" + url.QueryEscape(id)
}

// RSSLink is the self link of the feed.
func (s Site) RSSLink() string {
	return s.base() + "/rss.xml"
}

func (s Site) base() string {
	return strings.TrimRight(s.URL, "/")
}

func (s Site) zone() *time.Location {
	if s.Zone != nil {
		return s.Zone
	}
	return time.FixedZone("MSK", 3*60*60)
}

func (s Site) maxItems() int {
	if s.MaxItems > 0 {
		return s.MaxItems
	}
	return DefaultMaxItems
}

func (s Site) publishHour() int {
	if s.PublishHour > 0 && s.PublishHour < 24 {
		return s.PublishHour
	}
	return 12
}

// Render derives the RSS feed and sitemap from the ledger alone. builtAt only
// feeds lastBuildDate and, for an empty ledger, the static pages' lastmod.
func Render(site Site, ledger []domain.ArticleRecord, builtAt time.Time) (Documents, error) {
	rss, err := RenderRSS(site, ledger, builtAt)
	if err != nil {
		return Documents{}, err
	}
	sitemap, err := RenderSitemap(site, ledger, builtAt)
	if err != nil {
		return Documents{}, err
	}
	return Documents{RSS: rss, Sitemap: sitemap}, nil
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string      `xml:"title"`
	Link          string      `xml:"link"`
	Description   string      `xml:"description"`
	Language      string      `xml:"language"`
	LastBuildDate string      `xml:"lastBuildDate"`
	AtomLink      rssAtomLink `xml:"atom:link"`
	Image         *rssImage   `xml:"image,omitempty"`
	Items         []rssItem   `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
	Category    string  `xml:"category"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RenderRSS builds an RSS 2.0 document with the newest records first.
func RenderRSS(site Site, ledger []domain.ArticleRecord, builtAt time.Time) ([]byte, error) {
	zone := site.zone()
	channel := rssChannel{
		Title:         site.Title,
		Link:          site.base(),
		Description:   site.Description,
		Language:      site.Language,
		LastBuildDate: builtAt.In(zone).Format(rssDateLayout),
		AtomLink: rssAtomLink{
			Href: site.RSSLink(),
			Rel:  "self",
			Type: "application/rss+xml",
		},
	}
	if site.ImagePath != "" {
		channel.Image = &rssImage{
			URL:   site.base() + "/" + strings.TrimLeft(site.ImagePath, "/"),
			Title: site.ImageTitle,
			Link:  site.base(),
		}
	}

	limit := min(len(ledger), site.maxItems())
	channel.Items = make([]rssItem, 0, limit)
	for _, record := range ledger[:limit] {
		link := site.ArticleLink(record.ID)
		channel.Items = append(channel.Items, rssItem{
			Title:       record.Title,
			Link:        link,
			Description: record.Excerpt,
			PubDate:     record.Date.At(site.publishHour(), 0, zone).Format(rssDateLayout),
			GUID:        rssGUID{IsPermaLink: "true", Value: link},
			Category:    record.Category,
		})
	}

	return marshal(rssDocument{Version: "2.0", AtomNS: atomNamespace, Channel: channel})
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// RenderSitemap lists the home page, the blog index and every ledger record.
func RenderSitemap(site Site, ledger []domain.ArticleRecord, builtAt time.Time) ([]byte, error) {
	lastChange := domain.DateOf(builtAt.In(site.zone()))
	if len(ledger) > 0 && !ledger[0].Date.IsZero() {
		lastChange = ledger[0].Date
	}

	urls := make([]sitemapURL, 0, len(ledger)+2)
	urls = append(urls,
		sitemapURL{Loc: site.base() + "/", LastMod: lastChange.String(), ChangeFreq: "weekly", Priority: "1.0"},
		sitemapURL{Loc: site.base() + "/blog.html", LastMod: lastChange.String(), ChangeFreq: "daily", Priority: "0.9"},
	)
	for _, record := range ledger {
		urls = append(urls, sitemapURL{
			Loc:        site.ArticleLink(record.ID),
			LastMod:    record.Date.String(),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		})
	}

	return marshal(urlSet{XMLNS: sitemapNS, URLs: urls})
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("flush xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
