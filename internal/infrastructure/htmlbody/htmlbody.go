package htmlbody

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	wordsPerMinute = 180
	maxExcerptLen  = 200
)

const strippedElements = "script, style, iframe, object, embed, link, meta"

// Fragment is a parsed article body.
type Fragment struct {
	doc *goquery.Document
}

// Parse reads an HTML fragment such as "<h2>..</h2><p>..</p>".
func Parse(body string) (*Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	return &Fragment{doc: doc}, nil
}

// Sanitize drops active content: scripts, embeds and inline event handlers.
func (f *Fragment) Sanitize() *Fragment {
	f.doc.Find(strippedElements).Remove()
	f.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		kept := node.Attr[:0]
		for _, attr := range node.Attr {
			name := strings.ToLower(attr.Key)
			if strings.HasPrefix(name, "on") {
				continue
			}
			if (name == "href" || name == "src") && strings.HasPrefix(strings.ToLower(strings.TrimSpace(attr.Val)), "javascript:") {
				continue
			}
			kept = append(kept, attr)
		}
		node.Attr = kept
	})
	return f
}

// HTML renders the fragment back without the html/body wrapper.
func (f *Fragment) HTML() (string, error) {
	out, err := f.doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Text returns the visible text with collapsed whitespace.
func (f *Fragment) Text() string {
	return strings.Join(strings.Fields(f.doc.Find("body").Text()), " ")
}

// WordCount counts whitespace-separated words of the visible text.
func (f *Fragment) WordCount() int {
	return len(strings.Fields(f.doc.Find("body").Text()))
}

// ReadTime estimates reading time as "<n> мин", at least one minute.
func (f *Fragment) ReadTime() string {
	minutes := (f.WordCount() + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d мин", minutes)
}

// Excerpt returns the first non-empty paragraph, cut to 200 characters.
func (f *Fragment) Excerpt() string {
	var excerpt string
	f.doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		excerpt = strings.Join(strings.Fields(s.Text()), " ")
		return excerpt == ""
	})
	if excerpt == "" {
		excerpt = f.Text()
	}
	return truncate(excerpt, maxExcerptLen)
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
