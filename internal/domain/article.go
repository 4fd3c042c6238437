package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format stored in the ledger.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// At returns the instant of the given wall clock time on this day in loc.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON writes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ArticleRecord is the ledger entry of one published article.
type ArticleRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	Category   string `json:"category"`
	Date       Date   `json:"date"`
	ReadTime   string `json:"readTime"`
	ContentRef string `json:"contentRef"`
}

// UnmarshalJSON accepts the legacy "content" key for the body pointer.
func (r *ArticleRecord) UnmarshalJSON(data []byte) error {
	type plain ArticleRecord
	var aux struct {
		plain
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ArticleRecord(aux.plain)
	if r.ContentRef == "" {
		r.ContentRef = aux.Content
	}
	return nil
}

// ArticleDraft is the generated payload before an identifier is assigned.
type ArticleDraft struct {
	Title    string
	Excerpt  string
	ReadTime string
	Body     string
}

// DraftSource tells where a draft came from.
type DraftSource string

const (
	SourceProvider DraftSource = "provider"
	SourceFallback DraftSource = "fallback"
)

// Publication is one journal entry written after a successful run.
type Publication struct {
	ID          string
	Title       string
	Category    string
	Source      DraftSource
	PublishedAt time.Time
}
