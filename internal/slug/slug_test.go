package slug

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ArticlePublisher/internal/catalog"
)

var idPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestTransliterate(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Привет, мир!":          "privet mir",
		"Щука и ёж":             "schuka i ezh",
		"Объявление":            "obyavlenie",
		"Café Déjà vu":          "cafe deja vu",
		"ROI 500%: кейс":        "roi 500 keys",
		"Tap-to-earn игры":      "taptoearn igry",
		"日本語 text":              " text",
		"tab\tand\nnewline":     "tab and newline",
		"Кейс: e-commerce бот": "keys ecommerce bot",
	}
	for in, want := range cases {
		assert.Equal(t, want, Transliterate(in), in)
	}
}

func TestSlugTruncatesAndTrims(t *testing.T) {
	t.Parallel()

	s := Slug("Как настроить таргетинг в Telegram Ads для максимальной конверсии")
	assert.LessOrEqual(t, len(s), 40)
	assert.Equal(t, "kak-nastroit-targeting-v-telegram-ads-dl", s)

	assert.Equal(t, "article", Slug("!!! ???"))
	assert.Equal(t, "article", Slug("日本語"))
	assert.False(t, strings.HasSuffix(Slug("aaaaaaaaa aaaaaaaaa aaaaaaaaa aaaaaaaaa b"), "-"))
}

func TestMakeID(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.March, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "gayd-po-avtomatizatsii-v-telegram-20260301-0905", MakeID("Гайд по автоматизации в Telegram", at))
}

func TestMakeIDCharacterSet(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC)
	titles := []string{"", "—", "Ünïcödé ßtraße", "🚀 launch", "$50K/месяц", "Ω≈ç√∫"}
	for _, pair := range catalog.Default.Pairs() {
		titles = append(titles, pair.Topic, pair.Topic+" — 2026")
	}
	for _, title := range titles {
		id := MakeID(title, at)
		assert.Regexp(t, idPattern, id, title)
		assert.True(t, strings.HasSuffix(id, "-20261231-2359"), id)
	}
}
