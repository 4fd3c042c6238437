package htmlbody

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	body := `<h2 onclick="steal()">Введение</h2><script>alert(1)</script><p>Текст <a href="javascript:void(0)">ссылка</a> <a href="https://t.me/x">канал</a></p><iframe src="https://evil"></iframe>`
	frag, err := Parse(body)
	require.NoError(t, err)

	out, err := frag.Sanitize().HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "iframe")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `<h2>Введение</h2>`)
	assert.Contains(t, out, `<a href="https://t.me/x">канал</a>`)
	assert.False(t, strings.Contains(out, "<body>"))
}

func TestExcerptPicksFirstParagraph(t *testing.T) {
	t.Parallel()

	frag, err := Parse("<h2>Заголовок</h2><p>  </p><p>Первый   абзац\nтекста.</p><p>Второй.</p>")
	require.NoError(t, err)
	assert.Equal(t, "Первый абзац текста.", frag.Excerpt())
}

func TestExcerptTruncates(t *testing.T) {
	t.Parallel()

	frag, err := Parse("<p>" + strings.Repeat("слово ", 100) + "</p>")
	require.NoError(t, err)
	excerpt := frag.Excerpt()
	assert.Equal(t, 200, utf8.RuneCountInString(excerpt))
	assert.True(t, strings.HasSuffix(excerpt, "…"))
}

func TestReadTime(t *testing.T) {
	t.Parallel()

	short, err := Parse("<p>пара слов</p>")
	require.NoError(t, err)
	assert.Equal(t, "1 мин", short.ReadTime())

	long, err := Parse("<p>" + strings.Repeat("слово ", 900) + "</p>")
	require.NoError(t, err)
	assert.Equal(t, 900, long.WordCount())
	assert.Equal(t, "5 мин", long.ReadTime())
}
