package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "publisher.yaml")
	body := fmt.Sprintf(`
site:
  url: https://blog.example.org
paths:
  articlesDir: %[1]s/articles
  ledgerFile: %[1]s/articles/articles.json
  rssFile: %[1]s/rss.xml
  sitemapFile: %[1]s/sitemap.xml
journal:
  path: %[1]s/journal.db
logging:
  level: error
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return dir, path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateRenderCheckHistory(t *testing.T) {
	t.Setenv("XAI_API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	dir, cfg := writeConfig(t)

	out, err := execute(t, "generate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "created ")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "https://blog.example.org/article.html?id=")

	_, err = execute(t, "--config", cfg)
	require.NoError(t, err, "root command generates too")

	out, err = execute(t, "check", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 articles\n", out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rss.xml"), []byte("<rss version=\"2.0\"><channel></channel></rss>"), 0o644))
	_, err = execute(t, "check", "--config", cfg)
	require.Error(t, err)

	out, err = execute(t, "render", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "rendered feeds for 2 articles\n", out)

	_, err = execute(t, "check", "--config", cfg)
	require.NoError(t, err)

	out, err = execute(t, "history", "--config", cfg, "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "fallback")

	out, err = execute(t, "topics", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "articlepublisher dev (commit: none)\n", out)
}
