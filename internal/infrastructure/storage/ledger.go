package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
)

// LedgerFile stores the article ledger as an indented JSON array.
type LedgerFile struct {
	path string
}

var _ ports.LedgerStore = (*LedgerFile)(nil)

// NewLedgerFile binds the store to a JSON file path.
func NewLedgerFile(path string) *LedgerFile {
	return &LedgerFile{path: path}
}

// Path returns the ledger location.
func (l *LedgerFile) Path() string {
	return l.path
}

// Load reads the ledger; a missing file is an empty ledger.
func (l *LedgerFile) Load(ctx context.Context) ([]domain.ArticleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.ArticleRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.ArticleRecord{}, nil
	}

	var records []domain.ArticleRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", l.path, err)
	}
	if records == nil {
		records = []domain.ArticleRecord{}
	}
	return records, nil
}

// Save writes the whole ledger atomically.
func (l *LedgerFile) Save(ctx context.Context, records []domain.ArticleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []domain.ArticleRecord{}
	}

	data, err := EncodeLedger(records)
	if err != nil {
		return err
	}
	return WriteFileAtomic(l.path, data, 0o644)
}

// Lock takes the exclusive writer lock on "<ledger>.lock".
func (l *LedgerFile) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	return lockFile(l.path + ".lock")
}

// EncodeLedger renders records as two-space indented JSON without HTML escaping.
func EncodeLedger(records []domain.ArticleRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return buf.Bytes(), nil
}

// Prepend returns a new ledger with record at index 0.
func Prepend(records []domain.ArticleRecord, record domain.ArticleRecord) []domain.ArticleRecord {
	out := make([]domain.ArticleRecord, 0, len(records)+1)
	out = append(out, record)
	return append(out, records...)
}

// BodyDir writes article body fragments as "<id>.html" files.
type BodyDir struct {
	dir string
}

var _ ports.BodyStore = (*BodyDir)(nil)

// NewBodyDir binds the store to the articles directory.
func NewBodyDir(dir string) *BodyDir {
	return &BodyDir{dir: dir}
}

// WriteBody stores body and returns the file name referenced by the ledger.
func (b *BodyDir) WriteBody(ctx context.Context, id string, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid article id %q", id)
	}

	ref := id + ".html"
	if err := WriteFileAtomic(filepath.Join(b.dir, ref), []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write body %s: %w", ref, err)
	}
	return ref, nil
}
