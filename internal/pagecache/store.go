package pagecache

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
	_ "modernc.org/sqlite"

	"maqamat/internal/fileutil"
)

// ErrCorrupt reports a cached body whose digest no longer matches its content.
var ErrCorrupt = errors.New("cached page corrupt")

// Entry describes one cached page without its body.
type Entry struct {
	URL        string
	Digest     string
	Size       int64
	StoredSize int64
	FetchedAt  time.Time
}

// Page is a cached page with its decompressed body.
type Page struct {
	Entry
	Body []byte
}

// Store keeps fetched reference pages in SQLite, xz-compressed and keyed by URL.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the cache database at path and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached page for url, or nil when the url is not cached.
func (s *Store) Get(ctx context.Context, url string) (*Page, error) {
	var (
		page      Page
		stored    []byte
		fetchedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT url, digest, size, stored_size, body, fetched_at FROM pages WHERE url = ?`, url,
	).Scan(&page.URL, &page.Digest, &page.Size, &page.StoredSize, &stored, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}

	if page.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
		return nil, fmt.Errorf("parse fetched_at for %s: %w", url, err)
	}
	if page.Body, err = decompress(stored); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, url, err)
	}
	if fileutil.Digest(page.Body) != page.Digest {
		return nil, fmt.Errorf("%w: %s: digest mismatch", ErrCorrupt, url)
	}
	return &page, nil
}

// Put stores body for url, replacing any previous entry. It reports whether
// the content differs from what was cached before.
func (s *Store) Put(ctx context.Context, url string, body []byte) (Entry, bool, error) {
	stored, err := compress(body)
	if err != nil {
		return Entry{}, false, fmt.Errorf("compress %s: %w", url, err)
	}
	entry := Entry{
		URL:        url,
		Digest:     fileutil.Digest(body),
		Size:       int64(len(body)),
		StoredSize: int64(len(stored)),
		FetchedAt:  s.now().UTC(),
	}

	var previous string
	err = s.db.QueryRowContext(ctx, `SELECT digest FROM pages WHERE url = ?`, url).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, fmt.Errorf("lookup previous digest: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pages (url, digest, size, stored_size, body, fetched_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(url) DO UPDATE SET
             digest = excluded.digest,
             size = excluded.size,
             stored_size = excluded.stored_size,
             body = excluded.body,
             fetched_at = excluded.fetched_at`,
		entry.URL, entry.Digest, entry.Size, entry.StoredSize, stored, entry.FetchedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("store page: %w", err)
	}
	return entry, previous != entry.Digest, nil
}

// List returns every cached entry ordered by URL.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, digest, size, stored_size, fetched_at FROM pages ORDER BY url`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			fetchedAt string
		)
		if err := rows.Scan(&entry.URL, &entry.Digest, &entry.Size, &entry.StoredSize, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		if entry.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
			return nil, fmt.Errorf("parse fetched_at for %s: %w", entry.URL, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}
	return entries, nil
}

// Delete removes url from the cache. Deleting an absent url is not an error.
func (s *Store) Delete(ctx context.Context, url string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE url = ?`, url); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

// Clear removes every cached page and returns how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages`)
	if err != nil {
		return 0, fmt.Errorf("clear pages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func compress(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(stored []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(stored))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
