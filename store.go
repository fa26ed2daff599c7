package blockpage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/blockpage/blocks"
)

// ErrSlugTaken is returned when a page slug is already in use.
var ErrSlugTaken = errors.New("blockpage: slug already in use")

const pageColumns = `id, slug, title, status, blocks, show_in_header, created_at, updated_at`

// Store wraps a SQLite database and provides CRUD operations for pages and
// the media library.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the public site read while the admin writes; writers wait on
	// busy instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    blocks TEXT NOT NULL DEFAULT '[]',
    show_in_header INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (Page, error) {
	var (
		p                  Page
		status, blocksJSON string
		created, updated   string
		showInHeader       int
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &status, &blocksJSON, &showInHeader, &created, &updated); err != nil {
		return Page{}, err
	}
	p.Status = Status(status)
	p.ShowInHeader = showInHeader == 1
	// Stored block JSON came through the lenient decoder on the way in;
	// a corrupt column still renders as an empty page rather than a 500.
	if err := json.Unmarshal([]byte(blocksJSON), &p.Blocks); err != nil {
		p.Blocks = nil
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return p, nil
}

func (s *Store) queryPages(query string, args ...any) ([]Page, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPage returns a single published page by slug.
func (s *Store) GetPage(slug string) (Page, error) {
	return scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE slug = ? AND status = ?`, slug, string(StatusPublished)))
}

// GetPageAny returns a page by slug regardless of status (for admin).
func (s *Store) GetPageAny(slug string) (Page, error) {
	return scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug))
}

// ListPages returns every page, newest first. A non-empty status filters.
func (s *Store) ListPages(status Status) ([]Page, error) {
	if status == "" {
		return s.queryPages(`SELECT ` + pageColumns + ` FROM pages ORDER BY created_at DESC, id DESC`)
	}
	return s.queryPages(`SELECT `+pageColumns+` FROM pages WHERE status = ? ORDER BY created_at DESC, id DESC`, string(status))
}

// ListHeaderPages returns published pages flagged for navigation, oldest first.
func (s *Store) ListHeaderPages() ([]Page, error) {
	return s.queryPages(`SELECT `+pageColumns+` FROM pages WHERE show_in_header = 1 AND status = ? ORDER BY created_at ASC, id ASC`, string(StatusPublished))
}

// CreatePage inserts a new page. Timestamps are set by the store.
func (s *Store) CreatePage(p Page) (Page, error) {
	blocksJSON, err := encodeBlocks(p.Blocks)
	if err != nil {
		return Page{}, err
	}
	now := s.now().UTC()
	res, err := s.db.Exec(`INSERT INTO pages (slug, title, status, blocks, show_in_header, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, string(p.Status), blocksJSON, boolInt(p.ShowInHeader), now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return Page{}, ErrSlugTaken
		}
		return Page{}, err
	}
	p.ID, _ = res.LastInsertId()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// UpdatePage replaces the page stored under slug. p.Slug may differ from
// slug to rename the page.
func (s *Store) UpdatePage(slug string, p Page) (Page, error) {
	current, err := s.GetPageAny(slug)
	if err != nil {
		return Page{}, err
	}
	blocksJSON, err := encodeBlocks(p.Blocks)
	if err != nil {
		return Page{}, err
	}
	if p.Slug == "" {
		p.Slug = slug
	}
	now := s.now().UTC()
	_, err = s.db.Exec(`UPDATE pages SET slug = ?, title = ?, status = ?, blocks = ?, show_in_header = ?, updated_at = ? WHERE id = ?`,
		p.Slug, p.Title, string(p.Status), blocksJSON, boolInt(p.ShowInHeader), now.Format(time.RFC3339Nano), current.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Page{}, ErrSlugTaken
		}
		return Page{}, err
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = now
	return p, nil
}

// DeletePage removes a page by slug. Deleting a missing page returns ErrNotFound.
func (s *Store) DeletePage(slug string) error {
	res, err := s.db.Exec(`DELETE FROM pages WHERE slug = ?`, slug)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveImage upserts image metadata.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns all images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ImageExists reports whether filename is already in the media library.
func (s *Store) ImageExists(filename string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM images WHERE filename = ?`, filename).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

func encodeBlocks(bs []blocks.Block) (string, error) {
	if bs == nil {
		bs = []blocks.Block{}
	}
	b, err := blocks.Marshal(bs)
	if err != nil {
		return "", fmt.Errorf("encode blocks: %w", err)
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
