// Package store records when each source document was first seen and last
// modified, so site builds republish only what changed. It also keeps one
// row per build.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrEmptySite indicates a store was opened without a site name.
var ErrEmptySite = errors.New("store: site name cannot be empty")

// Change classifies a crawled document against its stored record.
type Change int

const (
	Unchanged Change = iota
	New
	Modified
)

func (c Change) String() string {
	switch c {
	case New:
		return "new"
	case Modified:
		return "modified"
	default:
		return "unchanged"
	}
}

// Document is the stored record of one source file.
type Document struct {
	Path     string
	Made     time.Time // modification time when first seen
	Modified time.Time // latest recorded modification time
}

// Build is the stored record of one site build.
type Build struct {
	ID        string
	Started   time.Time
	Finished  time.Time // zero while running
	Published int
	Failed    int
}

// Store is a SQLite-backed change-detection store scoped to one site.
// Several sites may share a database file.
type Store struct {
	db   *sql.DB
	site string
	mu   sync.Mutex
	now  func() time.Time
}

// Open opens or creates the database at path for site. The parent
// directory is created if it doesn't exist.
func Open(ctx context.Context, path, site string) (*Store, error) {
	if site == "" {
		return nil, ErrEmptySite
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; builders serialize through mu anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, site: site, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		site TEXT NOT NULL,
		path TEXT NOT NULL,
		made INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		PRIMARY KEY (site, path)
	);

	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER,
		published INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_builds_site_started ON builds(site, started DESC);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the record of path.
func (s *Store) Lookup(ctx context.Context, path string) (Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(ctx, path)
}

func (s *Store) lookup(ctx context.Context, path string) (Document, bool, error) {
	var made, modified int64
	err := s.db.QueryRowContext(ctx,
		`SELECT made, modified FROM documents WHERE site = ? AND path = ?`,
		s.site, path,
	).Scan(&made, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("lookup %s: %w", path, err)
	}
	return Document{Path: path, Made: time.Unix(0, made), Modified: time.Unix(0, modified)}, true, nil
}

// Add inserts a record whose made and modified times are both mtime.
func (s *Store) Add(ctx context.Context, path string, mtime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, path, mtime)
}

func (s *Store) add(ctx context.Context, path string, mtime time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (site, path, made, modified) VALUES (?, ?, ?, ?)`,
		s.site, path, mtime.UnixNano(), mtime.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}
	return nil
}

// Touch updates the modified time of an existing record.
func (s *Store) Touch(ctx context.Context, path string, mtime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(ctx, path, mtime)
}

func (s *Store) touch(ctx context.Context, path string, mtime time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE documents SET modified = ? WHERE site = ? AND path = ?`,
		mtime.UnixNano(), s.site, path,
	)
	if err != nil {
		return fmt.Errorf("touch %s: %w", path, err)
	}
	return nil
}

// Record classifies path against its stored record and updates the store:
// an unknown path is added, a path modified after its record is touched.
// The returned document reflects the store after the update.
func (s *Store) Record(ctx context.Context, path string, mtime time.Time) (Change, Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok, err := s.lookup(ctx, path)
	if err != nil {
		return Unchanged, Document{}, err
	}
	switch {
	case !ok:
		if err := s.add(ctx, path, mtime); err != nil {
			return Unchanged, Document{}, err
		}
		return New, Document{Path: path, Made: mtime, Modified: mtime}, nil
	case mtime.After(doc.Modified):
		if err := s.touch(ctx, path, mtime); err != nil {
			return Unchanged, Document{}, err
		}
		doc.Modified = mtime
		return Modified, doc, nil
	default:
		return Unchanged, doc, nil
	}
}

// Forget removes every document record of the site, forcing a full rebuild.
func (s *Store) Forget(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE site = ?`, s.site); err != nil {
		return fmt.Errorf("forget: %w", err)
	}
	return nil
}

// BeginBuild records the start of a build and returns its id.
func (s *Store) BeginBuild(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, site, started) VALUES (?, ?, ?)`,
		id, s.site, s.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("begin build: %w", err)
	}
	return id, nil
}

// FinishBuild records the end of a build and its outcome counts.
func (s *Store) FinishBuild(ctx context.Context, id string, published, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE builds SET finished = ?, published = ?, failed = ? WHERE id = ? AND site = ?`,
		s.now().UnixNano(), published, failed, id, s.site,
	)
	if err != nil {
		return fmt.Errorf("finish build: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish build: unknown build %s", id)
	}
	return nil
}

// LastBuild returns the most recently started build of the site.
func (s *Store) LastBuild(ctx context.Context) (Build, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		b        Build
		started  int64
		finished sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started, finished, published, failed FROM builds
		 WHERE site = ? ORDER BY started DESC LIMIT 1`,
		s.site,
	).Scan(&b.ID, &started, &finished, &b.Published, &b.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, false, nil
	}
	if err != nil {
		return Build{}, false, fmt.Errorf("last build: %w", err)
	}
	b.Started = time.Unix(0, started)
	if finished.Valid {
		b.Finished = time.Unix(0, finished.Int64)
	}
	return b, true, nil
}
