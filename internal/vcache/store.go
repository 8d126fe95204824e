// Package vcache persists text embeddings in SQLite so repeated ranking runs
// over the same documents skip the embedding provider.
package vcache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS embeddings (
	model      TEXT NOT NULL,
	hash       TEXT NOT NULL,
	dim        INTEGER NOT NULL,
	vector     BLOB NOT NULL,
	created_at INTEGER NOT NULL DEFAULT (unixepoch()),
	PRIMARY KEY (model, hash)
) WITHOUT ROWID;
`

// Store is an embedding cache keyed by model name and text hash.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path and applies
// WAL journaling, a busy timeout and NORMAL synchronous mode.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("vcache: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("vcache: open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("vcache: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("vcache: exec schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("vcache: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the cached vectors for hashes under model. Missing hashes are
// absent from the result.
func (s *Store) Get(ctx context.Context, model string, hashes []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(hashes))
	const chunk = 500
	for start := 0; start < len(hashes); start += chunk {
		part := hashes[start:min(start+chunk, len(hashes))]
		args := make([]any, 0, len(part)+1)
		args = append(args, model)
		for _, h := range part {
			args = append(args, h)
		}
		q := "SELECT hash, vector FROM embeddings WHERE model = ? AND hash IN (?" +
			strings.Repeat(",?", len(part)-1) + ")"

		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, fmt.Errorf("vcache: query: %w", err)
		}
		for rows.Next() {
			var hash string
			var blob []byte
			if err := rows.Scan(&hash, &blob); err != nil {
				rows.Close()
				return nil, fmt.Errorf("vcache: scan: %w", err)
			}
			out[hash] = DeserializeVector(blob)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("vcache: rows: %w", err)
		}
		rows.Close()
	}
	return out, nil
}

// Put stores vectors under model, replacing existing entries.
func (s *Store) Put(ctx context.Context, model string, vecs map[string][]float32) error {
	if len(vecs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("vcache: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO embeddings (model, hash, dim, vector) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("vcache: prepare: %w", err)
	}
	defer stmt.Close()

	for hash, vec := range vecs {
		if _, err := stmt.ExecContext(ctx, model, hash, len(vec), SerializeVector(vec)); err != nil {
			return fmt.Errorf("vcache: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vcache: commit: %w", err)
	}
	return nil
}

// Count returns the number of cached vectors for model.
func (s *Store) Count(ctx context.Context, model string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings WHERE model = ?", model).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("vcache: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
