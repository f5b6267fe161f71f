// Package index owns the per-session similarity index and its fingerprint
// ledger. Both live in one sqlite database inside the session's index
// directory, so a chunk row and its ledger row commit in the same
// transaction.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docportal/docportal/pkg/domain"
)

const dbFileName = "index.db"

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	fingerprint TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	content     TEXT NOT NULL,
	vector      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS ledger (
	fingerprint TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	first_seen  TEXT NOT NULL
);
`

type Manager struct {
	embedder domain.Embedder
	logger   *slog.Logger
}

func NewManager(embedder domain.Embedder, logger *slog.Logger) *Manager {
	return &Manager{embedder: embedder, logger: logger}
}

// Index is the open handle to one session's persisted index. Not safe for
// concurrent writers; callers hold the session write lock around Add and
// Persist.
type Index struct {
	db  *sql.DB
	dir string
}

func (i *Index) Close() error {
	return i.db.Close()
}

// Exists reports whether indexDir holds a persisted index.
func Exists(indexDir string) bool {
	_, err := os.Stat(filepath.Join(indexDir, dbFileName))
	return err == nil
}

// Open loads the index persisted in indexDir, or creates an empty one.
// A present but unreadable database surfaces as ErrCorruptIndex; repeated
// calls with no intervening writes return an equivalent index.
func (m *Manager) Open(indexDir string) (*Index, error) {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index dir %s: %w", indexDir, err)
	}

	path := filepath.Join(indexDir, dbFileName)
	existing := Exists(indexDir)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		if existing {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptIndex, path, err)
		}
		return nil, fmt.Errorf("initializing index %s: %w", path, err)
	}

	return &Index{db: db, dir: indexDir}, nil
}

// Add fingerprints each chunk, skips those already in the ledger, and
// embeds and inserts the rest. Chunk row and ledger row commit in one
// transaction, so a failure mid-batch leaves earlier chunks committed and
// the result reports how far the batch got.
func (m *Manager) Add(ctx context.Context, idx *Index, chunks []domain.Chunk) (domain.AddResult, error) {
	var res domain.AddResult

	for _, c := range chunks {
		fp := Fingerprint(c.Content)

		known, err := m.inLedger(ctx, idx, fp)
		if err != nil {
			return res, err
		}
		if known {
			res.Skipped++
			continue
		}

		vector, err := m.embedder.Embed(ctx, c.Content)
		if err != nil {
			return res, fmt.Errorf("embedding chunk %d of %s: %w", c.Seq, c.Source, err)
		}
		vectorJSON, err := json.Marshal(vector)
		if err != nil {
			return res, fmt.Errorf("encoding vector: %w", err)
		}

		if err := m.commitChunk(ctx, idx, c, fp, vectorJSON); err != nil {
			return res, err
		}
		res.Added++
	}

	m.logger.Info("index updated", "dir", idx.dir, "added", res.Added, "skipped", res.Skipped)
	return res, nil
}

func (m *Manager) inLedger(ctx context.Context, idx *Index, fingerprint string) (bool, error) {
	var one int
	err := idx.db.QueryRowContext(ctx,
		`SELECT 1 FROM ledger WHERE fingerprint = ?`, fingerprint).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading ledger: %w", err)
	}
	return true, nil
}

func (m *Manager) commitChunk(ctx context.Context, idx *Index, c domain.Chunk, fingerprint string, vectorJSON []byte) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning index transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chunks (fingerprint, source, seq, content, vector) VALUES (?, ?, ?, ?, ?)`,
		fingerprint, c.Source, c.Seq, c.Content, string(vectorJSON)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("inserting chunk: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger (fingerprint, source, first_seen) VALUES (?, ?, ?)`,
		fingerprint, c.Source, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("inserting ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunk: %w", err)
	}
	return nil
}

// Persist flushes the database to disk. Callers must invoke it after Add
// for durability; an unflushed index is lost on process restart.
func (m *Manager) Persist(idx *Index) error {
	if _, err := idx.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("persisting index %s: %w", idx.dir, err)
	}
	return nil
}

// Stats returns ledger counts, mainly for logging and tests.
func (m *Manager) Stats(ctx context.Context, idx *Index) (chunks, ledger int, err error) {
	if err = idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&chunks); err != nil {
		return 0, 0, fmt.Errorf("counting chunks: %w", err)
	}
	if err = idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger`).Scan(&ledger); err != nil {
		return 0, 0, fmt.Errorf("counting ledger: %w", err)
	}
	return chunks, ledger, nil
}
