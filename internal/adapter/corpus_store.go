package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	m "mutok.dev/pkg/mutok/internal/model"
)

// ErrFileNotFound is returned when a hash or row id is not in the corpus.
var ErrFileNotFound = errors.New("file not found in corpus")

// DefaultVectorCacheSize bounds how many decoded token vectors a store keeps.
const DefaultVectorCacheSize = 4096

const corpusSchema = `
CREATE TABLE IF NOT EXISTS vectorized_source(
    hash     TEXT PRIMARY KEY,
    array    BLOB NOT NULL,     -- one byte per token
    n_tokens INTEGER NOT NULL   -- number of tokens, sentinels included
);

CREATE TABLE IF NOT EXISTS fold_assignment(
    hash TEXT PRIMARY KEY,
    fold INTEGER NOT NULL,

    FOREIGN KEY (hash) REFERENCES vectorized_source(hash)
);
`

// CorpusStore is the read side of a vectorized corpus partitioned into folds.
type CorpusStore interface {
	// HashesInFold lists the file hashes assigned to fold, in insertion order.
	HashesInFold(ctx context.Context, fold int) ([]string, error)

	// FilesInFold loads every file assigned to fold.
	FilesInFold(ctx context.Context, fold int) ([]m.CorpusFile, error)

	// Get loads the token vector for hash. The returned slice must not be modified.
	Get(ctx context.Context, hash string) ([]m.TokenIndex, error)

	// FoldIDs lists the distinct fold numbers with at least one file.
	FoldIDs(ctx context.Context) ([]int, error)

	// Close releases the underlying connection.
	Close() error
}

// CorpusConnector opens a corpus store by path.
type CorpusConnector func(ctx context.Context, path m.Path) (CorpusStore, error)

// SQLiteCorpusStore implements CorpusStore on a SQLite database.
type SQLiteCorpusStore struct {
	db    *sql.DB
	cache *lru.Cache[string, []m.TokenIndex]
}

var _ CorpusStore = (*SQLiteCorpusStore)(nil)

// ConnectCorpus is a CorpusConnector for SQLite files.
func ConnectCorpus(ctx context.Context, path m.Path) (CorpusStore, error) {
	return OpenSQLiteCorpusStore(ctx, path, DefaultVectorCacheSize)
}

// OpenSQLiteCorpusStore opens (creating if needed) the corpus at path.
// ":memory:" gives a private in-memory corpus.
func OpenSQLiteCorpusStore(ctx context.Context, path m.Path, cacheSize int) (*SQLiteCorpusStore, error) {
	db, err := sql.Open("sqlite3", string(path)+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}

	// A single connection keeps in-memory databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, corpusSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create corpus schema: %w", err)
	}

	if cacheSize <= 0 {
		cacheSize = DefaultVectorCacheSize
	}

	cache, err := lru.New[string, []m.TokenIndex](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create vector cache: %w", err)
	}

	slog.Debug("opened corpus", "path", path, "cacheSize", cacheSize)

	return &SQLiteCorpusStore{db: db, cache: cache}, nil
}

// Close implements CorpusStore.
func (s *SQLiteCorpusStore) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

// Insert stores a token vector under hash.
func (s *SQLiteCorpusStore) Insert(ctx context.Context, hash string, tokens []m.TokenIndex) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vectorized_source(hash, array, n_tokens)
		     VALUES (?, ?, ?)
	`, hash, encodeTokens(tokens), len(tokens))
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", hash, err)
	}

	return nil
}

// AddToFold assigns hash to exactly one fold. The hash must already be stored.
func (s *SQLiteCorpusStore) AddToFold(ctx context.Context, hash string, fold int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fold_assignment(hash, fold) VALUES (?, ?)
	`, hash, fold)
	if err != nil {
		return fmt.Errorf("failed to assign %s to fold %d: %w", hash, fold, err)
	}

	return nil
}

// Get implements CorpusStore.
func (s *SQLiteCorpusStore) Get(ctx context.Context, hash string) ([]m.TokenIndex, error) {
	if tokens, ok := s.cache.Get(hash); ok {
		return tokens, nil
	}

	var blob []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT array FROM vectorized_source WHERE hash = ?
	`, hash).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", hash, ErrFileNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", hash, err)
	}

	tokens := decodeTokens(blob)
	s.cache.Add(hash, tokens)

	return tokens, nil
}

// GetByRowID loads a file by its one-indexed row id.
func (s *SQLiteCorpusStore) GetByRowID(ctx context.Context, rowID int64) (m.CorpusFile, error) {
	var (
		hash string
		blob []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT hash, array FROM vectorized_source WHERE rowid = ?
	`, rowID).Scan(&hash, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return m.CorpusFile{}, fmt.Errorf("row %d: %w", rowID, ErrFileNotFound)
	}

	if err != nil {
		return m.CorpusFile{}, fmt.Errorf("failed to load row %d: %w", rowID, err)
	}

	return m.CorpusFile{Hash: hash, Tokens: decodeTokens(blob)}, nil
}

// MinIndex returns the smallest row id, or 0 for an empty corpus.
func (s *SQLiteCorpusStore) MinIndex(ctx context.Context) (int64, error) {
	return s.scalarRowID(ctx, `SELECT MIN(rowid) FROM vectorized_source`)
}

// MaxIndex returns the largest row id, or 0 for an empty corpus.
func (s *SQLiteCorpusStore) MaxIndex(ctx context.Context) (int64, error) {
	return s.scalarRowID(ctx, `SELECT MAX(rowid) FROM vectorized_source`)
}

func (s *SQLiteCorpusStore) scalarRowID(ctx context.Context, query string) (int64, error) {
	var value sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return 0, err
	}

	return value.Int64, nil
}

// HashesInFold implements CorpusStore.
func (s *SQLiteCorpusStore) HashesInFold(ctx context.Context, fold int) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT hash FROM fold_assignment WHERE fold = ? ORDER BY rowid
	`, fold)
}

// FilesInFold implements CorpusStore.
func (s *SQLiteCorpusStore) FilesInFold(ctx context.Context, fold int) ([]m.CorpusFile, error) {
	hashes, err := s.HashesInFold(ctx, fold)
	if err != nil {
		return nil, err
	}

	files := make([]m.CorpusFile, 0, len(hashes))

	for _, hash := range hashes {
		tokens, err := s.Get(ctx, hash)
		if err != nil {
			return nil, err
		}

		files = append(files, m.CorpusFile{Hash: hash, Tokens: tokens})
	}

	return files, nil
}

// UnassignedFiles lists hashes that belong to no fold.
func (s *SQLiteCorpusStore) UnassignedFiles(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT hash
		  FROM vectorized_source
		 WHERE hash NOT IN (SELECT hash FROM fold_assignment)
		 ORDER BY rowid
	`)
}

// FoldIDs implements CorpusStore.
func (s *SQLiteCorpusStore) FoldIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT fold FROM fold_assignment ORDER BY fold
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list folds: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var folds []int

	for rows.Next() {
		var fold int
		if err := rows.Scan(&fold); err != nil {
			return nil, err
		}

		folds = append(folds, fold)
	}

	return folds, rows.Err()
}

// HasFoldAssignments reports whether any file is assigned to a fold.
func (s *SQLiteCorpusStore) HasFoldAssignments(ctx context.Context) (bool, error) {
	folds, err := s.FoldIDs(ctx)
	if err != nil {
		return false, err
	}

	return len(folds) > 0, nil
}

// DestroyFoldAssignments deletes every fold assignment.
func (s *SQLiteCorpusStore) DestroyFoldAssignments(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fold_assignment`); err != nil {
		return fmt.Errorf("failed to delete fold assignments: %w", err)
	}

	return nil
}

func (s *SQLiteCorpusStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("corpus query failed: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var out []string

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}

		out = append(out, value)
	}

	return out, rows.Err()
}

func encodeTokens(tokens []m.TokenIndex) []byte {
	blob := make([]byte, len(tokens))
	for i, token := range tokens {
		blob[i] = byte(token)
	}

	return blob
}

func decodeTokens(blob []byte) []m.TokenIndex {
	tokens := make([]m.TokenIndex, len(blob))
	for i, b := range blob {
		tokens[i] = m.TokenIndex(b)
	}

	return tokens
}
