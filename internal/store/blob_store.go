package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/prepstock/internal/blobstore"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name string
	// Placeholder returns the bind parameter for the n-th (1-based) argument.
	Placeholder func(n int) string
	Now         string
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
		Now:         "datetime('now')",
	}
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		Now:         "now()",
	}
)

// BlobStore implements blobstore.BlobStore on top of the blobs table.
type BlobStore struct {
	db     *sql.DB
	getSQL string
	putSQL string
	delSQL string
}

func NewBlobStore(db *sql.DB, dialect Dialect) *BlobStore {
	p := dialect.Placeholder
	return &BlobStore{
		db:     db,
		getSQL: fmt.Sprintf(`SELECT value FROM blobs WHERE key = %s`, p(1)),
		putSQL: fmt.Sprintf(`
			INSERT INTO blobs (key, value, updated_at) VALUES (%s, %s, %s)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, p(1), p(2), dialect.Now),
		delSQL: fmt.Sprintf(`DELETE FROM blobs WHERE key = %s`, p(1)),
	}
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}

	return value, nil
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.putSQL, key, data); err != nil {
		return fmt.Errorf("failed to put blob: %w", err)
	}

	return nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, s.delSQL, key)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return blobstore.ErrNotFound
	}

	return nil
}

// Keys lists the stored keys in lexical order.
func (s *BlobStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM blobs ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan blob key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blobs: %w", err)
	}

	return keys, nil
}
