package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
)

// SQLiteKVStore is a durable string key/value store on kv_store. Keys are
// scoped, normally by profile id, so several users can share a database.
// It satisfies session.Storage.
type SQLiteKVStore struct {
	db    db.DBTX
	scope string
}

func NewSQLiteKVStore(conn db.DBTX, scope string) *SQLiteKVStore {
	return &SQLiteKVStore{db: conn, scope: scope}
}

func (s *SQLiteKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE scope = ? AND key = ?`, s.scope, key).Scan(&v)
	if err != nil {
		err = classify(err)
		if err == ErrNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLiteKVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.scope, key, value, nowUTC())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, classify(err))
	}
	return nil
}

// Remove is a no-op for a missing key.
func (s *SQLiteKVStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_store WHERE scope = ? AND key = ?`, s.scope, key)
	if err != nil {
		return fmt.Errorf("removing %s: %w", key, classify(err))
	}
	return nil
}
