package sqlite

import (
	"context"
	"database/sql"
	"log"

	"genmock-studio/core"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type sqliteKV struct {
	db *sql.DB
}

// NewKV creates a new SQLite-backed key-value store.
func NewKV(dataSourceName string) *sqliteKV {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	stmt := `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB);`
	if _, err = db.Exec(stmt); err != nil {
		log.Fatalf("failed to create kv table: %v", err)
	}

	return &sqliteKV{db}
}

func (s *sqliteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrNotFound
		}
		logrus.WithField("key", key).WithError(err).Error("Failed to read value")
		return nil, err
	}
	return value, nil
}

func (s *sqliteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Error("Failed to write value")
	}
	return err
}

func (s *sqliteKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

func (s *sqliteKV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
