package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS client_storage (
	scope      TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (scope, key)
);
`

type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM client_storage WHERE scope = ? AND key = ?`, scope, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "get %s", key)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, scope, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO client_storage (scope, key, value, updated_at) VALUES (?, ?, ?, ?)`,
		scope, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return eris.Wrapf(err, "set %s", key)
}

func (s *SQLiteStore) Delete(ctx context.Context, scope, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM client_storage WHERE scope = ? AND key = ?`, scope, key)
	return eris.Wrapf(err, "delete %s", key)
}
