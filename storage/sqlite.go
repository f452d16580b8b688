package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"Duet/core"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database file at path and applies
// migrations.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory %s: %w", dir, err)
		}
	}

	if _, err := RunMigrations("sqlite3://" + path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging db at %s: %w", path, err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) GetMode(ctx context.Context, userId int64) (core.Mode, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT mode FROM user_modes WHERE user_id = ?`, userId).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultMode, nil
	}
	if err != nil {
		return core.DefaultMode, fmt.Errorf("finding mode: %w", err)
	}
	return core.ParseMode(value), nil
}

func (s *SQLiteStorage) SetMode(ctx context.Context, userId int64, mode core.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("set mode %q: %w", mode, core.ErrInvalidMode)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_modes (user_id, mode)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET mode = excluded.mode
	`, userId, mode.String())
	if err != nil {
		return fmt.Errorf("upserting mode: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
