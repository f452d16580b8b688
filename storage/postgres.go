package storage

import (
	"context"
	"errors"
	"fmt"

	"Duet/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	if _, err := RunMigrations(databaseURL); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	config.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

func (p *PostgresStorage) GetMode(ctx context.Context, userId int64) (core.Mode, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var value string
	err := p.pool.QueryRow(ctx, `SELECT mode FROM user_modes WHERE user_id = $1`, userId).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.DefaultMode, nil
	}
	if err != nil {
		return core.DefaultMode, fmt.Errorf("get mode: %w", err)
	}
	return core.ParseMode(value), nil
}

func (p *PostgresStorage) SetMode(ctx context.Context, userId int64, mode core.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("set mode %q: %w", mode, core.ErrInvalidMode)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := p.pool.Exec(ctx, `
		INSERT INTO user_modes (user_id, mode)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET mode = EXCLUDED.mode
	`, userId, mode.String())
	if err != nil {
		return fmt.Errorf("upsert mode: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
