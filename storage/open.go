package storage

import (
	"context"
	"fmt"
	"log/slog"

	"Duet/core"
)

// Open connects the mode storage selected by conf.Storage.Driver.
func Open(ctx context.Context, conf *core.Config, log *slog.Logger) (ModeStorage, error) {
	var (
		store ModeStorage
		err   error
	)

	switch conf.Storage.Driver {
	case core.StorageMemory:
		return NewMemoryStorage(), nil
	case core.StorageSQLite:
		var s *SQLiteStorage
		if s, err = NewSQLiteStorage(conf.Storage.SQLitePath); err == nil {
			store = s
		}
	case core.StoragePostgres:
		var s *PostgresStorage
		if s, err = NewPostgresStorage(ctx, conf.Storage.PostgresURL); err == nil {
			store = s
		}
	case core.StorageMongo:
		var s *MongoStorage
		if s, err = NewMongoStorage(conf.MongoURI(), conf.Mongo.Database, log); err == nil {
			store = s
		}
	default:
		err = fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", conf.Storage.Driver, err)
	}
	return store, nil
}
