package main

import (
	"context"
	"fmt"

	"github.com/jonathan/user-news-etl/internal/config"
	"github.com/jonathan/user-news-etl/internal/db"
	"github.com/jonathan/user-news-etl/internal/records"
)

// openStore builds the record store named by cfg.Store. The returned close
// function is always safe to call.
func openStore(ctx context.Context, cfg *config.Config) (records.Store, func(), error) {
	kind, err := cfg.StoreKind()
	if err != nil {
		return nil, func() {}, err
	}

	switch kind {
	case config.StorePostgres:
		database, err := db.Connect(ctx, cfg.Store)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to connect to record store: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, func() {}, err
		}
		return db.NewUserStore(database, db.DefaultCacheName), database.Close, nil

	case config.StoreRedis:
		store, err := records.OpenRedisStore(ctx, cfg.Store, records.DefaultRedisKey)
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return records.NewFileStore(cfg.StorePath()), func() {}, nil
	}
}

// openRecorder connects the optional run history database. A nil DB means
// history is disabled.
func openRecorder(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
