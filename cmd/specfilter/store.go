package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/boltdb/bolt"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/specification/boltengine"
	"github.com/AntonStoeckl/specification-filter-go/specification/memoryengine"
	"github.com/AntonStoeckl/specification-filter-go/specification/observable"
	"github.com/AntonStoeckl/specification-filter-go/specification/oteladapters"
	"github.com/AntonStoeckl/specification-filter-go/specification/postgresengine"
)

const boltOpenTimeout = time.Second

type closeFunc func()

// openStore opens the configured store and wraps it with logging plus any extra observability options.
// The memory store starts with the seed records, the persistent stores ignore them.
func openStore(
	ctx context.Context,
	cfg config,
	handler slog.Handler,
	seed specification.Records,
	observabilityOptions ...observable.Option,
) (specification.RecordStore, closeFunc, error) {

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	var inner specification.RecordStore
	closer := closeFunc(func() {})

	switch cfg.Store {
	case storeMemory:
		inner = memoryengine.NewRecordStore(seed...)

	case storeBolt:
		db, err := bolt.Open(cfg.BoltPath, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
		if err != nil {
			return nil, nil, err
		}

		boltStore, err := boltengine.NewRecordStore(db, boltengine.WithBucketName(cfg.Table), boltengine.WithLogger(logger))
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		inner = boltStore
		closer = func() { _ = db.Close() }

	case storePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		postgresStore, err := postgresengine.NewRecordStoreFromPGXPool(
			pool,
			postgresengine.WithTableName(cfg.Table),
			postgresengine.WithLogger(logger),
			postgresengine.WithInMemoryFallback(),
		)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		inner = postgresStore
		closer = pool.Close

	default:
		return nil, nil, errors.Join(ErrInvalidConfig, errors.New("unknown store "+cfg.Store))
	}

	options := append(
		[]observable.Option{observable.WithStoreName(cfg.Store), observable.WithContextualLogger(logger)},
		observabilityOptions...,
	)

	store, err := observable.NewRecordStore(inner, options...)
	if err != nil {
		closer()
		return nil, nil, err
	}

	return store, closer, nil
}
