package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	ord "github.com/MikeMC777/orders-api/internal/order"
)

type store interface {
	ord.Repository
	ord.Pinger
}

// openStore picks the backend from the scheme of the store URI.
func openStore(ctx context.Context, uri, mongoDB string, logger *log.Entry) (store, func(), error) {
	switch {
	case uri == "" || strings.HasPrefix(uri, "memory://"):
		logger.Warn("no STORE_URI configured, orders are kept in memory")
		return ord.NewMemoryRepo(), func() {}, nil

	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		pool, err := pgxpool.New(ctx, uri)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := ord.NewPGRepo(pool)
		if err := repo.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("postgres connected")
		return repo, pool.Close, nil

	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		repo, err := ord.OpenMongoRepo(ctx, uri, mongoDB)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("database", mongoDB).Info("mongodb connected")
		return repo, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.Close(ctx); err != nil {
				logger.WithError(err).Warn("mongodb disconnect")
			}
		}, nil

	default:
		scheme, _, _ := strings.Cut(uri, "://")
		return nil, nil, fmt.Errorf("unsupported store scheme %q", scheme)
	}
}
