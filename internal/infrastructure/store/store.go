// Package store opens the repository backend selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/art-marketplace/config"
	"github.com/ErlanBelekov/art-marketplace/internal/health"
	"github.com/ErlanBelekov/art-marketplace/internal/infrastructure/mongodb"
	"github.com/ErlanBelekov/art-marketplace/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/art-marketplace/internal/repository"
)

const (
	Postgres = "postgres"
	Mongo    = "mongo"
)

type Store struct {
	Identities repository.IdentityRepository
	Listings   repository.ListingRepository

	// Pingers is keyed by dependency name for the readiness check.
	Pingers map[string]health.Pinger
	Close   func()
}

// Open connects to the configured store and brings its schema or indexes up to date.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store {
	case Postgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Identities: postgres.NewIdentityRepository(pool),
			Listings:   postgres.NewListingRepository(pool),
			Pingers:    map[string]health.Pinger{"postgres": pool},
			Close:      pool.Close,
		}, nil

	case Mongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{
			Identities: mongodb.NewIdentityRepository(db),
			Listings:   mongodb.NewListingRepository(db),
			Pingers:    map[string]health.Pinger{"mongo": health.PingFunc(mongodb.Pinger(client))},
			Close:      func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
