package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/truck-tracker/internal/config"
	"github.com/pkordes/truck-tracker/internal/repo"
	"github.com/pkordes/truck-tracker/migrations"
)

// startupCheckTimeout bounds the reachability checks run at startup.
var startupCheckTimeout = 5 * time.Second

// openTripRepo connects to the backend named by cfg.DatabaseURL and returns
// the TripRepo over it together with a function that releases the connection.
// An unreachable backend is logged, not fatal: the repo is still returned and
// each request fails on its own. Only an unknown URL scheme is an error.
func openTripRepo(ctx context.Context, cfg config.Config) (repo.TripRepo, func(), error) {
	switch repo.BackendFor(cfg.DatabaseURL) {
	case repo.BackendMongo:
		return openMongo(ctx, cfg)
	case repo.BackendPostgres:
		return openPostgres(ctx, cfg)
	default:
		return nil, nil, errors.New("unsupported DATABASE_URL scheme (want mongodb:// or postgres://)")
	}
}

func openMongo(ctx context.Context, cfg config.Config) (repo.TripRepo, func(), error) {
	// Connect only validates the URI; the driver dials on first use.
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DatabaseURL))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Warn("mongo disconnect", "error", err)
		}
	}

	coll := client.Database(cfg.DatabaseName).Collection(cfg.TripsCollection)

	checkCtx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()
	if err := client.Ping(checkCtx, nil); err != nil {
		slog.Warn("mongo unreachable at startup; requests will fail until it is", "error", err)
	} else if err := repo.EnsureMongoIndexes(checkCtx, coll); err != nil {
		slog.Warn("mongo indexes not created", "error", err)
	} else {
		slog.Info("trip store ready", "backend", "mongo", "database", cfg.DatabaseName, "collection", cfg.TripsCollection)
	}
	return repo.NewMongoTripRepo(coll), closeFn, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (repo.TripRepo, func(), error) {
	// pgxpool.New only parses the DSN; connections are opened on demand.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()
	if err := pool.Ping(checkCtx); err != nil {
		slog.Warn("postgres unreachable at startup; requests will fail until it is", "error", err)
	} else if err := migrate(checkCtx, cfg.DatabaseURL); err != nil {
		slog.Warn("postgres migrations not applied", "error", err)
	} else {
		slog.Info("trip store ready", "backend", "postgres")
	}
	return repo.NewPgTripRepo(pool), pool.Close, nil
}

// migrate runs the goose migrations through database/sql, which goose
// drives; the repo itself uses the native pgx pool.
func migrate(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open postgres for migrations: %w", err)
	}
	defer sqlDB.Close()
	return migrations.Up(ctx, sqlDB)
}
