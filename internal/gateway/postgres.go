package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/repo"
	"github.com/pkordes/product-registry/migrations"
)

// PostgresConfig configures PostgresConnector.
type PostgresConfig struct {
	DatabaseURL string
	Migrate     bool // apply pending goose migrations after connecting
}

// PostgresConnector returns a ConnectFunc that opens a pgx pool, pings it
// and optionally migrates the schema. An empty DatabaseURL yields a
// not-configured error on every attempt.
func PostgresConnector(cfg PostgresConfig, log *slog.Logger) ConnectFunc {
	return func(ctx context.Context) (*Remote, error) {
		const op = "gateway.PostgresConnector"
		if cfg.DatabaseURL == "" {
			return nil, domain.NewStoreError(domain.KindNotConfigured, op, errors.New("DATABASE_URL is empty"))
		}

		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, domain.NewStoreError(domain.KindNotConfigured, op, fmt.Errorf("parse database url: %w", err))
		}
		// pgxpool.NewWithConfig does not open connections immediately; Ping does.
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, domain.NewStoreError(domain.KindNotConfigured, op, err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, domain.NewStoreError(domain.KindTransient, op, fmt.Errorf("ping: %w", err))
		}

		if cfg.Migrate {
			if err := migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, domain.NewStoreError(domain.KindNotFound, op, fmt.Errorf("migrate: %w", err))
			}
		}

		log.InfoContext(ctx, "remote store connected", "host", poolCfg.ConnConfig.Host)
		return &Remote{
			Registrations: repo.NewRegistrationRepo(pool),
			References:    repo.NewReferenceRepo(pool),
			Categories:    repo.NewProductCategoryRepo(pool),
			Close:         pool.Close,
		}, nil
	}
}

// migrate applies every pending embedded migration through a database/sql
// view of the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
