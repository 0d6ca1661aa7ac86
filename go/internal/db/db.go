// Package db owns the Postgres connection pool and schema migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Connect opens a pgx pool and waits for the database to become reachable,
// retrying for up to 30 seconds so the service survives a database that is
// still starting.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10

	deadline := time.Now().Add(30 * time.Second)
	var pool *pgxpool.Pool
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		pool, err = pgxpool.NewWithConfig(attemptCtx, cfg)
		if err == nil {
			if pingErr := pool.Ping(attemptCtx); pingErr == nil {
				cancel()
				break
			} else {
				pool.Close()
				err = pingErr
			}
		}
		cancel()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("connect to database after retries: %w", err)
		}
		time.Sleep(time.Second)
	}

	log.Info().Msg("connected to database")
	return pool, nil
}
