// Command migrate applies the embedded schema migrations, for deployments
// that run the API with DB_AUTO_MIGRATE=false.
//
// With -check it only verifies connectivity and reports the schema version.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"pulse-shop/internal/config"
	"pulse-shop/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

func main() {
	checkOnly := flag.Bool("check", false, "Only check connectivity and report the schema version")
	flag.Parse()

	if err := run(*checkOnly); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(checkOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	connString := cfg.Database.ConnectionString()

	if !checkOnly {
		if err := database.Migrate(connString, logger); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return report(ctx, connString, logger)
}

// report logs the connected database and its migration state.
func report(ctx context.Context, connString string, logger zerolog.Logger) error {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query current database: %w", err)
	}

	var (
		version int64
		dirty   bool
	)
	err = conn.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations LIMIT 1").Scan(&version, &dirty)

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == undefinedTable, errors.Is(err, pgx.ErrNoRows):
		logger.Warn().Str("database", dbName).Msg("connected, no migrations applied yet")
		return nil
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info().
		Str("database", dbName).
		Int64("version", version).
		Bool("dirty", dirty).
		Msg("connected to database")

	if dirty {
		return fmt.Errorf("schema version %d is dirty, fix it manually before migrating again", version)
	}

	return nil
}
