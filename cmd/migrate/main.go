// Command migrate applies the Cereal database schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cerealdev/cereal/internal/config"
	"github.com/cerealdev/cereal/internal/db"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dbURL  = flag.String("db", "", "Postgres URL (defaults to DATABASE_URL)")
		status = flag.Bool("status", false, "Show applied and pending migrations without applying")
		list   = flag.Bool("list", false, "List embedded migrations without connecting")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: migrate [flags]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Applies pending Cereal schema migrations, newest last.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") != string(config.EnvProduction) {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if *list {
		migrations, err := db.GetMigrations()
		if err != nil {
			logger.Error().Err(err).Msg("failed to read embedded migrations")
			return 1
		}
		for _, m := range migrations {
			fmt.Printf("%03d  %s\n", m.Version, m.Name)
		}
		return 0
	}

	url := *dbURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		fmt.Fprintln(os.Stderr, "migrate: database URL required (-db flag or DATABASE_URL)")
		flag.Usage()
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := db.DefaultConfig(url)
	cfg.MaxConns = 2
	cfg.MinConns = 1

	database, err := db.New(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return 1
	}
	defer database.Close()

	if *status {
		return printStatus(ctx, database, logger)
	}

	logger.Info().Msg("applying pending migrations")
	if err := database.Migrate(ctx); err != nil {
		logger.Error().Err(err).Msg("migration failed")
		return 1
	}

	version, err := database.CurrentVersion(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not read schema version")
		return 0
	}
	logger.Info().Int("version", version).Msg("schema up to date")
	return 0
}

func printStatus(ctx context.Context, database *db.DB, logger zerolog.Logger) int {
	migrations, err := db.GetMigrations()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read embedded migrations")
		return 1
	}
	current, err := database.CurrentVersion(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read schema version")
		return 1
	}

	pending := 0
	for _, m := range migrations {
		state := "applied"
		if m.Version > current {
			state = "pending"
			pending++
		}
		fmt.Printf("%03d  %-8s %s\n", m.Version, state, m.Name)
	}
	fmt.Printf("schema version %d, %d pending\n", current, pending)
	return 0
}
