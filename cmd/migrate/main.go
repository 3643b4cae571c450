package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"

	"github.com/jwalitptl/booking-api/internal/repository/postgres"
	"github.com/jwalitptl/booking-api/pkg/logger"
)

type Config struct {
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	MigrationsTable string        `envconfig:"MIGRATIONS_TABLE" default:"goose_db_version"`
	Timeout         time.Duration `envconfig:"MIGRATE_TIMEOUT" default:"2m"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

const usage = `usage: migrate <command>

commands:
  up       apply all pending migrations
  down     roll back the latest migration
  status   print the state of every migration
  version  print the current schema version`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	l := logger.New(logger.Config{Level: cfg.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	migrator, err := postgres.NewMigrator(db.DB, l)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to prepare migrations")
	}
	migrator.SetTable(cfg.MigrationsTable)

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "version":
		var v int64
		v, err = migrator.Version(ctx)
		if err == nil {
			fmt.Println(v)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal().Err(err).Msg("migration failed")
	}
}
