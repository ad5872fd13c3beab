package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dcastano/veloshop-backend/pkg/config"
	"github.com/dcastano/veloshop-backend/pkg/db"
	"github.com/dcastano/veloshop-backend/pkg/logger"
	"github.com/dcastano/veloshop-backend/pkg/migrate"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up        apply every pending migration
  down      roll back the most recent migration
  status    print applied/pending migrations
  version   migrate to the version given with -to
  create    scaffold a timestamped SQL migration named with -name
  validate  check migration filenames and ordering without a database

The database connection comes from %s, or from the
%s/%s/VELOSHOP_DB_PASSWORD/%s set when no DSN is given.

Flags:
`, config.EnvDBDSN, config.EnvDBHost, config.EnvDBUser, config.EnvDBName)
	flag.PrintDefaults()
}

func main() {
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "new migration name, lowercase with underscores (create)")
	target := flag.String("to", "", "target version YYYYMMDDHHMMSS (version)")
	flag.Usage = usage
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	_ = godotenv.Load()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	if err := run(logg, command, *dir, *name, *target); err != nil {
		logg.Error(context.Background(), "migration command failed", err)
		os.Exit(1)
	}
}

func run(logg *logger.Logger, command, dir, name, target string) error {
	// create and validate work offline, before any config or DB is needed
	switch command {
	case "create":
		if name == "" {
			return fmt.Errorf("create needs -name")
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(dir); err != nil {
			return err
		}
		fmt.Println("migrations look consistent")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"command": command,
		"dir":     dir,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("unwrap sql handle: %w", err)
	}

	logg.Info(ctx, "running migrations")

	switch command {
	case "up", "down", "status":
		return migrate.Run(ctx, sqlDB, dir, command)
	case "version":
		if target == "" {
			return fmt.Errorf("version needs -to")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dir, target)
	default:
		return fmt.Errorf("unknown command %q, see migrate -h", command)
	}
}
