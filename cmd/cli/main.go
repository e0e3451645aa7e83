package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	dbembed "github.com/benpsk/item-service/db"
	"github.com/benpsk/item-service/internal/config"
	"github.com/benpsk/item-service/internal/logging"
	"github.com/benpsk/item-service/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	defaultMigrationsDir = "db/migrations"
	defaultSeedersDir    = "db/seeders"
	usage                = "usage: %s [migrate|seed|fresh|dump] [options]"
)

var logger zerolog.Logger

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	logger = logging.New(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})

	if len(os.Args) < 2 {
		logger.Fatal().Msgf(usage, os.Args[0])
	}

	switch os.Args[1] {
	case "migrate":
		runMigrate(os.Args[2:])
	case "seed":
		runSeed(os.Args[2:])
	case "fresh":
		runFresh(os.Args[2:])
	case "dump":
		runDump(os.Args[2:])
	default:
		logger.Fatal().Msgf(usage, os.Args[0])
	}
}

func runMigrate(args []string) {
	flags := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrationsDir := flags.String("path", defaultMigrationsDir, "directory containing .sql migrations (overrides embedded bundle)")
	_ = flags.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	_, pool := connect(ctx)
	defer pool.Close()

	applied, err := migrate(ctx, pool, *migrationsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	report("migrate", applied)
}

func runSeed(args []string) {
	flags := flag.NewFlagSet("seed", flag.ExitOnError)
	seedersDir := flags.String("path", defaultSeedersDir, "directory containing .sql seeders (overrides embedded bundle)")
	_ = flags.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	_, pool := connect(ctx)
	defer pool.Close()

	applied, err := seed(ctx, pool, *seedersDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed")
	}
	report("seed", applied)
}

func runFresh(args []string) {
	flags := flag.NewFlagSet("fresh", flag.ExitOnError)
	migrationsDir := flags.String("path", defaultMigrationsDir, "directory containing .sql migrations (overrides embedded bundle)")
	withSeed := flags.Bool("seed", false, "apply seed files after migrations")
	seedersDir := flags.String("seed-path", defaultSeedersDir, "directory containing .sql seeders (overrides embedded bundle)")
	_ = flags.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, pool := connect(ctx)
	defer pool.Close()

	if cfg.AppEnv != "development" {
		logger.Fatal().Str("app_env", cfg.AppEnv).Msg("fresh: APP_ENV must be development")
	}
	if err := postgres.ResetSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("fresh")
	}

	applied, err := migrate(ctx, pool, *migrationsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("fresh")
	}
	report("fresh", applied)

	if !*withSeed {
		return
	}
	seeded, err := seed(ctx, pool, *seedersDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("fresh")
	}
	report("fresh seed", seeded)
}

func runDump(args []string) {
	flags := flag.NewFlagSet("dump", flag.ExitOnError)
	out := flags.String("out", defaultDumpPath(), "output file path")
	schemaOnly := flags.Bool("schema-only", false, "dump schema only")
	dataOnly := flags.Bool("data-only", false, "dump data only")
	binary := flags.String("pg-dump-bin", "pg_dump", "pg_dump binary path")
	_ = flags.Parse(args)

	if *schemaOnly && *dataOnly {
		logger.Fatal().Msg("dump: choose only one of -schema-only or -data-only")
	}

	cfg := loadConfig()

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.Fatal().Err(err).Msg("dump: mkdir output dir")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	argsOut := []string{
		"--dbname", cfg.Database.URL,
		"--format=plain",
		"--no-owner",
		"--no-privileges",
		"--table", "items",
		"--file", *out,
	}
	if *schemaOnly {
		argsOut = append(argsOut, "--schema-only")
	}
	if *dataOnly {
		argsOut = append(argsOut, "--data-only")
	}

	cmd := exec.CommandContext(ctx, *binary, argsOut...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Info().Str("bin", *binary).Str("out", *out).Msg("dump: running")
	if err := cmd.Run(); err != nil {
		logger.Fatal().Err(err).Msg("dump")
	}
	fmt.Printf("dump written: %s\n", *out)
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	return cfg
}

func connect(ctx context.Context) (config.Config, *pgxpool.Pool) {
	cfg := loadConfig()
	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("database")
	}
	return cfg, pool
}

// migrate applies pending migrations from dir, or from the embedded bundle
// when dir is the default and does not exist on disk.
func migrate(ctx context.Context, pool *pgxpool.Pool, dir string) ([]string, error) {
	useEmbedded, err := shouldUseEmbedded(dir, defaultMigrationsDir)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureTable(ctx, pool); err != nil {
		return nil, err
	}
	if !useEmbedded {
		return postgres.Apply(ctx, pool, dir)
	}
	migrationsFS, err := fs.Sub(dbembed.Migrations, "migrations")
	if err != nil {
		return nil, err
	}
	return postgres.ApplyFS(ctx, pool, migrationsFS)
}

func seed(ctx context.Context, pool *pgxpool.Pool, dir string) ([]string, error) {
	useEmbedded, err := shouldUseEmbedded(dir, defaultSeedersDir)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSeedTable(ctx, pool); err != nil {
		return nil, err
	}
	if !useEmbedded {
		return postgres.Seed(ctx, pool, dir)
	}
	seedersFS, err := fs.Sub(dbembed.Seeders, "seeders")
	if err != nil {
		return nil, err
	}
	return postgres.SeedFS(ctx, pool, seedersFS)
}

func report(step string, applied []string) {
	if len(applied) == 0 {
		logger.Info().Msgf("%s: nothing to apply", step)
		return
	}
	for _, name := range applied {
		logger.Info().Str("file", name).Msgf("%s: applied", step)
	}
}

func defaultDumpPath() string {
	return filepath.Join("tmp", "dump-"+time.Now().Format("20060102-150405")+".sql")
}

func shouldUseEmbedded(path, defaultPath string) (bool, error) {
	if path == "" {
		return true, nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, fmt.Errorf("path %q is not a directory", path)
		}
		return false, nil
	case errors.Is(err, os.ErrNotExist):
		if path == defaultPath {
			return true, nil
		}
		return false, fmt.Errorf("path %q not found", path)
	default:
		return false, fmt.Errorf("stat path %q: %w", path, err)
	}
}
