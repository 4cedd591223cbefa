package persist

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// migrationsDir is the embedded directory holding the snapshot schema.
const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

func useEmbedded() error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}

// SchemaVersion is the newest snapshot schema version built into the binary.
func SchemaVersion() (int64, error) {
	if err := useEmbedded(); err != nil {
		return 0, err
	}
	ms, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}
	last, err := ms.Last()
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}
	return last.Version, nil
}

// RunMigrations brings the snapshot schema up to date and returns the
// version the database ends on. A database ahead of the binary is an error,
// since scene_snapshots rows may then carry columns this build cannot write.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	want, err := SchemaVersion()
	if err != nil {
		return 0, err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	got, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if got != want {
		return got, fmt.Errorf("snapshot schema at version %d, binary expects %d", got, want)
	}
	return got, nil
}
