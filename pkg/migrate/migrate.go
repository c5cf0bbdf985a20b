package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

const DefaultDir = "pkg/migrate/migrations"

// embeddedDir is the path of the migrations inside embeddedMigrations.
const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Dialect maps a storage driver onto the goose dialect name.
func Dialect(driver enums.StorageDriver) (string, error) {
	switch driver {
	case enums.StorageDriverPostgres:
		return "postgres", nil
	case enums.StorageDriverSQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("driver %q has no sql migrations", driver)
}

// Run executes a goose command against the migrations compiled into the binary.
func Run(ctx context.Context, db *sql.DB, driver enums.StorageDriver, command string, args ...string) error {
	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)
	return run(ctx, db, driver, embeddedDir, command, args...)
}

// RunDir executes a goose command against migrations read from dir on disk.
func RunDir(ctx context.Context, db *sql.DB, driver enums.StorageDriver, dir string, command string, args ...string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	goose.SetBaseFS(nil)
	return run(ctx, db, driver, dir, command, args...)
}

func run(ctx context.Context, db *sql.DB, driver enums.StorageDriver, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver enums.StorageDriver, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, embeddedDir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, embeddedDir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
