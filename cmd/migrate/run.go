package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/migrate"
)

// runCommand uses the embedded migrations unless an explicit directory is given.
func runCommand(ctx context.Context, db *sql.DB, driver enums.StorageDriver, dir, command string) error {
	if dir == "" {
		return migrate.Run(ctx, db, driver, command)
	}
	return migrate.RunDir(ctx, db, driver, dir, command)
}

func dirOrDefault(dir string) string {
	if dir == "" {
		return migrate.DefaultDir
	}
	return dir
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
