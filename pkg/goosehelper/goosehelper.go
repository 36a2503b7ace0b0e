package goosehelper

import (
	"database/sql"
	"fmt"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// MigrateUp выполняет миграции из директории migrationsDir
func MigrateUp(db *sql.DB, migrationsDir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	version, err := goose.GetDBVersion(db)
	if err != nil {
		return err
	}
	log.Infof("Миграции применены, версия схемы: %d", version)
	return nil
}
