package db

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate applies every pending migration.
func Migrate(gdb *gorm.DB) error {
	return RunMigrations(gdb, "up")
}

// RunMigrations executes a goose command: up, down or status.
func RunMigrations(gdb *gorm.DB, command string) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(sqlDB, migrationsDir)
	case "down":
		return goose.Down(sqlDB, migrationsDir)
	case "status":
		return goose.Status(sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
