// seed creates the first ADMIN from ADMIN_NAME, ADMIN_EMAIL and
// ADMIN_PASSWORD. Running it again is a no-op.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/config"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/db"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/logger"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.AdminEmail == "" || len(cfg.AdminPassword) < 8 {
		log.Fatal("ADMIN_EMAIL and an ADMIN_PASSWORD of at least 8 characters are required")
	}

	gdb, err := db.Connect(db.Options{DSN: cfg.DBDSN, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer func() { _ = db.Close(gdb) }()

	if err := db.Migrate(gdb); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, err := db.SeedAdmin(ctx, gdb, cfg.AdminName, cfg.AdminEmail, hash)
	switch {
	case errors.Is(err, db.ErrAdminExists):
		log.Info("admin already present, nothing to do", zap.String("email", cfg.AdminEmail))
	case err != nil:
		log.Fatal("seed admin", zap.Error(err))
	default:
		log.Info("admin created", zap.String("id", u.ID.String()), zap.String("email", u.Email))
	}
}
