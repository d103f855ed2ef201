// migrate applies the embedded goose migrations: migrate up|down|status.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/config"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/db"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/logger"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command := args[0]

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

	gdb, err := db.Connect(db.Options{DSN: cfg.DBDSN, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer func() { _ = db.Close(gdb) }()

	switch command {
	case "up", "down", "status":
		if err := db.RunMigrations(gdb, command); err != nil {
			log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
		}
		log.Info("migration finished", zap.String("command", command))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		flag.Usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage: migrate <command>")
	fmt.Println("  up      apply all pending migrations")
	fmt.Println("  down    roll back the latest migration")
	fmt.Println("  status  print migration status")
}
