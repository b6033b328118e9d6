package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wheelhouse/cmd"
	"wheelhouse/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			err = handleMigrationCommand(os.Args[2:])
		case "grant":
			err = cmd.Grant(ctx, os.Args[2:], os.Stdout)
		case "edge":
			err = cmd.Edge(os.Args[2:], os.Stdout)
		default:
			err = fmt.Errorf("unknown command %q (want migrate, grant or edge)", os.Args[1])
		}
	} else {
		err = cmd.Run(ctx)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: wheelhouse migrate [up|down|status] [args...]")
	}

	// Read directly so migrations don't need the full service config
	databaseURL := database.ConstructDatabaseURL(os.Getenv("DATABASE_URL"), os.Getenv("DATABASE_NAME"))
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch args[0] {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		return database.MigrateStatus(databaseURL)
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
