package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"cloudpico-analyzer/internal/config"
	"cloudpico-analyzer/internal/db"
	"cloudpico-analyzer/internal/logging"
)

const appName = "analyzer-tools"

var version = "dev"

const usage = `usage: %s <command>
  migrate      apply pending archive migrations
  runs [n]     list the latest n archived runs (default 20)
  show <id>    print statistics and records of one run
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.ArchivePath == "" {
		fmt.Fprintln(os.Stderr, "ARCHIVE_SQLITE_PATH is not set")
		os.Exit(1)
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	conn, err := db.Open(cfg.ArchivePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	if err := runCommand(context.Background(), conn, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintf(os.Stderr, usage, os.Args[0])
		}
		_ = db.Close(conn)
		os.Exit(1)
	}
}
