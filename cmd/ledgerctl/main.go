// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command ledgerctl inspects and verifies a quickly-vote journal offline.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
)

const programName = "ledgerctl"

type globalOptions struct {
	dbURL  string
	dbType string
	debug  bool
}

func main() {
	if err := newRootCommand(os.Stdin).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Inspect and verify a quickly-vote event journal",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cliparse.LoadEnvFile(); err != nil {
				return err
			}
			commonRun(cmd.ErrOrStderr(), opts.debug)
			if opts.dbURL == "" {
				opts.dbURL = os.Getenv("DATABASE_URL")
			}
			if opts.dbType == "" {
				opts.dbType = os.Getenv("DATABASE_TYPE")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().
		StringVar(&opts.dbURL, "db", "", "database URL (default $DATABASE_URL)")
	rootCmd.PersistentFlags().
		StringVar(&opts.dbType, "db-type", "", "database type, sqlite or postgres (default $DATABASE_TYPE or sqlite)")
	rootCmd.PersistentFlags().
		BoolVarP(&opts.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(eventsCommand(opts))
	rootCmd.AddCommand(verifyCommand(opts))
	rootCmd.AddCommand(signCommand(stdin))
	return rootCmd
}

func commonRun(w io.Writer, debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: debug,
			Level:     logLevel,
		}),
	).With("component", programName)
	slog.SetDefault(logger)
	return logger
}

// openJournal opens the configured database and ensures the schema exists.
func (o *globalOptions) openJournal(ctx context.Context) (*sql.DB, error) {
	if o.dbURL == "" {
		return nil, fmt.Errorf("database URL is required (--db or DATABASE_URL)")
	}
	conn, err := db.Open(ctx, o.dbType, o.dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
