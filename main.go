package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/event"
	"github.com/danielhkuo/quickly-vote/journal"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/router"
)

func main() {
	var err error

	// Pick up a local .env before reading configuration
	if err := cliparse.LoadEnvFile(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := journal.New(dbConn)
	bus := event.NewEventBus(registry, slog.Default())

	l, err := ledger.New(ledger.Config{
		Admin:        ledger.Address(cfg.AdminAddress),
		Log:          store,
		EventBus:     bus,
		PromRegistry: registry,
	})
	if err != nil {
		slog.Error("ledger setup failed", "error", err)
		os.Exit(1)
	}

	// Rebuild state from the journal
	replayed, err := store.Restore(ctx, l)
	if err != nil {
		slog.Error("journal restore failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Ledger restored", "events", replayed, "seq", l.Seq(), "sessions", l.SessionCount())

	// Trace committed events at debug level
	bus.SubscribeFunc(func(evt event.Event) {
		slog.Debug("event committed", "type", evt.Type, "time", evt.Timestamp)
	}, []event.EventType{
		event.EventType(ledger.EventSessionCreated),
		event.EventType(ledger.EventSessionStarted),
		event.EventType(ledger.EventSessionEnded),
	}...)

	// Create router
	mux := router.NewRouter(router.Deps{
		Ledger:   l,
		Journal:  store,
		Bus:      bus,
		Gatherer: registry,
	}, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		// Closing subscribers ends open event streams
		bus.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "admin", cfg.AdminAddress)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
