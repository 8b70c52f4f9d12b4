package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/prepstock/internal/blobstore"
	"github.com/vbonduro/prepstock/internal/blobstore/local"
	"github.com/vbonduro/prepstock/internal/cli"
	"github.com/vbonduro/prepstock/internal/config"
	"github.com/vbonduro/prepstock/internal/db"
	"github.com/vbonduro/prepstock/internal/inventory"
	"github.com/vbonduro/prepstock/internal/logging"
	"github.com/vbonduro/prepstock/internal/service"
	"github.com/vbonduro/prepstock/internal/store"
	"github.com/vbonduro/prepstock/internal/web"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return cli.ExitUsage
	}

	// One-shot commands only log warnings unless LOG_LEVEL says otherwise.
	level := cfg.LogLevel
	if _, set := os.LookupEnv("LOG_LEVEL"); !set && (len(args) == 0 || args[0] != "serve") {
		level = "warn"
	}
	logger, cleanup, err := logging.New(level, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return cli.ExitError
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, closer, err := openBlobStore(cfg)
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.DataBackend, "error", err)
		return cli.ExitError
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	inv := inventory.Open(ctx, blobs, inventory.WithLogger(logger))
	svc := service.NewInventoryService(inv, time.Now, logger)

	runner := cli.NewRunner(svc, cli.Options{
		Out:   os.Stdout,
		Err:   os.Stderr,
		Theme: cli.NewTheme(cfg.Theme),
		Serve: func(ctx context.Context) error {
			return web.NewServer(svc, time.Now, logger).ListenAndServe(ctx, cfg.ListenAddr)
		},
	})
	return runner.Run(ctx, args)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openBlobStore(cfg *config.Config) (blobstore.BlobStore, io.Closer, error) {
	var (
		database *sql.DB
		dialect  store.Dialect
		err      error
	)
	switch cfg.DataBackend {
	case config.BackendLocal:
		s, err := local.NewLocalBlobStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case config.BackendPostgres:
		database, err = db.OpenPostgres(cfg.DatabaseURL)
		dialect = store.Postgres
	default:
		database, err = db.Open(cfg.DBPath)
		dialect = store.SQLite
	}
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("storage opened", "backend", cfg.DataBackend)
	return store.NewBlobStore(database, dialect), database, nil
}
