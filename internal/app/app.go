// Package app initializes and runs the exercise tracker service.
// It configures logging, storage, metrics and routing,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/patric-chuzhbe/exercisetracker/internal/config"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/jsondb"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/memorystorage"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/mongodb"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/postgresdb"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/storage"
	"github.com/patric-chuzhbe/exercisetracker/internal/ipchecker"
	"github.com/patric-chuzhbe/exercisetracker/internal/logger"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
	"github.com/patric-chuzhbe/exercisetracker/internal/observability"
	"github.com/patric-chuzhbe/exercisetracker/internal/router"
	"github.com/patric-chuzhbe/exercisetracker/internal/service"
)

// App encapsulates the configuration, HTTP handler and storage backend
// needed to run the exercise tracker.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and opening storage
// - setting up the router and middleware
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(context.Background(), app.cfg)
	if err != nil {
		return nil, err
	}

	ipChecker, err := ipchecker.New(app.cfg.TrustedSubnet)
	if err != nil {
		return nil, errors.Join(err, app.db.Close())
	}

	app.httpHandler = router.New(
		service.New(app.db, service.WithMetrics(observability.Recorder{})),
		router.WithMetricsHandler(ipChecker.TrustedOnly(observability.Handler())),
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and closes the storage upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infow("server running", "RunAddr", a.cfg.RunAddr, "storage", storageTypeName(getAvailableStorageType(a.cfg)))

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing storage and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Join(fmt.Errorf("server shutdown error: %w", err), a.db.Close())
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return errors.Join(fmt.Errorf("server error: %w", err), a.db.Close())
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.MongoURI != "" {
		return models.StorageTypeMongo
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func storageTypeName(storageType int) string {
	switch storageType {
	case models.StorageTypePostgresql:
		return "postgresql"
	case models.StorageTypeMongo:
		return "mongodb"
	case models.StorageTypeFile:
		return "file"
	case models.StorageTypeMemory:
		return "memory"
	}

	return "unknown"
}

func getStorageByType(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(ctx, cfg.DatabaseDSN, cfg.DBConnectionTimeout)

	case models.StorageTypeMongo:
		return mongodb.New(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.DBConnectionTimeout)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
