package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mkotlarz/streampulse/internal/config"
	"github.com/mkotlarz/streampulse/internal/httpapi"
	"github.com/mkotlarz/streampulse/internal/persistence"
	"github.com/mkotlarz/streampulse/internal/service"
	"github.com/mkotlarz/streampulse/pkg/log"
)

// dataService is the lifecycle surface of the dataset service used by run.
type dataService interface {
	Start(ctx context.Context) error
	Stop()
}

// httpServer is the surface of the API server used by run.
type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.Log.Level))

	store, err := persistence.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatal("Failed to open store: %v", err)
	}
	defer store.Close()

	svc := service.New(cfg, store)
	api := httpapi.NewServer(svc,
		httpapi.WithUI(cfg.Server.UIDir, cfg.Server.UIEnabled),
		httpapi.WithTopTitlesDefault(cfg.Dataset.TopTitles),
		httpapi.WithHolidayDefaults(cfg.HolidayTimes(), cfg.Dataset.HolidayWindow),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, svc, api); err != nil {
		log.Fatal("Server exited: %v", err)
	}
}

// run starts the dataset service and the HTTP server, then blocks until the
// context is cancelled or the server fails.
func run(ctx context.Context, cfg *config.Config, svc dataService, srv httpServer) error {
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe(cfg.Server.Addr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
