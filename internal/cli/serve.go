package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	wmstudio "github.com/ebalder/wmstudio"
	"github.com/ebalder/wmstudio/internal/cleanup"
	"github.com/ebalder/wmstudio/internal/config"
	"github.com/ebalder/wmstudio/internal/db"
	"github.com/ebalder/wmstudio/internal/server"
	"github.com/ebalder/wmstudio/internal/store"
)

func runServe(ctx context.Context, args []string, cfg *config.Config) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.ListenAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "wmstudio: serve takes no arguments")
		return 2
	}

	// Open template store
	st, err := store.New(cfg.DataDir)
	if err != nil {
		slog.Error("open template store", "error", err)
		return 1
	}

	// Open database
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		slog.Error("open database", "error", err)
		return 1
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database, wmstudio.MigrationFS); err != nil {
		slog.Error("run migrations", "error", err)
		return 1
	}
	slog.Info("database ready")

	// Start history pruner
	cleaner := &cleanup.Cleaner{
		DB:        database,
		Retention: time.Duration(cfg.HistoryDays) * 24 * time.Hour,
		Interval:  12 * time.Hour,
	}
	cleaner.Start(ctx)
	defer cleaner.Stop()

	// Rate limiter for the preview endpoint
	previewRL := server.NewRateLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
	defer previewRL.Stop()

	// Build handler and routes
	srv := server.New(cfg, st, database)
	httpSrv := &http.Server{
		Addr:    *addr,
		Handler: srv.Routes(previewRL),
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		httpSrv.Shutdown(context.Background())
	}()

	slog.Info("server starting", "addr", *addr, "data_dir", cfg.DataDir)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return 1
	}
	return 0
}
