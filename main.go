package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayush-velhal/portfolio/internal/assets"
	"github.com/ayush-velhal/portfolio/internal/config"
	"github.com/ayush-velhal/portfolio/internal/content"
	"github.com/ayush-velhal/portfolio/internal/database"
	"github.com/ayush-velhal/portfolio/internal/logging"
	"github.com/ayush-velhal/portfolio/internal/metrics"
	"github.com/ayush-velhal/portfolio/internal/server"
	"github.com/ayush-velhal/portfolio/internal/store"
	"github.com/ayush-velhal/portfolio/internal/views"
	"github.com/ayush-velhal/portfolio/internal/visits"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 24 * time.Hour
)

var (
	flagPort string
	flagEnv  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio site with a local contact message log",
		SilenceUsage: true,
		// serve is the default command.
		RunE: runServe,
	}
	root.PersistentFlags().StringVar(&flagPort, "port", "", "listen port (overrides PORT)")
	root.PersistentFlags().StringVar(&flagEnv, "env", "", "development or production (overrides ENVIRONMENT)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE:  runServe,
	}

	root.AddCommand(serve, newMessagesCmd())
	return root
}

// loadConfig reads .env and the environment with command flags taking
// precedence.
func loadConfig() (*config.Config, error) {
	return config.LoadWithOverrides(config.Overrides{
		Port:        flagPort,
		Environment: flagEnv,
	}, ".env")
}

// app holds everything opened for one run so it can be closed together.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	store  store.MessageStore
}

// openApp loads configuration and opens the message store. The SQLite file
// is only opened when the store or, with withVisits, the visit tracker
// needs it.
func openApp(withVisits bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	needDB := cfg.StoreBackend == config.BackendSQLite
	if withVisits {
		needDB = cfg.NeedsSQLite()
	}
	if needDB {
		a.db, err = database.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		a.store, err = store.NewSQLiteStore(a.db, cfg.SQLitePath, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize message store: %w", err)
		}
	default:
		a.store = store.NewCSVStore(cfg.MessagesPath, logger)
	}
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Error closing database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, logger := a.cfg, a.logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	src, err := content.NewSource(cfg.ContentPath, logger)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	m := metrics.New()
	gate := assets.NewFSGate(os.DirFS(cfg.AssetsDir), "/images", m.RecordMissingAsset)

	routerOpts := []views.RouterOption{
		views.WithRenderHook(func(v views.View) { m.RecordView(v.Slug()) }),
	}
	if cfg.ShowMessages {
		routerOpts = append(routerOpts, views.WithMessages(a.store))
	}
	router := views.NewRouter(src, gate, routerOpts...)

	var tracker *visits.Tracker
	if cfg.TrackVisits {
		if tracker, err = visits.NewTracker(a.db, cfg.VisitSalt, logger); err != nil {
			return fmt.Errorf("failed to initialize visit tracking: %w", err)
		}
		logger.Info("Privacy: visit tracking enabled with hashed IP addresses")
	}

	srv, err := server.New(server.Deps{
		Router:    router,
		Store:     a.store,
		Metrics:   m,
		Tracker:   tracker,
		Logger:    logger,
		AssetsDir: cfg.AssetsDir,
	})
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server",
			zap.String("addr", httpServer.Addr),
			zap.String("environment", cfg.Environment),
			zap.String("store", a.store.Location()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.WatchContent {
		g.Go(func() error {
			return src.Watch(gctx)
		})
	}

	if tracker != nil {
		g.Go(func() error {
			runCleanup(gctx, tracker, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// runCleanup drops expired visits at startup and then once a day.
func runCleanup(ctx context.Context, tracker *visits.Tracker, logger *zap.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		if _, err := tracker.Cleanup(); err != nil {
			logger.Error("Error cleaning up old visit data", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
