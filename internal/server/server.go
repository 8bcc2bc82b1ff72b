// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"

	"github.com/abahued/windwall-hub/api"
	"github.com/abahued/windwall-hub/internal/cache"
	"github.com/abahued/windwall-hub/internal/cleanup"
	"github.com/abahued/windwall-hub/internal/clock"
	"github.com/abahued/windwall-hub/internal/config"
	"github.com/abahued/windwall-hub/internal/database"
	"github.com/abahued/windwall-hub/internal/monitor"
	"github.com/abahued/windwall-hub/internal/monitoring"
	"github.com/abahued/windwall-hub/internal/repository/postgres"
	"github.com/abahued/windwall-hub/internal/wallservice"
)

// Server represents our HTTP server
type Server struct {
	config      *config.Config
	srv         *http.Server
	wallservice *wallservice.WallService
	resets      *cleanup.ResetService
	monitor     *monitor.Monitor
	monitoring  *monitoring.Service
	db          database.DB
	cache       *cache.LatestCache
	cancel      context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	if err := s.initializeServices(); err != nil {
		return err
	}

	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Display.LogLevel,
	})

	// Set up cleanup event handlers
	s.setupCleanupHandlers()

	// Setup routes
	router := api.NewRouter(s.wallservice, s.resets)
	router.SetHealthCheck(s.handleHealth())
	s.srv.Handler = s.corsHandler(router)

	// Start the heartbeat silence monitor
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.monitor.Run(ctx)

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing cache: %v", err)
		}
	}
	if err := s.db.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing database: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// corsHandler wraps the router with the configured CORS policy.
func (s *Server) corsHandler(h http.Handler) http.Handler {
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		gorillahandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
}

// handleHealth returns a simple health check handler
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := s.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","version":"` + nuts.GetVersion() + `"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupCleanupHandlers() {
	s.resets.OnReset("readings.reset", func(detail string) {
		nuts.L.Infof("[Cleanup] Readings and rollups cleared (%s raw rows)", detail)
		s.monitoring.RecordEvent("readings_reset", map[string]string{
			"deleted": detail,
		})
	})

	s.resets.OnReset("snapshot.reset", func(detail string) {
		nuts.L.Infof("[Cleanup] Snapshot table cleared (%s rows)", detail)
		s.monitoring.RecordEvent("snapshot_reset", map[string]string{
			"deleted": detail,
		})
	})

	s.resets.OnReset("readings.zeros_purged", func(detail string) {
		nuts.L.Infof("[Cleanup] Purged %s all-zero readings", detail)
		s.monitoring.RecordEvent("zeros_purged", map[string]string{
			"deleted": detail,
		})
	})

	s.resets.OnReset("readings.range_deleted", func(detail string) {
		nuts.L.Infof("[Cleanup] Deleted %s readings by id range", detail)
		s.monitoring.RecordEvent("range_deleted", map[string]string{
			"deleted": detail,
		})
	})

	s.resets.OnReset("status.reset", func(detail string) {
		nuts.L.Infof("[Cleanup] Status history cleared (%s rows)", detail)
		s.monitoring.RecordEvent("status_reset", map[string]string{
			"deleted": detail,
		})
	})
}

// initializeServices connects the database and cache and wires the
// repositories into the wall service, reset service and monitor.
func (s *Server) initializeServices() error {
	db, err := initAppDB(s.config.Database.Postgres)
	if err != nil {
		return err
	}
	s.db = db

	readings, err := postgres.NewReadingRepository(db)
	if err != nil {
		return fmt.Errorf("failed to initialize reading repository: %w", err)
	}
	rollups, err := postgres.NewRollupRepository(db)
	if err != nil {
		return fmt.Errorf("failed to initialize rollup repository: %w", err)
	}
	status, err := postgres.NewStatusRepository(db)
	if err != nil {
		return fmt.Errorf("failed to initialize status repository: %w", err)
	}

	s.cache = cache.New(s.config.Redis)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var readingCache wallservice.ReadingCache
	if err := s.cache.Ping(pingCtx); err != nil {
		nuts.L.Warnf("[Server] Redis unavailable, running without latest-reading cache: %v", err)
		s.cache = nil
	} else {
		readingCache = s.cache
	}

	zone, err := clock.NewZone(s.config.Display.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load display timezone %q: %w", s.config.Display.Timezone, err)
	}
	clk := clock.WallClock{}

	s.wallservice = wallservice.New(readings, rollups, status, readingCache, clk, zone)
	if err := s.wallservice.Validate(); err != nil {
		return fmt.Errorf("service wiring incomplete: %w", err)
	}

	s.resets = cleanup.New(readings, rollups, status, readingCache)
	s.monitor = monitor.New(status, clk, s.config.Monitor.CheckInterval, s.config.Monitor.OfflineAfter)

	return nil
}

func initAppDB(cfg config.PostgresConfig) (database.DB, error) {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db := wrappedDB.GetDB()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return wrappedDB, nil
}
