package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/owl-calendar-service/internal/app/feeds"
	"github.com/preston-bernstein/owl-calendar-service/internal/calendar"
	"github.com/preston-bernstein/owl-calendar-service/internal/config"
	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	httpserver "github.com/preston-bernstein/owl-calendar-service/internal/http"
	"github.com/preston-bernstein/owl-calendar-service/internal/http/handlers"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
	"github.com/preston-bernstein/owl-calendar-service/internal/poller"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers"
	"github.com/preston-bernstein/owl-calendar-service/internal/sourcecache"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	sources       []schedule.SourceDescriptor
	cache         *sourcecache.Manager
	feeds         *feeds.Service
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
}

// New loads the configured sources and wires the fetcher, cache, poller, and HTTP server.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	sources, err := loadSources(cfg, logger)
	if err != nil {
		return nil, err
	}
	return newServerWithFetcher(cfg, logger, sources, nil, nil), nil
}

func newServerWithFetcher(cfg config.Config, logger *slog.Logger, sources []schedule.SourceDescriptor, fetcher providers.Fetcher, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if fetcher == nil {
		fetcher = newFetcherFactory(logger, recorder).build(cfg)
	}
	cache := buildCache(cfg, fetcher, recorder, logger)
	builder := calendar.NewBuilder(calendar.BuilderConfig{Name: cfg.Feed.Name, Domain: cfg.Feed.Domain}, sources, logger)
	feedSvc := feeds.NewService(cache.manager, builder, sources, recorder, logger)
	plr := poller.New(cache.manager, sources, logger, recorder, cfg.RefreshInterval)
	httpSrv := buildHTTPServer(cfg, feedSvc, cache.files, logger, recorder, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		sources:       sources,
		cache:         cache.manager,
		feeds:         feedSvc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, feedSvc handlers.FeedService, cache handlers.CacheInspector, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" && plr != nil {
		admin = handlers.NewAdminHandler(plr, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:  handlers.NewHandler(feedSvc, cache, logger, statusFn),
		Admin:    admin,
		Logger:   logger,
		Recorder: recorder,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting",
		slog.String("addr", s.httpServer.Addr()),
		slog.Int(logging.FieldCount, len(s.sources)),
	)
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
