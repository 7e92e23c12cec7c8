package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/PhoneSim/backend/internal/api/http"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/api/middleware"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/api/ws"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/events"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/navigation"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/registry"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/router"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/providers/generation"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	store   *store.Store
	apps    *registry.Registry
	nav     *navigation.Controller
	router  *router.Router
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance. A nil logger is built from cfg.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{Level: cfg.Logging.Level, Development: cfg.Logging.Development})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing PhoneSim server",
		zap.String("port", cfg.Server.Port),
		zap.Bool("remote_generation", cfg.Generation.Endpoint != ""),
	)

	// Metrics first, everything below reports into it
	metrics := monitoring.NewMetrics()

	apps, err := buildRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	st := store.New(bus)
	if err := seedStore(st, cfg, logger); err != nil {
		return nil, err
	}
	metrics.SetInstalledApps(len(st.InstalledApps()))
	metrics.SetCartItems(len(st.Cart()))

	nav := navigation.NewController(apps, st.IsInstalled).
		WithBus(bus).
		WithMetrics(metrics).
		WithLogger(logger)

	gen, genState, err := buildGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}

	rt := router.New(st, apps, nav, gen).
		WithDelays(router.Delays{
			Reply:       cfg.Simulation.ReplyDelay,
			RideConfirm: cfg.Simulation.RideConfirmDelay,
			RideArrival: cfg.Simulation.RideArrivalDelay,
			Install:     cfg.Simulation.InstallDelay,
		}).
		WithGenerationTimeout(cfg.Generation.Timeout).
		WithLogger(logger).
		WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(tracing.HTTPMiddleware(tracing.New(logger, time.Second)))
	engine.Use(monitoring.Middleware(metrics))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins...)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Bool("global", cfg.RateLimit.Global),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		if cfg.RateLimit.Global {
			engine.Use(middleware.GlobalRateLimit(limits))
		} else {
			engine.Use(middleware.RateLimit(limits))
		}
	}

	handlers := api.NewHandlers(st, apps, nav, rt, metrics, logger)
	if genState != nil {
		handlers.WithGeneratorState(genState)
	}
	handlers.Register(engine)

	wsHandler := ws.NewHandler(bus, logger, cfg.Server.AllowedOrigins...).
		WithMetrics(metrics).
		WithSnapshot(func() interface{} { return st.Snapshot() })
	engine.GET("/stream", wsHandler.HandleConnection)

	// Metrics endpoints
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	engine.GET("/metrics/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	})

	logger.Info("Server initialized successfully", zap.Int("apps", apps.Len()))

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:   st,
		apps:    apps,
		nav:     nav,
		router:  rt,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func buildRegistry(cfg *config.Config, logger *logging.Logger) (*registry.Registry, error) {
	apps := registry.New()
	seeder := registry.NewSeeder(apps, logger)
	if err := seeder.SeedDefaults(); err != nil {
		return nil, fmt.Errorf("failed to seed built-in apps: %w", err)
	}
	if cfg.Data.CatalogGlob != "" {
		loaded, failed, err := seeder.LoadCatalog(cfg.Data.CatalogGlob)
		if err != nil {
			return nil, fmt.Errorf("failed to load app catalog: %w", err)
		}
		logger.Info("Loaded app catalog", zap.Int("loaded", loaded), zap.Int("failed", failed))
	}
	apps.Freeze()
	return apps, nil
}

func seedStore(st *store.Store, cfg *config.Config, logger *logging.Logger) error {
	seed := store.DefaultSeed()
	if cfg.Data.SeedFile != "" {
		loaded, err := store.LoadSeedFile(cfg.Data.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		seed = loaded
		logger.Info("Using seed file", zap.String("path", cfg.Data.SeedFile))
	}
	if err := st.Seed(context.Background(), seed); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	return nil
}

// buildGenerator picks the remote generator, backed by canned replies, when an
// endpoint is configured and the canned generator alone otherwise
func buildGenerator(cfg *config.Config, logger *logging.Logger) (generation.Generator, func() string, error) {
	canned := generation.NewCanned()
	if cfg.Generation.Endpoint == "" {
		logger.Info("No generation endpoint, using canned replies")
		return canned, nil, nil
	}

	remote, err := generation.NewHTTPGenerator(generation.HTTPConfig{
		Endpoint:        cfg.Generation.Endpoint,
		APIKey:          cfg.Generation.APIKey,
		Timeout:         cfg.Generation.Timeout,
		RetryMax:        cfg.Generation.RetryMax,
		RequestsPerSec:  cfg.Generation.RequestsPerSec,
		BreakerFailures: cfg.Generation.BreakerFailures,
		BreakerCooldown: cfg.Generation.BreakerCooldown,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}
	logger.Info("Using remote generation", zap.String("endpoint", cfg.Generation.Endpoint))

	state := func() string { return remote.BreakerState().String() }
	return generation.NewFallback(remote, canned, logger), state, nil
}

// Handler exposes the routes, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Router returns the cross-app router
func (s *Server) Router() *router.Router {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var shutdownErr error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
		shutdownErr = fmt.Errorf("failed to shut down http server: %w", err)
	}

	// Pending replies, rides and installs are dropped
	s.router.Close()
	s.logger.Info("Router stopped")

	_ = s.logger.Sync()
	return shutdownErr
}
