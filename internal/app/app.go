package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"
	"github.com/go-redis/redis/v8"

	"github.com/Pledgebase/pledgebase/config"
	"github.com/Pledgebase/pledgebase/internal/database"
	"github.com/Pledgebase/pledgebase/internal/domain"
	httpHandler "github.com/Pledgebase/pledgebase/internal/http"
	"github.com/Pledgebase/pledgebase/internal/http/middleware"
	"github.com/Pledgebase/pledgebase/internal/migrations"
	"github.com/Pledgebase/pledgebase/internal/repository"
	"github.com/Pledgebase/pledgebase/internal/service"
	"github.com/Pledgebase/pledgebase/pkg/cache"
	"github.com/Pledgebase/pledgebase/pkg/geo"
	"github.com/Pledgebase/pledgebase/pkg/logger"
	"github.com/Pledgebase/pledgebase/pkg/tracing"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB

	GetContactRepository() domain.ContactRepository
	GetContactListRepository() domain.ContactListRepository
	GetGroupRepository() domain.GroupRepository
	GetCentroidLocator() domain.CentroidLocator

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitTracing() error
	InitDB() error
	InitCache() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	// geo cache: Redis when configured, in process otherwise
	redisClient *redis.Client
	memoryCache *cache.InMemoryCache
	cache       cache.Cache

	// Repositories
	teamRepo        domain.TeamRepository
	groupRepo       domain.GroupRepository
	contactRepo     domain.ContactRepository
	contactListRepo domain.ContactListRepository
	eventRepo       domain.EventRepository
	centroidRepo    *repository.PostalCentroidRepository
	locator         domain.CentroidLocator

	// Services
	authService        *service.AuthService
	groupService       *service.GroupService
	visibilityService  *service.VisibilityService
	filterEvaluator    *service.FilterEvaluator
	contactService     *service.ContactService
	contactListService *service.ContactListService
	teamService        *service.TeamService
	eventService       *service.EventService

	// HTTP handlers
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64          // atomic counter for active HTTP requests
	requestWg       sync.WaitGroup // wait group for active requests
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithCache replaces the geo cache
func WithCache(c cache.Cache) AppOption {
	return func(a *App) {
		a.cache = c
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing
func (a *App) InitTracing() error {
	if err := tracing.InitTracing(&a.config.Tracing, a.logger); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	return nil
}

// InitDB connects to the database, creates the schema and runs migrations.
// A database injected with WithMockDB is used as is.
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	cfg := &a.config.Database
	a.logger.WithFields(map[string]interface{}{
		"host":    cfg.Host,
		"port":    cfg.Port,
		"user":    cfg.User,
		"dbname":  cfg.DBName,
		"sslmode": cfg.SSLMode,
	}).Info("Connecting to database")

	ctx := context.Background()
	if err := database.EnsureSystemDatabaseExists(ctx, cfg); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	db, err := database.Open(ctx, cfg, a.config.Tracing.Enabled)
	if err != nil {
		return err
	}
	if a.config.Tracing.Enabled {
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	if err := database.InitializeDatabase(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	if err := migrations.NewManager(a.logger).RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a.db = db
	return nil
}

// InitCache sets up the centroid cache. Redis is used when REDIS_ADDR is set.
func (a *App) InitCache() error {
	if a.cache != nil {
		return nil
	}

	if a.config.Redis.Enabled() {
		client, err := cache.NewRedisClient(context.Background(), cache.RedisConfig{
			Addr:     a.config.Redis.Addr,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redisClient = client
		a.cache = cache.NewRedisCache(client, "pledgebase:geo:")
		a.logger.WithField("addr", a.config.Redis.Addr).Info("Centroid cache backed by Redis")
		return nil
	}

	a.memoryCache = cache.NewInMemoryCache(10 * time.Minute)
	a.cache = a.memoryCache
	a.logger.Info("Centroid cache kept in process")
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	a.teamRepo = repository.NewTeamRepository(a.db)
	a.groupRepo = repository.NewGroupRepository(a.db)
	a.contactRepo = repository.NewContactRepository(a.db)
	a.contactListRepo = repository.NewContactListRepository(a.db)
	a.eventRepo = repository.NewEventRepository(a.db)
	a.centroidRepo = repository.NewPostalCentroidRepository(a.db)

	locator, err := a.newCentroidLocator(context.Background())
	if err != nil {
		return err
	}
	a.locator = locator
	return nil
}

// newCentroidLocator picks the locator backend and wraps it in the cache
func (a *App) newCentroidLocator(ctx context.Context) (domain.CentroidLocator, error) {
	var base domain.CentroidLocator = a.centroidRepo

	if a.config.Geo.Locator == "memory" {
		centroids, err := a.centroidRepo.ListCentroids(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load postal code centroids: %w", err)
		}
		base = geo.NewMemoryLocator(centroids)
		a.logger.WithField("centroids", len(centroids)).Info("Postal code centroids loaded in memory")
	}

	if a.cache == nil || a.config.Geo.CacheTTL == 0 {
		return base, nil
	}
	return repository.NewCachedCentroidLocator(base, a.cache, a.config.Geo.CacheTTL, a.logger), nil
}

// InitServices initializes all services
func (a *App) InitServices() error {
	authService, err := service.NewAuthService(service.AuthServiceConfig{
		TeamRepository: a.teamRepo,
		Secret:         a.config.Security.JWTSecret,
		Logger:         a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	a.authService = authService

	a.groupService = service.NewGroupService(a.groupRepo, a.teamRepo, a.authService, a.logger)
	a.visibilityService = service.NewVisibilityService(a.groupRepo, a.groupService, a.logger)
	a.filterEvaluator = service.NewFilterEvaluator(a.contactRepo, a.locator, a.logger)

	a.contactService = service.NewContactService(
		a.contactRepo,
		a.groupRepo,
		a.filterEvaluator,
		a.visibilityService,
		a.authService,
		a.logger,
	)
	a.contactListService = service.NewContactListService(
		a.contactListRepo,
		a.filterEvaluator,
		a.visibilityService,
		a.authService,
		a.logger,
	)
	a.teamService = service.NewTeamService(a.teamRepo, a.groupService, a.authService, a.logger)
	a.eventService = service.NewEventService(
		a.eventRepo,
		a.contactRepo,
		a.visibilityService,
		a.authService,
		a.logger,
	)

	return nil
}

// InitHandlers registers every route on the mux
func (a *App) InitHandlers() error {
	httpHandler.NewHealthHandler(a.db, a.config.Version).RegisterRoutes(a.mux)
	httpHandler.NewContactHandler(a.contactService, a.authService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewContactListHandler(a.contactListService, a.authService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewGroupHandler(a.groupService, a.authService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewTeamHandler(a.teamService, a.authService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewEventHandler(a.eventService, a.authService, a.logger).RegisterRoutes(a.mux)
	return nil
}

// Handler returns the mux wrapped in the middleware chain
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}

	return middleware.CORSMiddleware(a.config.Server.CORSAllowOrigin)(handler)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info("Server starting")

	a.serverMu.Lock()
	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.serverMu.Unlock()

	// signal that the server has been created
	close(a.serverStarted)

	if a.config.Server.SSL.Enabled {
		a.logger.WithField("cert_file", a.config.Server.SSL.CertFile).Info("SSL enabled")
		return a.server.ListenAndServeTLS(a.config.Server.SSL.CertFile, a.config.Server.SSL.KeyFile)
	}
	return a.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources()
	}

	a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Warn("HTTP server shutdown did not complete")
	}

	// Shutdown stops accepting connections; wait for handlers still running
	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()
	select {
	case <-requestsDone:
	case <-shutdownCtx.Done():
		a.logger.WithField("active_requests", a.getActiveRequestCount()).Warn("Shutdown timeout reached, forcing shutdown")
	}

	if err := a.cleanupResources(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
		return shutdownErr
	}
	a.logger.Info("Graceful shutdown completed successfully")
	return nil
}

// cleanupResources closes the database and cache connections
func (a *App) cleanupResources() error {
	var firstErr error

	if a.memoryCache != nil {
		a.memoryCache.Stop()
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing redis connection")
			firstErr = err
		}
	}

	if a.db != nil {
		if a.config.Tracing.Enabled {
			ocsql.RecordStats(a.db, 5*time.Second)()
		}
		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created and initialized.
// Returns true if the server started, false if ctx expired first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		a.logger.Error("serverStarted channel is nil - server initialization error")
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting Pledgebase application")

	steps := []func() error{
		a.InitTracing,
		a.InitDB,
		a.InitCache,
		a.InitRepositories,
		a.InitServices,
		a.InitHandlers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetContactRepository() domain.ContactRepository {
	return a.contactRepo
}

func (a *App) GetContactListRepository() domain.ContactListRepository {
	return a.contactListRepo
}

func (a *App) GetGroupRepository() domain.GroupRepository {
	return a.groupRepo
}

func (a *App) GetCentroidLocator() domain.CentroidLocator {
	return a.locator
}

func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

// GetShutdownContext is cancelled when shutdown starts
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware tracks active requests and refuses new ones once
// shutdown has started
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			httpHandler.WriteJSONError(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		next.ServeHTTP(w, r)
	})
}

var _ AppInterface = (*App)(nil)
