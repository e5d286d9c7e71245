package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contractapp "github.com/jurisdoc/backend/internal/application/contract"
	documentapp "github.com/jurisdoc/backend/internal/application/document"
	identityapp "github.com/jurisdoc/backend/internal/application/identity"
	registryapp "github.com/jurisdoc/backend/internal/application/registry"
	reportapp "github.com/jurisdoc/backend/internal/application/report"
	"github.com/jurisdoc/backend/internal/infrastructure/auth"
	"github.com/jurisdoc/backend/internal/infrastructure/cache"
	"github.com/jurisdoc/backend/internal/infrastructure/config"
	"github.com/jurisdoc/backend/internal/infrastructure/logger"
	"github.com/jurisdoc/backend/internal/infrastructure/persistence"
	"github.com/jurisdoc/backend/internal/infrastructure/storage"
	"github.com/jurisdoc/backend/internal/infrastructure/telemetry"
	"github.com/jurisdoc/backend/internal/interfaces/http/handler"
	"github.com/jurisdoc/backend/internal/interfaces/http/middleware"
	"github.com/jurisdoc/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting JurisDoc Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection; SQL statements log through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Telemetry providers (no-op when disabled)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var documentMetrics *telemetry.DocumentMetrics
	if cfg.Telemetry.Enabled {
		documentMetrics, err = telemetry.NewDocumentMetrics(meterProvider.Meter("jurisdoc.document"))
		if err != nil {
			log.Fatal("Failed to create document metrics", zap.Error(err))
		}
	}

	// Initialize repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	bankDescriptionRepo := persistence.NewGormBankDescriptionRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	petitionRepo := persistence.NewGormPetitionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Blob storage for template and rendered files
	var blobStore storage.BlobStore
	switch cfg.Storage.Driver {
	case "s3":
		blobStore, err = storage.NewS3BlobStore(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 blob store", zap.Error(err))
		}
		log.Info("Using S3 blob store", zap.String("bucket", cfg.Storage.Bucket))
	default:
		blobStore, err = storage.NewLocalBlobStore(cfg.Storage.LocalRoot)
		if err != nil {
			log.Fatal("Failed to initialize local blob store", zap.Error(err))
		}
		log.Info("Using local blob store", zap.String("root", cfg.Storage.LocalRoot))
	}

	// Template fields cache, Redis with in-memory fallback
	cacheFactory := cache.NewFieldsCacheFactory(cfg.Redis, cache.WithFactoryLogger(log))
	fieldsCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create fields cache", zap.Error(err))
	}

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable for token blacklist, falling back to in-memory", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Initialize application services
	clientService := registryapp.NewClientService(clientRepo)
	clientImportService := registryapp.NewClientImportService(clientRepo)
	bankAccountService := registryapp.NewBankAccountService(bankAccountRepo, clientRepo)
	bankDescriptionService := registryapp.NewBankDescriptionService(bankDescriptionRepo)
	contractService := contractapp.NewContractService(contractRepo, clientRepo)
	bankContextResolver := documentapp.NewBankContextResolver(bankAccountRepo, bankDescriptionRepo)
	templateService := documentapp.NewTemplateService(
		templateRepo,
		clientRepo,
		blobStore,
		fieldsCache,
		bankContextResolver,
		documentMetrics,
		cfg.Storage,
		cfg.Render,
	)
	petitionService := documentapp.NewPetitionService(
		petitionRepo,
		templateRepo,
		clientRepo,
		contractRepo,
		blobStore,
		templateService,
	)
	userService := identityapp.NewUserService(userRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	exportService := reportapp.NewExportService(clientRepo, contractRepo)

	// Initialize HTTP handlers
	clientHandler := handler.NewClientHandler(clientService, clientImportService)
	bankAccountHandler := handler.NewBankAccountHandler(bankAccountService)
	bankDescriptionHandler := handler.NewBankDescriptionHandler(bankDescriptionService)
	contractHandler := handler.NewContractHandler(contractService)
	templateHandler := handler.NewTemplateHandler(templateService)
	petitionHandler := handler.NewPetitionHandler(petitionService)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService, userService)
	reportHandler := handler.NewReportHandler(exportService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing - OpenTelemetry spans (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoints (outside API versioning)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/ready", readyHandler(db))

	// User-managed media files referenced by templates (signatures, letterheads)
	if cfg.Storage.MediaRoot != "" {
		engine.Static("/media", cfg.Storage.MediaRoot)
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	if cfg.Telemetry.Enabled {
		r.Use(middleware.TracingAttributeInjector())
	}

	// Identity domain - authentication routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Identity domain - user administration (admin only)
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.Use(middleware.RequireRole("admin"))
	identityRoutes.POST("/users", userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/:id", userHandler.GetByID)
	identityRoutes.PUT("/users/:id", userHandler.Update)
	identityRoutes.DELETE("/users/:id", userHandler.Delete)

	// Registry domain (clients, bank accounts, bank descriptions)
	registryRoutes := router.NewDomainGroup("registry", "/registry")
	registryRoutes.POST("/clients", clientHandler.Create)
	registryRoutes.POST("/clients/import", clientHandler.Import)
	registryRoutes.GET("/clients", clientHandler.List)
	registryRoutes.GET("/clients/:id", clientHandler.GetByID)
	registryRoutes.GET("/clients/cpf/:cpf", clientHandler.GetByCPF)
	registryRoutes.PUT("/clients/:id", clientHandler.Update)
	registryRoutes.DELETE("/clients/:id", clientHandler.Delete)
	registryRoutes.GET("/clients/:id/bank-accounts", bankAccountHandler.ListByClient)
	registryRoutes.GET("/clients/:id/contracts", contractHandler.ListByClient)

	registryRoutes.POST("/bank-accounts", bankAccountHandler.Create)
	registryRoutes.GET("/bank-accounts", bankAccountHandler.List)
	registryRoutes.GET("/bank-accounts/:id", bankAccountHandler.GetByID)
	registryRoutes.PUT("/bank-accounts/:id", bankAccountHandler.Update)
	registryRoutes.DELETE("/bank-accounts/:id", bankAccountHandler.Delete)

	registryRoutes.POST("/bank-descriptions", bankDescriptionHandler.Create)
	registryRoutes.GET("/bank-descriptions", bankDescriptionHandler.List)
	registryRoutes.GET("/bank-descriptions/:id", bankDescriptionHandler.GetByID)
	registryRoutes.PUT("/bank-descriptions/:id", bankDescriptionHandler.Update)
	registryRoutes.POST("/bank-descriptions/:id/activate", bankDescriptionHandler.Activate)
	registryRoutes.DELETE("/bank-descriptions/:id", bankDescriptionHandler.Delete)
	registryRoutes.GET("/banks/:bank_id/active-description", bankDescriptionHandler.GetActiveByBankID)

	// Contract domain
	contractRoutes := router.NewDomainGroup("contract", "/contracts")
	contractRoutes.POST("", contractHandler.Create)
	contractRoutes.GET("", contractHandler.List)
	contractRoutes.GET("/:id", contractHandler.GetByID)
	contractRoutes.PUT("/:id", contractHandler.Update)
	contractRoutes.DELETE("/:id", contractHandler.Delete)

	// Document domain (templates, petitions)
	documentRoutes := router.NewDomainGroup("document", "/documents")
	documentRoutes.POST("/templates", templateHandler.Upload)
	documentRoutes.GET("/templates", templateHandler.List)
	documentRoutes.GET("/templates/:id", templateHandler.GetByID)
	documentRoutes.PUT("/templates/:id", templateHandler.Update)
	documentRoutes.PUT("/templates/:id/file", templateHandler.ReplaceFile)
	documentRoutes.DELETE("/templates/:id", templateHandler.Delete)
	documentRoutes.GET("/templates/:id/fields", templateHandler.Fields)
	documentRoutes.POST("/templates/:id/migrate", templateHandler.Migrate)
	documentRoutes.POST("/templates/:id/render", templateHandler.Render)

	documentRoutes.POST("/petitions", petitionHandler.Create)
	documentRoutes.GET("/petitions", petitionHandler.List)
	documentRoutes.GET("/petitions/:id", petitionHandler.GetByID)
	documentRoutes.PUT("/petitions/:id", petitionHandler.Update)
	documentRoutes.DELETE("/petitions/:id", petitionHandler.Delete)
	documentRoutes.POST("/petitions/:id/render", petitionHandler.Render)

	// Report domain (CSV exports)
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/clients.csv", reportHandler.ExportClients)
	reportRoutes.GET("/contracts.csv", reportHandler.ExportContracts)

	// Register all domain groups
	r.Register(authRoutes).
		Register(identityRoutes).
		Register(registryRoutes).
		Register(contractRoutes).
		Register(documentRoutes).
		Register(reportRoutes)

	// Setup routes
	r.Setup()

	// Simple ping at root API level for basic liveness checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// readyHandler reports readiness; unlike /health it stays terse for
// orchestrator probes.
func readyHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
