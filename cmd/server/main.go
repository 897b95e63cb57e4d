package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/salesmanager/backend/internal/application/catalog"
	contentapp "github.com/salesmanager/backend/internal/application/content"
	customerapp "github.com/salesmanager/backend/internal/application/customer"
	merchantapp "github.com/salesmanager/backend/internal/application/merchant"
	orderapp "github.com/salesmanager/backend/internal/application/order"
	searchapp "github.com/salesmanager/backend/internal/application/search"
	shippingapp "github.com/salesmanager/backend/internal/application/shipping"
	userapp "github.com/salesmanager/backend/internal/application/user"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/cache"
	"github.com/salesmanager/backend/internal/infrastructure/captcha"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/salesmanager/backend/internal/infrastructure/email"
	"github.com/salesmanager/backend/internal/infrastructure/event"
	"github.com/salesmanager/backend/internal/infrastructure/logger"
	"github.com/salesmanager/backend/internal/infrastructure/migration"
	"github.com/salesmanager/backend/internal/infrastructure/persistence"
	"github.com/salesmanager/backend/internal/infrastructure/printing"
	"github.com/salesmanager/backend/internal/infrastructure/scheduler"
	"github.com/salesmanager/backend/internal/infrastructure/storage"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
	"github.com/salesmanager/backend/internal/infrastructure/token"
	"github.com/salesmanager/backend/internal/interfaces/http/handler"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
	"github.com/salesmanager/backend/internal/interfaces/http/router"
	"github.com/salesmanager/backend/migrations"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	_ "github.com/salesmanager/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			SalesManager Backend API
//	@version		1.0
//	@description	Multi-store e-commerce backend: catalogue, customers, orders, content and shipping
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.email	support@salesmanager.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry comes first so its zap core can be teed into the logger
	bootLog, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, providers.ZapCore())
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting SalesManager backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if err := config.Watch(func(lc config.LogConfig) {
		logger.SetLevel(lc.Level)
		log.Info("Log level changed", zap.String("level", lc.Level))
	}); err != nil {
		log.Warn("Config file watch disabled", zap.Error(err))
	}

	metrics, err := telemetry.NewShopMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatal("Failed to create metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentGorm(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if err := migrateSchema(ctx, cfg, db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis is optional; without it revocations, autocomplete and
	// idempotency fall back to process memory
	var rdb redis.UniversalClient
	if cfg.Redis.Host != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory fallbacks", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		} else {
			rdb = client
			defer func() { _ = client.Close() }()
		}
	}

	fileStore, err := storage.NewFileStore(ctx, &cfg.Storage, rdb, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Repositories
	storeRepo := persistence.NewGormMerchantStoreRepository(db.DB)
	languageRepo := persistence.NewGormLanguageRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	productTypeRepo := persistence.NewGormProductTypeRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	variantImageRepo := persistence.NewGormProductVariantImageRepository(db.DB)
	availabilityRepo := persistence.NewGormProductAvailabilityRepository(db.DB)
	contentRepo := persistence.NewGormContentRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	downloadRepo := persistence.NewGormOrderProductDownloadRepository(db.DB)
	originRepo := persistence.NewGormShippingOriginRepository(db.DB)
	shippingConfigRepo := persistence.NewGormShippingConfigurationRepository(db.DB)

	// Security
	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewPasswordHasher(0)
	revocations := auth.NewRevocationList(rdb, "sm:revoked:")
	tokenizer, err := token.NewTokenizer(cfg.Token.Secret)
	if err != nil {
		log.Fatal("Failed to initialize token tool", zap.Error(err))
	}

	// Event bus
	bus := event.NewBus(log, event.WithAsync())

	// Application services
	storeService := merchantapp.NewStoreService(storeRepo, languageRepo, log)
	userFacade := userapp.NewUserFacade(userRepo, storeRepo, hasher, jwtService, revocations, log)

	categoryService := catalogapp.NewCategoryService(categoryRepo, bus, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, productTypeRepo, bus, log)
	imageService := catalogapp.NewProductImageService(productRepo, imageRepo, variantImageRepo, fileStore, cfg.Image, metrics, log)
	productTypeService := catalogapp.NewProductTypeService(productTypeRepo, productRepo, log)
	availabilityService := catalogapp.NewProductAvailabilityService(availabilityRepo, productRepo, log)
	catalogFacade := catalogapp.NewCatalogFacade(categoryService, productService, imageService)

	contentService := contentapp.NewContentService(contentRepo, contentapp.NewStaticContentFileManager(fileStore), log)

	customerService := customerapp.NewCustomerService(
		customerRepo, hasher, jwtService, tokenizer, revocations, bus,
		customerapp.CustomerServiceConfig{ResetTokenTTL: cfg.Token.ResetTokenTTL},
		log,
	)

	shippingService := shippingapp.NewShippingService(originRepo, shippingConfigRepo, log)

	pdfRenderer, err := newPDFRenderer(cfg.Printing, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() { _ = pdfRenderer.Close() }()
	invoiceRenderer, err := printing.NewInvoiceRenderer(pdfRenderer, printing.ParsePaperSize(cfg.Printing.PaperSize), log)
	if err != nil {
		log.Fatal("Failed to initialize invoice renderer", zap.Error(err))
	}

	orderService := orderapp.NewOrderService(
		orderRepo, downloadRepo, productRepo, availabilityRepo, customerRepo,
		persistence.NewGormOrderTransactionScope(db.DB),
		log,
	)
	orderService.SetEventPublisher(bus)
	orderService.SetShippingQuoter(shippingService)
	orderService.SetFileReader(fileStore)
	orderService.SetInvoicePrinter(invoiceRenderer)
	orderService.SetMetrics(metrics)

	autocomplete := cache.NewAutocompleteIndex(rdb, "sm:autocomplete:", log)
	searchFacade := searchapp.NewSearchFacade(productRepo, storeRepo, autocomplete, metrics, log)

	// Event handlers, deduplicated so redelivered events do not mail twice
	mailer := email.NewService(email.NewRenderer(cfg.Email.TemplatesDir), email.NewSender(cfg.Email, log), cfg.Email.From, log)
	processed := cache.NewIdempotencyStore(rdb, "sm:events:")
	subscribe := func(scope string, h shared.EventHandler) {
		bus.Subscribe(event.Deduplicate(h, processed, scope, 24*time.Hour, log), h.EventTypes()...)
	}
	subscribe("customer-notification", customerapp.NewNotificationHandler(storeRepo, mailer, cfg.App.BaseURL, log))
	subscribe("order-notification", orderapp.NewStatusNotificationHandler(storeRepo, mailer, cfg.App.BaseURL, log))
	subscribe("search-index", searchapp.NewIndexHandler(searchFacade, log))

	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Reference data and first administrator
	defaultStore, err := storeService.EnsureDefaults(ctx, cfg.Locale.DefaultLanguage, cfg.Locale.SupportedLanguages)
	if err != nil {
		log.Fatal("Failed to create default store", zap.Error(err))
	}
	if err := productTypeService.EnsureDefaults(ctx, defaultStore.ID); err != nil {
		log.Fatal("Failed to create default product types", zap.Error(err))
	}
	if err := userFacade.EnsureSuperAdmin(ctx, cfg.Admin, defaultStore.ID); err != nil {
		log.Fatal("Failed to create superadmin", zap.Error(err))
	}

	// Maintenance jobs
	sched := scheduler.New(scheduler.Config{JobTimeout: cfg.Scheduler.JobTimeout}, log)
	if cfg.Scheduler.Enabled {
		if err := scheduler.RegisterMaintenanceJobs(sched, cfg.Scheduler, scheduler.MaintenanceServices{
			Downloads:   orderService,
			ResetTokens: customerService,
			Search:      searchFacade,
		}, log); err != nil {
			log.Fatal("Failed to register maintenance jobs", zap.Error(err))
		}
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// HTTP
	if err := middleware.SetupValidator(
		customerapp.RegisterRequest{},
		customerapp.ChangePasswordRequest{},
		customerapp.ResetPasswordRequest{},
		userapp.CreateUserRequest{},
		userapp.ChangePasswordRequest{},
	); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.IsProduction()

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = cfg.Telemetry.ProfilingEnabled

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanErrorMarker(),
		middleware.CORSWithConfig(corsConfig),
		middleware.SecureWithConfig(securityConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(metrics),
		middleware.Profiling(profilingConfig),
	)

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		limiters = append(limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
	}
	loginLimiter := middleware.NewRateLimiter(10, time.Minute, 5)
	limiters = append(limiters, loginLimiter)
	defer func() {
		for _, l := range limiters {
			l.Close()
		}
	}()

	var verifier captcha.Verifier = captcha.Disabled{}
	if cfg.Captcha.Enabled {
		opts := []captcha.Option{captcha.WithObserver(metrics.CaptchaVerified)}
		if rdb != nil {
			opts = append(opts, captcha.WithReplayGuard(rdb, 2*time.Minute))
		}
		verifier = captcha.NewRecaptchaVerifier(cfg.Captcha, log, opts...)
	}

	adminJWT := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		Principal:   auth.PrincipalAdmin,
		Logger:      log,
	})
	guards := router.Guards{
		Admin: adminJWT,
		Customer: middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:  jwtService,
			Revocations: revocations,
			Principal:   auth.PrincipalCustomer,
			Logger:      log,
		}),
		Optional: middleware.OptionalJWTAuth(jwtService),
		Captcha:  middleware.Captcha(verifier, log),
		Login: middleware.RateLimitByKey(loginLimiter, func(c *gin.Context) string {
			return c.ClientIP() + c.FullPath()
		}),
	}

	checks := map[string]handler.Pinger{"database": db}
	if rdb != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(userFacade),
		User:         handler.NewUserHandler(userFacade),
		Store:        handler.NewStoreHandler(storeService),
		Category:     handler.NewCategoryHandler(catalogFacade, categoryService),
		Product:      handler.NewProductHandler(catalogFacade, productService),
		ProductImage: handler.NewProductImageHandler(catalogFacade, imageService),
		ProductType:  handler.NewProductTypeHandler(productTypeService),
		Availability: handler.NewAvailabilityHandler(availabilityService),
		Content:      handler.NewContentHandler(contentService),
		Customer:     handler.NewCustomerHandler(customerService, metrics),
		Order:        handler.NewOrderHandler(orderService),
		Shipping:     handler.NewShippingHandler(shippingService),
		Search:       handler.NewSearchHandler(searchFacade),
		System:       handler.NewSystemHandler(cfg.App.Name, version, checks),
	}

	storeScope := []gin.HandlerFunc{middleware.MerchantStore(storeService), middleware.Locale()}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(storeScope...)
	r.Use(middleware.TracingAttributeInjector())
	groups := router.RegisterAPI(r, handlers, guards)
	router.RegisterStatic(engine, handlers, storeScope...)
	router.RegisterSystem(engine, r, handlers.System)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger, adminJWT), ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Setup()

	routeCount := 0
	for _, g := range groups {
		routeCount += len(g.Routes())
	}
	log.Info("Routes registered", zap.Int("api_routes", routeCount), zap.String("base_path", r.BasePath()))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sched.IsRunning() {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop scheduler", zap.Error(err))
		}
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to drain event bus", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush telemetry", zap.Error(err))
	}

	log.Info("Server exited")
}

// migrateSchema brings the schema up to date. Postgres runs the embedded SQL
// migrations; sqlite, used for development and tests, is auto-migrated.
func migrateSchema(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == "sqlite" {
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.WithContext(ctx).DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, cfg.Database.Schema, migration.Source{FS: migrations.FS}, log)
	if err != nil {
		return err
	}
	// the migrator shares the pool, so it is not closed here
	return m.Up()
}

// newPDFRenderer starts headless Chrome when printing is enabled
func newPDFRenderer(cfg config.PrintingConfig, log *zap.Logger) (printing.PDFRenderer, error) {
	if !cfg.Enabled {
		log.Info("Invoice printing disabled")
		return printing.DisabledRenderer{}, nil
	}
	return printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.RemoteURL, cfg.NoSandbox, cfg.Timeout, log))
}
