package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	billingapp "github.com/supermercado/backend/internal/application/billing"
	catalogapp "github.com/supermercado/backend/internal/application/catalog"
	identityapp "github.com/supermercado/backend/internal/application/identity"
	partnerapp "github.com/supermercado/backend/internal/application/partner"
	"github.com/supermercado/backend/internal/infrastructure/auth"
	"github.com/supermercado/backend/internal/infrastructure/cache"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"github.com/supermercado/backend/internal/infrastructure/logger"
	"github.com/supermercado/backend/internal/infrastructure/persistence"
	"github.com/supermercado/backend/internal/infrastructure/printing"
	"github.com/supermercado/backend/internal/infrastructure/telemetry"
	"github.com/supermercado/backend/internal/interfaces/http/handler"
	"github.com/supermercado/backend/internal/interfaces/http/middleware"
	"github.com/supermercado/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()
	zap.ReplaceGlobals(log)

	log.Info("Starting Supermercado backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		_ = logProvider.Shutdown(context.Background())
	}()
	log = logProvider.Bridge(log)
	zap.ReplaceGlobals(log)

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		_ = meterProvider.Shutdown(context.Background())
	}()
	salesMetrics, err := telemetry.NewSalesMetrics(meterProvider.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to register sales metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, otel.GetTracerProvider(), log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStores(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store and token blacklist", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing stores", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	taxRateRepo := persistence.NewGormTaxRateRepository(db.DB)
	thirdPartyRepo := persistence.NewGormThirdPartyRepository(db.DB)
	idTypeRepo := persistence.NewGormIdentificationTypeRepository(db.DB)
	paymentMethodRepo := persistence.NewGormPaymentMethodRepository(db.DB)
	documentTypeRepo := persistence.NewGormDocumentTypeRepository(db.DB)
	consecutiveRepo := persistence.NewGormConsecutiveRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, stores.Blacklist, log)
	invoiceService := billingapp.NewInvoiceService(billingapp.InvoiceServiceConfig{
		TxScope:           persistence.NewGormTransactionScope(db.DB),
		Reader:            persistence.NewGormInvoiceReader(db.DB),
		ProductRepo:       productRepo,
		TaxRateRepo:       taxRateRepo,
		ThirdPartyRepo:    thirdPartyRepo,
		PaymentMethodRepo: paymentMethodRepo,
		SalesDocumentCode: cfg.Billing.SalesDocumentCode,
		MinInvoiceTotal:   cfg.Billing.MinInvoiceTotal,
		VoidWindow:        cfg.Billing.VoidWindow,
		Location:          cfg.Billing.Location(),
		Metrics:           salesMetrics,
		Logger:            log,
	})
	renderer := printing.NewInvoiceRenderer(cfg.Company, cfg.Billing.Location(), log)

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Invoices: handler.NewInvoiceHandler(invoiceService, renderer),
		Health: handler.NewHealthHandler(version, map[string]handler.HealthCheck{
			"database": db.Ping,
		}),
		Products: handler.NewCRUDHandler[catalogapp.ProductRequest, catalogapp.ProductResponse](
			catalogapp.NewProductService(productRepo, productRepo, taxRateRepo, log)),
		TaxRates: handler.NewCRUDHandler[catalogapp.TaxRateRequest, catalogapp.TaxRateResponse](
			catalogapp.NewTaxRateService(taxRateRepo, log)),
		ThirdParties: handler.NewCRUDHandler[partnerapp.ThirdPartyRequest, partnerapp.ThirdPartyResponse](
			partnerapp.NewThirdPartyService(thirdPartyRepo, idTypeRepo, log)),
		IdentificationTypes: handler.NewCRUDHandler[partnerapp.IdentificationTypeRequest, partnerapp.IdentificationTypeResponse](
			partnerapp.NewIdentificationTypeService(idTypeRepo, log)),
		PaymentMethods: handler.NewCRUDHandler[billingapp.PaymentMethodRequest, billingapp.PaymentMethodResponse](
			billingapp.NewPaymentMethodService(paymentMethodRepo, log)),
		DocumentTypes: handler.NewCRUDHandler[billingapp.DocumentTypeRequest, billingapp.DocumentTypeResponse](
			billingapp.NewDocumentTypeService(documentTypeRepo, log)),
		Consecutives: handler.NewCRUDHandler[billingapp.ConsecutiveRequest, billingapp.ConsecutiveResponse](
			billingapp.NewConsecutiveService(consecutiveRepo, documentTypeRepo, log)),
		Roles: handler.NewCRUDHandler[identityapp.RoleRequest, identityapp.RoleResponse](
			identityapp.NewRoleService(roleRepo, userRepo, log)),
		Users: handler.NewSplitCRUDHandler[identityapp.CreateUserRequest, identityapp.UpdateUserRequest, identityapp.UserResponse](
			identityapp.NewUserService(userRepo, roleRepo, stores.Blacklist, jwtService, log)),
	}

	middleware.SetupValidator()
	engine, err := router.Build(ctx, router.Config{
		HTTP:      cfg.HTTP,
		Telemetry: cfg.Telemetry,
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: stores.Blacklist,
			Logger:         log,
		},
		IdempotencyStore: stores.Idempotency,
		IdempotencyTTL:   cfg.Billing.IdempotencyTTL,
		Logger:           log,
	}, handlers)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Error("HTTP server failed", zap.Error(err))
	case <-ctx.Done():
		log.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server exited")
}
