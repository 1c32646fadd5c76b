package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"github.com/supermercado/backend/internal/infrastructure/logger"
	"github.com/supermercado/backend/internal/interfaces/http/handler"
	"github.com/supermercado/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AdminRole may change roles and users
const AdminRole = "Administrador"

// Public paths skip the JWT middleware
const (
	HealthPath = "/health"
	LoginPath  = "/api/v1/Auth/login"
)

// CRUDRoutes is a master data handler that mounts its own five routes
type CRUDRoutes interface {
	Register(group *gin.RouterGroup, writeGuards ...gin.HandlerFunc)
}

// Handlers are the HTTP handlers the API serves
type Handlers struct {
	Auth     *handler.AuthHandler
	Invoices *handler.InvoiceHandler
	Health   *handler.HealthHandler

	Products            CRUDRoutes
	ThirdParties        CRUDRoutes
	TaxRates            CRUDRoutes
	PaymentMethods      CRUDRoutes
	Roles               CRUDRoutes
	DocumentTypes       CRUDRoutes
	IdentificationTypes CRUDRoutes
	Users               CRUDRoutes
	Consecutives        CRUDRoutes
}

// Config carries what the middleware chain needs
type Config struct {
	HTTP             config.HTTPConfig
	Telemetry        config.TelemetryConfig
	TracerProvider   trace.TracerProvider
	JWT              middleware.JWTMiddlewareConfig
	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           *zap.Logger
}

// Build creates the gin engine with the full middleware chain and every
// route mounted. Limiter cleanup goroutines stop when ctx is done.
func Build(ctx context.Context, cfg Config, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        cfg.Telemetry.Enabled,
			TracerProvider: cfg.TracerProvider,
		}),
		middleware.CORS(cors),
		middleware.Secure(middleware.DefaultSecurityConfig()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiter.StartCleanup(ctx)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtCfg := cfg.JWT
	jwtCfg.SkipPaths = append([]string{HealthPath, LoginPath}, jwtCfg.SkipPaths...)
	if jwtCfg.Logger == nil {
		jwtCfg.Logger = log
	}
	engine.Use(middleware.JWTAuth(jwtCfg), middleware.SpanAttributes())

	if h.Health != nil {
		engine.GET(HealthPath, h.Health.Health)
	}

	loginGuards := []gin.HandlerFunc{}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimiter.StartCleanup(ctx)
		loginGuards = append(loginGuards, middleware.RateLimit(authLimiter))
	}
	idempotency := middleware.Idempotency(cfg.IdempotencyStore, cfg.IdempotencyTTL, log)
	admin := middleware.RequireRoles(AdminRole)

	r := NewRouter(engine)
	if h.Auth != nil {
		r.Register(NewDomainGroup("auth", "/Auth").
			POST("/login", append(loginGuards, h.Auth.Login)...).
			POST("/logout", h.Auth.Logout).
			GET("/me", h.Auth.Me))
	}
	if h.Invoices != nil {
		inv := h.Invoices
		r.Register(NewDomainGroup("billing", "/Facturacion").
			POST("/crear-factura", idempotency, inv.Create).
			POST("/buscar", inv.Search).
			GET("/resumen-ventas/:fecha", inv.DailySummary).
			GET("/productos-disponibles", inv.AvailableProducts).
			GET("/metodos-pago", inv.PaymentMethods).
			GET("/clientes", inv.Customers).
			GET("/pendientes-pago", inv.PendingPayment).
			GET("/hoy", inv.Today).
			GET("/estadisticas", inv.Statistics).
			GET("/:id", inv.GetByID).
			GET("/:id/pdf", inv.PDF).
			PUT("/:id/anular", idempotency, inv.Void))
	}

	crud := []struct {
		name   string
		prefix string
		routes CRUDRoutes
		guards []gin.HandlerFunc
	}{
		{"products", "/Productos", h.Products, nil},
		{"third-parties", "/Terceros", h.ThirdParties, nil},
		{"tax-rates", "/Impuestos", h.TaxRates, nil},
		{"payment-methods", "/MetodosPago", h.PaymentMethods, nil},
		{"roles", "/Roles", h.Roles, []gin.HandlerFunc{admin}},
		{"document-types", "/TiposDocumento", h.DocumentTypes, nil},
		{"identification-types", "/TiposIdentificacion", h.IdentificationTypes, nil},
		{"users", "/Usuarios", h.Users, []gin.HandlerFunc{admin}},
		{"consecutives", "/Consecutivos", h.Consecutives, nil},
	}
	for _, res := range crud {
		if res.routes == nil {
			continue
		}
		routes, guards := res.routes, res.guards
		r.Register(NewDomainGroup(res.name, res.prefix).Mount(RegistrarFunc(func(g *gin.RouterGroup) {
			routes.Register(g, guards...)
		})))
	}

	r.Setup()
	return engine, nil
}
