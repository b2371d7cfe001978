package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aegis-id/auth-service/internal/api/handler"
	"github.com/aegis-id/auth-service/internal/api/middleware"
	"github.com/aegis-id/auth-service/internal/core/accesscontrol"
	"github.com/aegis-id/auth-service/internal/core/domain"
	"github.com/aegis-id/auth-service/internal/core/ports"
	"github.com/aegis-id/auth-service/internal/core/token"
	"github.com/aegis-id/auth-service/internal/infrastructure/http/handlers"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Tokens      *token.Service
	Denylist    ports.TokenDenylist
	Mongo       *mongo.Database
	Redis       *redis.Client
	Logger      zerolog.Logger
	// Metrics is the registry for HTTP request metrics. Nil means the global
	// Prometheus registry; tests inject their own to avoid double
	// registration across router instances.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Each route declares its access policy next to its handler; the policy
// table below is the single place authorization requirements live.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Validator = handler.NewValidator()

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Metrics != nil {
		registerer = d.Metrics
		gatherer = d.Metrics
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "identity",
		Registerer: registerer,
	}))
	e.Use(middleware.Authenticate(d.Tokens, d.Denylist))

	authHandler := handler.NewAuthHandler(d.AuthService)
	userHandler := handler.NewUserHandler(d.UserService)

	// --- Auth routes (public; register/login/refresh need no context) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout,
		middleware.Require(accesscontrol.Authenticated()))

	// --- User routes ---
	e.GET("/me", userHandler.Me,
		middleware.Require(accesscontrol.Authenticated()))
	e.GET("/users", userHandler.List,
		middleware.Require(accesscontrol.RequireRole(domain.RoleAdmin)))
	e.GET("/users/:id", userHandler.Get,
		middleware.Require(accesscontrol.OwnerOrRole(domain.RoleAdmin)))
	e.PUT("/users/:id/role", userHandler.ChangeRole,
		middleware.Require(accesscontrol.RequireRole(domain.RoleAdmin)))
	e.DELETE("/users/:id", userHandler.Delete,
		middleware.Require(accesscontrol.RequireRole(domain.RoleAdmin)))

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
