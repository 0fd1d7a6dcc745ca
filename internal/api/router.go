package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ventanilla/pqrsd-portal/internal/api/handler"
	"github.com/ventanilla/pqrsd-portal/internal/api/metrics"
	"github.com/ventanilla/pqrsd-portal/internal/api/middleware"
	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
	"github.com/ventanilla/pqrsd-portal/internal/core/service"
)

// Dependencies carries everything the router needs wired up.
type Dependencies struct {
	Sessions  *service.SessionManager
	Approvals ports.ApprovalService
	Petitions ports.PetitionService
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	petitionHandler := handler.NewPetitionHandler(deps.Petitions)
	triageHandler := handler.NewTriageHandler(deps.Approvals)

	session := middleware.Session(deps.Sessions)
	metrics.RegisterSessionGauge(deps.Sessions.Count)

	// --- Auth routes ---
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/logout", authHandler.Logout)
	e.GET("/v1/auth/session", authHandler.Session, session)

	// --- Petition routes ---
	petitions := e.Group("/v1/petitions", session)
	petitions.GET("", petitionHandler.List,
		middleware.Require(domain.ResourcePetitions, domain.ActionRead))
	petitions.GET("/:radicado", petitionHandler.Get,
		middleware.Require(domain.ResourcePetitions, domain.ActionRead))
	petitions.POST("/:radicado/accept", triageHandler.Accept,
		middleware.Require(domain.ResourcePetitions, domain.ActionUpdate))
	petitions.POST("/:radicado/reject", triageHandler.Reject,
		middleware.Require(domain.ResourcePetitions, domain.ActionUpdate))

	// --- Health probes and metrics (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
