// Package api provides the HTTP API for the Cereal server.
package api

import (
	"net/http"
	"time"

	"github.com/cerealdev/cereal/internal/api/handlers"
	"github.com/cerealdev/cereal/internal/api/middleware"
	"github.com/cerealdev/cereal/internal/auth"
	"github.com/cerealdev/cereal/internal/config"
	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/download"
	"github.com/cerealdev/cereal/internal/license"
	"github.com/cerealdev/cereal/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cerealdev/cereal/docs/api"
)

// Config holds configuration for the API router.
type Config struct {
	// Environment the server runs in.
	Environment config.Environment
	// AllowedOrigins for CORS. Empty means all origins allowed in dev mode.
	AllowedOrigins []string
	// BaseURL is the external base URL used in download links.
	BaseURL string
	// MaxUploadBytes caps multipart artifact uploads.
	MaxUploadBytes int64
	// EnableDocs serves the swagger UI at /api/docs.
	EnableDocs bool
	// Started is the process start time, used for uptime reporting.
	Started time.Time
	// Version information for the version endpoint.
	Version   string
	Commit    string
	BuildDate string
}

// Router wraps a Gin engine with configured middleware and routes.
type Router struct {
	Engine *gin.Engine
	logger zerolog.Logger
	db     *db.DB
}

// NewRouter creates a new Router with the given dependencies.
func NewRouter(
	cfg Config,
	database *db.DB,
	blobs storage.Backend,
	logger zerolog.Logger,
) *Router {
	r := &Router{
		Engine: gin.New(),
		logger: logger.With().Str("component", "router").Logger(),
		db:     database,
	}

	// Global middleware
	r.Engine.Use(gin.Recovery())
	r.Engine.Use(middleware.RequestLogger(logger))
	r.Engine.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Environment))

	// Health check endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(database, cfg.Started, logger)
	healthHandler.RegisterPublicRoutes(r.Engine)

	// Prometheus metrics endpoint (no auth required)
	r.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Version endpoint (no auth required)
	versionHandler := handlers.NewVersionHandler(cfg.Version, cfg.Commit, cfg.BuildDate, logger)
	versionHandler.RegisterPublicRoutes(r.Engine)

	// Swagger API documentation (no auth required)
	if cfg.EnableDocs {
		r.Engine.GET("/api/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.URL("/api/docs/doc.json"),
			ginSwagger.DefaultModelsExpandDepth(-1),
		))
		r.Engine.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/api/docs/index.html")
		})
	}

	// Domain services
	validator := license.NewValidator(database, logger)
	licenseService := license.NewService(database, logger)
	gate := download.NewGate(database, validator, blobs, logger)

	licensesHandler := handlers.NewLicensesHandler(database, licenseService, validator, logger)
	downloadsHandler := handlers.NewDownloadsHandler(database, gate, cfg.BaseURL, cfg.MaxUploadBytes, logger)

	// Public API v1 routes: license validation and license-gated downloads
	public := r.Engine.Group("/api/v1")
	licensesHandler.RegisterPublicRoutes(public)
	downloadsHandler.RegisterPublicRoutes(public)

	// Admin API v1 routes (API key required)
	apiKeyValidator := auth.NewAPIKeyValidator(database, logger)
	admin := r.Engine.Group("/api/v1")
	admin.Use(middleware.APIKeyMiddleware(apiKeyValidator, logger))

	handlers.NewProductsHandler(database, logger).RegisterRoutes(admin)
	licensesHandler.RegisterRoutes(admin)
	downloadsHandler.RegisterRoutes(admin)
	handlers.NewAPIKeysHandler(database, logger).RegisterRoutes(admin)

	return r
}
