package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revisor-backend/internal/analysis"
	"revisor-backend/internal/refdocs"
	"revisor-backend/internal/shared/config"
	"revisor-backend/internal/shared/metrics"
	"revisor-backend/internal/shared/server/middleware"
	"revisor-backend/internal/shared/server/respond"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	AnalysisHandler *analysis.Handler
	RefDocsHandler  *refdocs.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	authed := api.Group("")
	authed.Use(
		middleware.Identity(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"analyses": {Rate: 0.2, Burst: 3},
				"default":  {Rate: 5, Burst: 20},
			},
			DefaultGroup: "default",
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyses" {
					return "analyses"
				}
				return ""
			},
		}),
	)

	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(authed)
	}
	if deps.RefDocsHandler != nil {
		deps.RefDocsHandler.RegisterRoutes(authed)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
