package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legalaid-backend/internal/documents"
	"legalaid-backend/internal/shared/config"
	"legalaid-backend/internal/shared/metrics"
	"legalaid-backend/internal/shared/server/middleware"
	"legalaid-backend/internal/shared/server/respond"
)

// RouterDeps carries the constructed handlers the router mounts.
type RouterDeps struct {
	Config    config.Config
	Documents *documents.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	deps.Documents.RegisterRoutes(api)

	// The model call is the expensive path; keep its own bucket.
	limited := api.Group("")
	limited.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"EXPLAIN": {Rate: 0.5, Burst: 2},
		},
		GroupFor: func(c *gin.Context) string {
			if strings.HasSuffix(c.FullPath(), "/documents/explain") {
				return "EXPLAIN"
			}
			return ""
		},
	}))
	deps.Documents.RegisterExplainRoute(limited)

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
