// Package api wires the HTTP router and server.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/lead-tracker/internal/auth"
	"github.com/jonesrussell/lead-tracker/internal/config"
	"github.com/jonesrussell/lead-tracker/internal/handlers"
	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/metrics"
	"github.com/jonesrussell/lead-tracker/internal/middleware"
)

const corsMaxAge = 12 * time.Hour

// Handlers bundles the route handlers the router mounts.
type Handlers struct {
	Auth          *handlers.AuthHandler
	ExtractedData *handlers.ExtractedDataHandler
	Leads         *handlers.LeadHandler
	Jobs          *handlers.JobHandler
	Health        *handlers.HealthHandler
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(
	cfg *config.Config,
	h Handlers,
	tokens *auth.TokenManager,
	users middleware.UserGetter,
	m *metrics.Metrics,
	log logger.Logger,
) *gin.Engine {
	if !cfg.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// The extension's content scripts run inside arbitrary pages, so the
	// requesting origin is reflected instead of using a wildcard (a wildcard
	// with credentials fails browser preflight).
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(m.Middleware())
	router.Use(requestLogger(log))
	router.Use(recovery(cfg))

	router.GET("/health", h.Health.Health)
	router.GET("/health/metrics", h.Health.Metrics)

	guard := middleware.Auth(tokens, users, log)

	api := router.Group("/api")
	api.POST("/demo/save", h.Health.Demo)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.GET("/me", guard, h.Auth.Me)

	extracted := api.Group("/extracted-data")
	extracted.Use(guard)
	extracted.POST("", h.ExtractedData.Save)
	extracted.GET("", h.ExtractedData.List)
	extracted.GET("/stats", h.ExtractedData.Stats)

	// Lead/job protection is configurable: the extension historically called
	// these routes anonymously.
	records := api.Group("")
	if cfg.Auth.ProtectRecords {
		records.Use(guard)
	}

	leads := records.Group("/leads")
	leads.POST("", h.Leads.Create)
	leads.GET("", h.Leads.List)
	leads.PUT("/:id/status", h.Leads.UpdateStatus)

	jobs := records.Group("/jobs")
	jobs.POST("", h.Jobs.Create)
	jobs.GET("", h.Jobs.List)
	jobs.PUT("/:id/status", h.Jobs.UpdateStatus)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route " + c.Request.URL.Path + " not found",
		})
	})

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}
	if len(cfg.Service.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Service.CORSOrigins
	} else {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	return corsCfg
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}

// recovery converts any panic into the generic 500 envelope. Panic details
// are only exposed outside production.
func recovery(cfg *config.Config) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		body := gin.H{
			"success": false,
			"error":   "Something went wrong!",
		}
		if !cfg.IsProduction() {
			if err, ok := recovered.(error); ok {
				body["details"] = err.Error()
			} else if msg, ok := recovered.(string); ok {
				body["details"] = msg
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}
