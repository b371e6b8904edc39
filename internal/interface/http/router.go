package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akhilvs/sarvajna/internal/domain/auth"
	"github.com/akhilvs/sarvajna/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	api := router.Group("/api/v1")
	{
		assistant := api.Group("/assistant")
		{
			assistant.POST("/ask", handler.Ask)
			assistant.POST("/speak", handler.Speak)
			assistant.GET("/trending", handler.Trending)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/refresh", handler.Refresh)
			authGroup.GET("/google/login", handler.GoogleLogin)
			authGroup.GET("/google/callback", handler.GoogleCallback)
		}

		protected := api.Group("")
		protected.Use(authMiddleware(authSvc))
		{
			protected.GET("/auth/profile", handler.Profile)
			protected.POST("/auth/logout", handler.Logout)

			admin := protected.Group("/kb")
			admin.Use(requireRole(auth.RoleAdmin, auth.RoleEditor))
			{
				admin.GET("/entries", handler.ListEntries)
				admin.POST("/reload", handler.ReloadKB)
				admin.PUT("/entries", handler.UpsertEntry)
			}
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"request_id", c.GetString("request_id"))
	}
}
