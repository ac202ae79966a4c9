package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"usergraph/internal/adapter/http/middleware"
	"usergraph/internal/adapter/telemetry"
	"usergraph/pkg/config"
)

// NewRouter assembles the gin engine: tracing, CORS, metrics and rate
// limiting around the GraphQL endpoint and the admin surface.
func NewRouter(cfg *config.Config, container *Container, metrics *telemetry.AppMetrics, zapLogger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())

	if metrics != nil {
		router.Use(middleware.Metrics(metrics))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, zapLogger, metrics)
		router.Use(limiter.Middleware())
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.Telemetry.ServiceName,
			"graphql": "/graphql",
			"health":  "/health",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/graphql", container.GraphQLHandler.Handle)

	admin := router.Group("/admin")
	admin.Use(container.JWT.GinMiddleware())
	admin.DELETE("/users/:id", container.AdminHandler.HardDeleteUser)

	return router
}

// StartServer serves until ctx is cancelled, then drains in-flight
// requests before returning.
func StartServer(ctx context.Context, cfg *config.Config, router *gin.Engine) error {
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("environment", cfg.Environment).Msg("server_starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("server_shutting_down")

	return srv.Shutdown(shutdownCtx)
}
