// Package server wires configuration, logging, metrics, the provider
// gateway, and the chat orchestrator into one HTTP server.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/eurekastudio/creative-backend/internal/api/http"
	"github.com/eurekastudio/creative-backend/internal/api/middleware"
	"github.com/eurekastudio/creative-backend/internal/domain/chat"
	"github.com/eurekastudio/creative-backend/internal/domain/intent"
	"github.com/eurekastudio/creative-backend/internal/gateway"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/config"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/logging"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a fully wired server instance.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else if l, err := logging.New(logging.Config{Level: cfg.Logging.Level}); err == nil {
		logger = l
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing creative backend",
		zap.String("port", cfg.Server.Port),
		zap.String("vision_model", cfg.OpenRouter.VisionModel),
		zap.String("image_model", cfg.OpenRouter.ImageModel),
		zap.String("chat_model", cfg.Anthropic.Model),
	)

	metrics := monitoring.NewMetrics()

	// Provider gateway: Anthropic for text, OpenRouter for images. Each
	// client owns its own circuit breaker.
	anthropic := gateway.NewAnthropic(cfg.Anthropic, logger, metrics)
	openrouter := gateway.NewOpenRouter(cfg.OpenRouter, logger, metrics)
	gw := gateway.NewMulti(anthropic, openrouter)

	orchestrator := chat.New(gw, intent.NewKeyword(), logger, metrics)
	handlers := apihttp.NewHandler(orchestrator, gw, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.POST("/chat", handlers.Chat)
	router.POST("/generate-image", handlers.GenerateImage)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := cfg.Server.Host + ":" + cfg.Server.Port

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		httpSrv: &http.Server{Addr: addr, Handler: router},
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return err
	}
	_ = s.logger.Sync()
	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
