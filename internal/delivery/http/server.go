package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/accessibility-finder/internal/config"
	"github.com/accessibility-finder/internal/delivery/http/handler"
	"github.com/accessibility-finder/internal/delivery/http/middleware"
	apperrors "github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/metrics"
	"github.com/accessibility-finder/internal/pkg/utils"
)

const (
	appName    = "Accessibility Finder API"
	appVersion = "0.1.0"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry

	// Handlers
	geocodeHandler  *handler.GeocodeHandler
	searchHandler   *handler.SearchHandler
	categoryHandler *handler.CategoryHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	registry *prometheus.Registry,
	m *metrics.Metrics,
	geocodeHandler *handler.GeocodeHandler,
	searchHandler *handler.SearchHandler,
	categoryHandler *handler.CategoryHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		registry:        registry,
		geocodeHandler:  geocodeHandler,
		searchHandler:   searchHandler,
		categoryHandler: categoryHandler,
	}

	s.setupMiddlewares(m)
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares(m *metrics.Metrics) {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Metrics(m))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Prometheus metrics
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}),
	)
	s.app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	// Service info
	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":      true,
			"service": appName,
			"version": appVersion,
		})
	})

	// Health check
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok": true,
		})
	})

	api := s.app.Group("/api")

	api.Get("/categories", s.categoryHandler.List)
	api.Get("/geocode", s.geocodeHandler.Geocode)
	api.Get("/search", s.searchHandler.Search)

	// Старый эндпоинт, оставлен для совместимости
	s.app.Post("/search", s.searchHandler.LegacySearch)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - обработчик ошибок, не дошедших до хендлеров
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: apperrors.New("REQUEST_FAILED", err.Error(), code),
		})
	}
}
