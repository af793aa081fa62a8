package main

// @title Accessibility Finder API
// @version 0.1.0
// @description Сервис поиска доступных мест по данным OpenStreetMap.
// @description
// @description Основные возможности:
// @description - Геокодирование текстовых адресов через Nominatim
// @description - Поиск мест по категориям вокруг точки через Overpass
// @description - Фильтры доступности: wheelchair, toilets:wheelchair, безбарьерный вход
// @description - Кеширование результатов геокодирования и поиска в памяти

// @contact.name API Support
// @contact.email support@accessibility-finder.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/accessibility-finder/docs"
	"github.com/accessibility-finder/internal/config"
	httpDelivery "github.com/accessibility-finder/internal/delivery/http"
	"github.com/accessibility-finder/internal/delivery/http/handler"
	"github.com/accessibility-finder/internal/domain"
	"github.com/accessibility-finder/internal/infrastructure/nominatim"
	"github.com/accessibility-finder/internal/infrastructure/overpass"
	"github.com/accessibility-finder/internal/pkg/cache"
	"github.com/accessibility-finder/internal/pkg/logger"
	"github.com/accessibility-finder/internal/pkg/metrics"
	"github.com/accessibility-finder/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Accessibility Finder")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.Int("cache_max_size", cfg.Cache.MaxSize),
	)

	// 3. Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("accessibility_finder", registry)

	// 4. Initialize upstream clients
	nominatimClient := nominatim.NewNominatimClient(&cfg.Nominatim, cfg.HTTP.Timeout, log, m)
	overpassClient := overpass.NewOverpassClient(&cfg.Overpass, cfg.HTTP.Timeout, log, m)

	log.Info("Upstream clients initialized",
		zap.String("nominatim", cfg.Nominatim.BaseURL),
		zap.String("overpass", cfg.Overpass.BaseURL),
	)

	// 5. Initialize caches
	geocodeCache := cache.New[domain.GeocodeResult](cfg.Cache.TTL, cfg.Cache.MaxSize)
	searchCache := cache.New[[]domain.Place](cfg.Cache.TTL, cfg.Cache.MaxSize)

	// 6. Initialize use cases
	geocodeUC := usecase.NewGeocodeUseCase(nominatimClient, geocodeCache, m, log)
	searchUC := usecase.NewSearchUseCase(
		overpassClient,
		geocodeUC,
		searchCache,
		m,
		log,
		cfg.Search.DefaultRadiusM,
	)
	categoryUC := usecase.NewCategoryUseCase()

	log.Info("Use cases initialized")

	// 7. Initialize HTTP handlers
	geocodeHandler := handler.NewGeocodeHandler(geocodeUC, log)
	searchHandler := handler.NewSearchHandler(searchUC, log, cfg.Search.DefaultRadiusM)
	categoryHandler := handler.NewCategoryHandler(categoryUC)

	// 8. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		registry,
		m,
		geocodeHandler,
		searchHandler,
		categoryHandler,
	)

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
