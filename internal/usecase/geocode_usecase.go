package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/accessibility-finder/internal/domain"
	"github.com/accessibility-finder/internal/domain/repository"
	"github.com/accessibility-finder/internal/pkg/cache"
	"github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/metrics"
	"github.com/accessibility-finder/internal/usecase/dto"
)

const geocodeCacheName = "geocode"

// GeocodeUseCase - use case для геокодирования текстовых запросов
type GeocodeUseCase struct {
	geocoderRepo repository.GeocoderRepository
	cache        *cache.TTLCache[domain.GeocodeResult]
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewGeocodeUseCase - создание нового GeocodeUseCase
func NewGeocodeUseCase(
	geocoderRepo repository.GeocoderRepository,
	geocodeCache *cache.TTLCache[domain.GeocodeResult],
	m *metrics.Metrics,
	logger *zap.Logger,
) *GeocodeUseCase {
	return &GeocodeUseCase{
		geocoderRepo: geocoderRepo,
		cache:        geocodeCache,
		metrics:      m,
		logger:       logger,
	}
}

// Geocode - геокодирование текстового запроса с кешированием результата
func (uc *GeocodeUseCase) Geocode(ctx context.Context, req dto.GeocodeRequest) (*dto.GeocodeResponse, error) {
	// Ключ кеша нормализуется, сам запрос уходит в геокодер как есть
	key := cache.Key(geocodeCacheName, strings.ToLower(strings.TrimSpace(req.Query)))

	if result, ok := uc.cache.Get(key); ok {
		uc.metrics.CacheHits.WithLabelValues(geocodeCacheName).Inc()
		uc.logger.Debug("Geocode cache hit", zap.String("query", req.Query))
		return geocodeResponse(req.Query, result), nil
	}
	uc.metrics.CacheMisses.WithLabelValues(geocodeCacheName).Inc()

	// Берем только лучшего кандидата
	candidates, err := uc.geocoderRepo.Resolve(ctx, req.Query, 1)
	if err != nil {
		uc.logger.Error("Failed to geocode query", zap.String("query", req.Query), zap.Error(err))
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, errors.ErrLocationNotFound.WithDetails(map[string]interface{}{
			"query": req.Query,
		})
	}

	result := candidates[0]
	uc.cache.Set(key, result)

	return geocodeResponse(req.Query, result), nil
}

func geocodeResponse(query string, result domain.GeocodeResult) *dto.GeocodeResponse {
	return &dto.GeocodeResponse{
		Query:       query,
		Lat:         result.Lat,
		Lon:         result.Lon,
		DisplayName: result.DisplayName,
	}
}
