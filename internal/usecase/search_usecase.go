package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/accessibility-finder/internal/domain"
	"github.com/accessibility-finder/internal/domain/repository"
	"github.com/accessibility-finder/internal/pkg/cache"
	"github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/metrics"
	"github.com/accessibility-finder/internal/pkg/utils"
	"github.com/accessibility-finder/internal/usecase/dto"
)

const (
	searchCacheName = "search"

	defaultLimit = 20
	maxLimit     = 100
)

// SearchUseCase - use case для поиска доступных мест вокруг точки
type SearchUseCase struct {
	placeRepo      repository.PlaceRepository
	geocodeUC      *GeocodeUseCase
	cache          *cache.TTLCache[[]domain.Place]
	metrics        *metrics.Metrics
	logger         *zap.Logger
	defaultRadiusM int
}

// NewSearchUseCase - создание нового SearchUseCase
func NewSearchUseCase(
	placeRepo repository.PlaceRepository,
	geocodeUC *GeocodeUseCase,
	searchCache *cache.TTLCache[[]domain.Place],
	m *metrics.Metrics,
	logger *zap.Logger,
	defaultRadiusM int,
) *SearchUseCase {
	return &SearchUseCase{
		placeRepo:      placeRepo,
		geocodeUC:      geocodeUC,
		cache:          searchCache,
		metrics:        m,
		logger:         logger,
		defaultRadiusM: defaultRadiusM,
	}
}

// SearchPlaces - поиск мест по категории вокруг точки с фильтрами доступности
func (uc *SearchUseCase) SearchPlaces(ctx context.Context, req dto.SearchPlacesRequest) (*dto.SearchPlacesResponse, error) {
	// Валидация и значения по умолчанию
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	radiusM := req.RadiusM
	if radiusM == 0 {
		radiusM = uc.defaultRadiusM
	}
	if !utils.ValidateRadius(radiusM) {
		return nil, errors.ErrInvalidRadius.WithDetails(map[string]interface{}{
			"radius_m": radiusM,
		})
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// Раскрытие категории в OSM-теги
	filters, ok := domain.CategoryFilters(req.Category)
	if !ok {
		return nil, errors.ErrUnknownCategory.WithDetails(map[string]interface{}{
			"category":  req.Category,
			"supported": domain.SupportedCategories(),
		})
	}

	criteria := domain.AccessibilityCriteria{
		Wheelchair:        domain.AccessValue(req.Wheelchair),
		ToiletsWheelchair: domain.AccessValue(req.ToiletsWheelchair),
		StepFree:          req.StepFree,
	}

	cacheKey := cache.Key(
		searchCacheName,
		strings.ToLower(req.Category),
		coordKey(req.Lat), coordKey(req.Lon),
		radiusM, limit,
		req.Wheelchair, req.ToiletsWheelchair, stepFreeKey(req.StepFree),
	)

	if places, ok := uc.cache.Get(cacheKey); ok {
		uc.metrics.CacheHits.WithLabelValues(searchCacheName).Inc()
		uc.logger.Debug("Search cache hit", zap.String("category", req.Category))
		return &dto.SearchPlacesResponse{Places: places, Total: len(places)}, nil
	}
	uc.metrics.CacheMisses.WithLabelValues(searchCacheName).Inc()

	// Точные фильтры доступности передаются в источник данных,
	// unknown проверяется только локально
	var extra []domain.TagFilter
	if criteria.Wheelchair.Concrete() {
		extra = append(extra, domain.TagFilter{Key: "wheelchair", Value: string(criteria.Wheelchair)})
	}
	if criteria.ToiletsWheelchair.Concrete() {
		extra = append(extra, domain.TagFilter{Key: "toilets:wheelchair", Value: string(criteria.ToiletsWheelchair)})
	}

	// Запросы по тегам категории выполняются параллельно, результаты
	// складываются по индексу тега, чтобы порядок объединения был
	// детерминированным
	recordsByFilter := make([][]domain.PlaceRecord, len(filters))
	g, gctx := errgroup.WithContext(ctx)
	for i, filter := range filters {
		i, filter := i, filter
		g.Go(func() error {
			records, err := uc.placeRepo.QueryAround(gctx, domain.AreaQuery{
				Lat:     req.Lat,
				Lon:     req.Lon,
				RadiusM: radiusM,
				Tag:     filter,
				Extra:   extra,
			})
			if err != nil {
				return err
			}
			recordsByFilter[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.logger.Error("Failed to query places",
			zap.String("category", req.Category),
			zap.Error(err))
		return nil, err
	}

	places := uc.buildPlaces(req, criteria, recordsByFilter)

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].DistanceM < places[j].DistanceM
	})
	if len(places) > limit {
		places = places[:limit]
	}

	uc.cache.Set(cacheKey, places)

	return &dto.SearchPlacesResponse{Places: places, Total: len(places)}, nil
}

// buildPlaces объединяет результаты подзапросов: дедупликация по (type, id),
// определение координат, локальные фильтры доступности и расчет расстояния
func (uc *SearchUseCase) buildPlaces(
	req dto.SearchPlacesRequest,
	criteria domain.AccessibilityCriteria,
	recordsByFilter [][]domain.PlaceRecord,
) []domain.Place {
	type osmKey struct {
		typ string
		id  int64
	}
	seen := make(map[osmKey]struct{})

	places := make([]domain.Place, 0)
	for _, records := range recordsByFilter {
		for _, rec := range records {
			key := osmKey{typ: rec.Type, id: rec.ID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			pos, ok := rec.Position()
			if !ok {
				continue
			}

			if !criteria.Matches(rec.Tags) {
				continue
			}

			places = append(places, domain.Place{
				Name:      rec.DisplayName(req.Category),
				Lat:       pos.Lat,
				Lon:       pos.Lon,
				DistanceM: utils.HaversineDistance(req.Lat, req.Lon, pos.Lat, pos.Lon),
				Address:   rec.Address(),
				OSMType:   rec.Type,
				OSMID:     rec.ID,
				Category:  req.Category,
			})
		}
	}
	return places
}

// LegacySearch - геокодирование и поиск одним вызовом для старого API
func (uc *SearchUseCase) LegacySearch(ctx context.Context, req dto.LegacySearchRequest) (*dto.SearchPlacesResponse, error) {
	geo, err := uc.geocodeUC.Geocode(ctx, dto.GeocodeRequest{Query: req.Query})
	if err != nil {
		return nil, err
	}

	return uc.SearchPlaces(ctx, dto.SearchPlacesRequest{
		Lat:      geo.Lat,
		Lon:      geo.Lon,
		Category: req.Category,
	})
}

// coordKey - координата с фиксированной точностью шесть знаков: запросы,
// совпадающие с этой точностью, разделяют одну запись кеша
func coordKey(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func stepFreeKey(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
