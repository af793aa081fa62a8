package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/utils"
	"github.com/accessibility-finder/internal/pkg/validator"
	"github.com/accessibility-finder/internal/usecase"
	"github.com/accessibility-finder/internal/usecase/dto"
)

// Значение limit по умолчанию на границе API
const defaultLimit = 20

// SearchHandler - обработчик поиска мест
type SearchHandler struct {
	searchUC       *usecase.SearchUseCase
	logger         *zap.Logger
	defaultRadiusM int
}

// NewSearchHandler - создание нового SearchHandler
func NewSearchHandler(searchUC *usecase.SearchUseCase, logger *zap.Logger, defaultRadiusM int) *SearchHandler {
	return &SearchHandler{
		searchUC:       searchUC,
		logger:         logger,
		defaultRadiusM: defaultRadiusM,
	}
}

// Search godoc
// @Summary Поиск мест по категории вокруг точки
// @Description Ищет места заданной категории вокруг координат с фильтрами доступности. Результаты отсортированы по расстоянию от точки.
// @Tags Search
// @Produce json
// @Param lat query number true "Широта (-90..90)"
// @Param lon query number true "Долгота (-180..180)"
// @Param category query string true "Категория (cafe, hospital, ...) или явный тег key=value"
// @Param radius_m query int false "Радиус поиска в метрах (50..50000)" default(1500)
// @Param limit query int false "Максимальное количество результатов (1..100)" default(20)
// @Param wheelchair query string false "Фильтр по тегу wheelchair (yes, no, limited, unknown)"
// @Param toilets_wheelchair query string false "Фильтр по тегу toilets:wheelchair (yes, no, unknown)"
// @Param step_free query bool false "Фильтр по безбарьерному входу"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchPlacesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	start := time.Now()

	lat, err := requiredFloat(c, "lat")
	if err != nil {
		return utils.SendError(c, err)
	}
	lon, err := requiredFloat(c, "lon")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SearchPlacesRequest
	req.Lat = lat
	req.Lon = lon
	req.Category = c.Query("category")
	req.Wheelchair = c.Query("wheelchair")
	req.ToiletsWheelchair = c.Query("toilets_wheelchair")

	// Ноль и отсутствие параметра означают значение по умолчанию
	req.RadiusM = c.QueryInt("radius_m", 0)
	if req.RadiusM == 0 {
		req.RadiusM = h.defaultRadiusM
	}
	req.Limit = c.QueryInt("limit", 0)
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}

	if raw := c.Query("step_free"); raw != "" {
		stepFree, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"param":  "step_free",
				"reason": "must be a boolean",
			}))
		}
		req.StepFree = &stepFree
	}

	// Валидация
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result, err := h.searchUC.SearchPlaces(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Total,
		Limit:    req.Limit,
		RadiusM:  req.RadiusM,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// LegacySearch godoc
// @Summary Геокодирование и поиск одним запросом
// @Description Старый эндпоинт, оставлен для совместимости. Геокодирует текстовый запрос и ищет места категории вокруг найденной точки с параметрами по умолчанию. Новым клиентам лучше использовать GET /api/geocode и GET /api/search.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.LegacySearchRequest true "Запрос и категория"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchPlacesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /search [post]
func (h *SearchHandler) LegacySearch(c *fiber.Ctx) error {
	var req dto.LegacySearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "invalid request body",
		}))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result, err := h.searchUC.LegacySearch(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// requiredFloat читает обязательный числовой query-параметр
func requiredFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"param":  name,
			"reason": "required",
		})
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"param":  name,
			"reason": "must be a number",
		})
	}
	return value, nil
}
