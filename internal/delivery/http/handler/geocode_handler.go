package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/utils"
	"github.com/accessibility-finder/internal/pkg/validator"
	"github.com/accessibility-finder/internal/usecase"
	"github.com/accessibility-finder/internal/usecase/dto"
)

// GeocodeHandler - обработчик запросов геокодирования
type GeocodeHandler struct {
	geocodeUC *usecase.GeocodeUseCase
	logger    *zap.Logger
}

// NewGeocodeHandler - создание нового GeocodeHandler
func NewGeocodeHandler(geocodeUC *usecase.GeocodeUseCase, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geocodeUC: geocodeUC,
		logger:    logger,
	}
}

// Geocode godoc
// @Summary Геокодирование текстового запроса
// @Description Преобразует произвольный текстовый адрес или название места в координаты через Nominatim. Возвращается лучший кандидат.
// @Tags Geocode
// @Produce json
// @Param q query string true "Адрес или название места (минимум 2 символа)"
// @Success 200 {object} utils.SuccessResponse{data=dto.GeocodeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/geocode [get]
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	var req dto.GeocodeRequest
	req.Query = c.Query("q")

	// Валидация
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result, err := h.geocodeUC.Geocode(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
