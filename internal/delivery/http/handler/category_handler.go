package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/accessibility-finder/internal/pkg/utils"
	"github.com/accessibility-finder/internal/usecase"
)

// CategoryHandler - обработчик справочника категорий
type CategoryHandler struct {
	categoryUC *usecase.CategoryUseCase
}

// NewCategoryHandler - создание нового CategoryHandler
func NewCategoryHandler(categoryUC *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{
		categoryUC: categoryUC,
	}
}

// List godoc
// @Summary Список поддерживаемых категорий
// @Description Возвращает все известные категории поиска с их OSM-тегами, отсортированные по имени
// @Tags Categories
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoriesResponse}
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	result := h.categoryUC.ListCategories()

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Categories),
	})
}
