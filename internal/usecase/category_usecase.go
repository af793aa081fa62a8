package usecase

import (
	"github.com/accessibility-finder/internal/domain"
	"github.com/accessibility-finder/internal/usecase/dto"
)

// CategoryUseCase - use case для справочника категорий поиска
type CategoryUseCase struct{}

// NewCategoryUseCase - создание нового CategoryUseCase
func NewCategoryUseCase() *CategoryUseCase {
	return &CategoryUseCase{}
}

// ListCategories возвращает все поддерживаемые категории с их OSM-тегами,
// отсортированные по имени
func (uc *CategoryUseCase) ListCategories() *dto.CategoriesResponse {
	return &dto.CategoriesResponse{Categories: domain.ListCategories()}
}
