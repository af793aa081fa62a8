package repository

import (
	"context"

	"github.com/accessibility-finder/internal/domain"
)

// PlaceRepository определяет методы для получения объектов OSM
type PlaceRepository interface {
	// QueryAround возвращает объекты с заданным тегом вокруг точки.
	// Дополнительные фильтры из query.Extra применяются на стороне
	// источника данных.
	QueryAround(ctx context.Context, query domain.AreaQuery) ([]domain.PlaceRecord, error)
}
