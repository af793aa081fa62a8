package repository

import (
	"context"

	"github.com/accessibility-finder/internal/domain"
)

// GeocoderRepository определяет методы для геокодирования текстовых запросов
type GeocoderRepository interface {
	// Resolve возвращает кандидатов по текстовому запросу в порядке
	// релевантности. Пустой список означает, что место не найдено.
	Resolve(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error)
}
