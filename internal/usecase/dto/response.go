package dto

import "github.com/accessibility-finder/internal/domain"

// GeocodeResponse - результат геокодирования
type GeocodeResponse struct {
	Query       string  `json:"query"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// SearchPlacesResponse - результат поиска мест
type SearchPlacesResponse struct {
	Places []domain.Place `json:"places"`
	Total  int            `json:"total"`
}

// CategoriesResponse - список поддерживаемых категорий
type CategoriesResponse struct {
	Categories []domain.CategoryInfo `json:"categories"`
}
