package domain

import (
	"sort"
	"strings"
)

// categoryTags - соответствие категорий поиска OSM-тегам.
// Категория может раскрываться в несколько тегов: объекты по каждому
// запрашиваются отдельно, результаты объединяются.
var categoryTags = map[string][]TagFilter{
	"cafe":        {{Key: "amenity", Value: "cafe"}},
	"restaurant":  {{Key: "amenity", Value: "restaurant"}},
	"bar":         {{Key: "amenity", Value: "bar"}},
	"hospital":    {{Key: "amenity", Value: "hospital"}, {Key: "amenity", Value: "clinic"}},
	"pharmacy":    {{Key: "amenity", Value: "pharmacy"}},
	"toilets":     {{Key: "amenity", Value: "toilets"}},
	"parking":     {{Key: "amenity", Value: "parking"}},
	"atm":         {{Key: "amenity", Value: "atm"}},
	"bank":        {{Key: "amenity", Value: "bank"}},
	"museum":      {{Key: "tourism", Value: "museum"}},
	"hotel":       {{Key: "tourism", Value: "hotel"}},
	"supermarket": {{Key: "shop", Value: "supermarket"}},
	"shop":        {{Key: "shop", Value: "yes"}},
	"bus_stop":    {{Key: "highway", Value: "bus_stop"}},
}

// CategoryFilters раскрывает категорию в список OSM-тегов.
// Строка вида key=value с непустым ключом трактуется как явный тег и
// используется как есть, минуя справочник. Для неизвестной категории
// возвращает ok=false.
func CategoryFilters(category string) ([]TagFilter, bool) {
	if key, value, found := strings.Cut(category, "="); found && strings.TrimSpace(key) != "" {
		return []TagFilter{{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}}, true
	}
	filters, ok := categoryTags[category]
	return filters, ok
}

// SupportedCategories возвращает отсортированный список известных категорий
func SupportedCategories() []string {
	names := make([]string, 0, len(categoryTags))
	for name := range categoryTags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryInfo - категория и ее теги для выдачи клиенту
type CategoryInfo struct {
	Category string      `json:"category"`
	Tags     []TagFilter `json:"tags"`
}

// ListCategories возвращает все известные категории с тегами,
// отсортированные по имени
func ListCategories() []CategoryInfo {
	list := make([]CategoryInfo, 0, len(categoryTags))
	for _, name := range SupportedCategories() {
		list = append(list, CategoryInfo{Category: name, Tags: categoryTags[name]})
	}
	return list
}
