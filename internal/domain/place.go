package domain

import (
	"strconv"
	"strings"
)

// Типы объектов OpenStreetMap
const (
	OSMTypeNode     = "node"
	OSMTypeWay      = "way"
	OSMTypeRelation = "relation"
)

// LatLon - координаты точки (широта, долгота)
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeocodeResult - результат геокодирования текстового запроса
type GeocodeResult struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// TagFilter - фильтр по OSM-тегу вида key=value
type TagFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AreaQuery - запрос объектов вокруг точки.
// Tag задает основной тег категории, Extra - дополнительные точные
// фильтры, которые можно передать непосредственно в источник данных.
type AreaQuery struct {
	Lat     float64
	Lon     float64
	RadiusM int
	Tag     TagFilter
	Extra   []TagFilter
}

// PlaceRecord - сырой объект OSM, полученный из источника данных.
// Для node координаты лежат в Lat/Lon, для way и relation - в Center.
type PlaceRecord struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *LatLon           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Position возвращает координаты объекта. Для node берутся прямые
// координаты, для way и relation - вычисленный центр. Если координат
// нет ни там, ни там, возвращает ok=false и объект исключается из выдачи.
func (r *PlaceRecord) Position() (LatLon, bool) {
	if r.Lat != nil && r.Lon != nil {
		return LatLon{Lat: *r.Lat, Lon: *r.Lon}, true
	}
	if r.Center != nil {
		return *r.Center, true
	}
	return LatLon{}, false
}

// DisplayName возвращает человекочитаемое имя объекта: тег name,
// затем brand, затем синтетическое имя из категории и идентификатора.
func (r *PlaceRecord) DisplayName(category string) string {
	if name := r.Tags["name"]; name != "" {
		return name
	}
	if brand := r.Tags["brand"]; brand != "" {
		return brand
	}
	return category + " (" + r.Type + ":" + strconv.FormatInt(r.ID, 10) + ")"
}

// Address собирает адрес из тегов addr:street, addr:housenumber и
// addr:city, пропуская отсутствующие части
func (r *PlaceRecord) Address() string {
	var parts []string
	for _, key := range [...]string{"addr:street", "addr:housenumber", "addr:city"} {
		if v := r.Tags[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// Place - подготовленный к выдаче объект с вычисленным расстоянием
type Place struct {
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM float64 `json:"distance_m"`
	Address   string  `json:"address"`
	OSMType   string  `json:"osm_type"`
	OSMID     int64   `json:"osm_id"`
	Category  string  `json:"category"`
}
