package dto

// GeocodeRequest - запрос на геокодирование текстового адреса
type GeocodeRequest struct {
	Query string `json:"query" validate:"required,min=2"`
}

// SearchPlacesRequest - запрос на поиск мест вокруг точки
type SearchPlacesRequest struct {
	Lat               float64 `json:"lat" validate:"min=-90,max=90"`
	Lon               float64 `json:"lon" validate:"min=-180,max=180"`
	Category          string  `json:"category" validate:"required,min=1"`
	RadiusM           int     `json:"radius_m" validate:"omitempty,min=50,max=50000"`
	Limit             int     `json:"limit" validate:"omitempty,min=1,max=100"`
	Wheelchair        string  `json:"wheelchair" validate:"omitempty,oneof=yes no limited unknown"`
	ToiletsWheelchair string  `json:"toilets_wheelchair" validate:"omitempty,oneof=yes no unknown"`
	StepFree          *bool   `json:"step_free,omitempty"`
}

// LegacySearchRequest - запрос для старого эндпоинта: геокодирование
// и поиск одним вызовом
type LegacySearchRequest struct {
	Query    string `json:"query" validate:"required,min=2"`
	Category string `json:"category" validate:"required,min=1"`
}
