package errors

import "net/http"

var (
	ErrLocationNotFound = New(
		"LOCATION_NOT_FOUND",
		"Location not found",
		http.StatusNotFound,
	)

	ErrUnknownCategory = New(
		"UNKNOWN_CATEGORY",
		"Unknown place category",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrUpstreamTimeout = New(
		"UPSTREAM_TIMEOUT",
		"Upstream service did not respond in time",
		http.StatusGatewayTimeout,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// NewUpstreamError создает ошибку вызова внешнего сервиса (Nominatim, Overpass)
// с HTTP-статусом, который вернул сам сервис
func NewUpstreamError(service string, status int) *AppError {
	return &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    "Upstream service request failed",
		StatusCode: http.StatusBadGateway,
		Details: map[string]interface{}{
			"service": service,
			"status":  status,
		},
	}
}

// IsUpstreamError сообщает, является ли ошибка ошибкой внешнего сервиса
func IsUpstreamError(err error) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Code == "UPSTREAM_ERROR" || appErr.Code == "UPSTREAM_TIMEOUT"
}
