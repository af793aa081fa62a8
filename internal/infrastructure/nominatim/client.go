package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/accessibility-finder/internal/config"
	"github.com/accessibility-finder/internal/domain"
	"github.com/accessibility-finder/internal/domain/repository"
	apperrors "github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/metrics"
)

const serviceName = "nominatim"

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	email      string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// nominatimPlace - элемент ответа Nominatim. Координаты приходят строками.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimClient создает новый клиент для Nominatim API
func NewNominatimClient(
	cfg *config.NominatimConfig,
	timeout time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) repository.GeocoderRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		email:     cfg.Email,
		logger:    logger,
		metrics:   m,
	}
}

// Resolve возвращает кандидатов геокодирования по текстовому запросу
func (c *client) Resolve(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")
	if c.email != "" {
		params.Set("email", c.email)
	}

	requestURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("Calling Nominatim API",
		zap.String("query", query),
		zap.Int("limit", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Политика использования Nominatim требует осмысленный User-Agent
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamLatency.WithLabelValues(serviceName).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(serviceName, "error").Inc()
		c.logger.Error("Failed to execute request", zap.Error(err))
		if isTimeout(err) {
			return nil, apperrors.ErrUpstreamTimeout.WithDetails(map[string]interface{}{
				"service": serviceName,
			})
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.UpstreamRequests.WithLabelValues(serviceName, "error").Inc()
		c.logger.Error("Nominatim API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, apperrors.NewUpstreamError(serviceName, resp.StatusCode)
	}

	var items []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(serviceName, "error").Inc()
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues(serviceName, "success").Inc()

	results := make([]domain.GeocodeResult, 0, len(items))
	for _, item := range items {
		lat, err := strconv.ParseFloat(item.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse latitude %q: %w", item.Lat, err)
		}
		lon, err := strconv.ParseFloat(item.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse longitude %q: %w", item.Lon, err)
		}
		results = append(results, domain.GeocodeResult{
			Lat:         lat,
			Lon:         lon,
			DisplayName: item.DisplayName,
		})
	}

	c.logger.Debug("Nominatim API call successful", zap.Int("candidates", len(results)))

	return results, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
