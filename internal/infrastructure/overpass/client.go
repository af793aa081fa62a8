package overpass

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
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/accessibility-finder/internal/config"
	"github.com/accessibility-finder/internal/domain"
	"github.com/accessibility-finder/internal/domain/repository"
	apperrors "github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/metrics"
)

const (
	serviceName = "overpass"

	// Серверный таймаут Overpass в секундах, передается внутри запроса
	queryTimeoutS = 25
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

type overpassResponse struct {
	Elements []domain.PlaceRecord `json:"elements"`
}

// NewOverpassClient создает новый клиент для Overpass API
func NewOverpassClient(
	cfg *config.OverpassConfig,
	timeout time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) repository.PlaceRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
		metrics: m,
	}
}

// QueryAround возвращает объекты OSM с заданным тегом вокруг точки
func (c *client) QueryAround(ctx context.Context, query domain.AreaQuery) ([]domain.PlaceRecord, error) {
	overpassQL := buildQuery(query)

	c.logger.Debug("Calling Overpass API",
		zap.String("tag", query.Tag.Key+"="+query.Tag.Value),
		zap.Int("radius_m", query.RadiusM))

	form := url.Values{}
	form.Set("data", overpassQL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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
		c.logger.Error("Overpass API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, apperrors.NewUpstreamError(serviceName, resp.StatusCode)
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(serviceName, "error").Inc()
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues(serviceName, "success").Inc()

	c.logger.Debug("Overpass API call successful", zap.Int("elements", len(decoded.Elements)))

	return decoded.Elements, nil
}

// buildQuery собирает Overpass QL запрос. Объекты ищутся среди node, way
// и relation; для way и relation запрашивается вычисленный центр.
func buildQuery(query domain.AreaQuery) string {
	selector := tagSelector(query.Tag)
	for _, extra := range query.Extra {
		selector += tagSelector(extra)
	}
	around := fmt.Sprintf("(around:%d,%s,%s)",
		query.RadiusM, formatCoord(query.Lat), formatCoord(query.Lon))

	var sb strings.Builder
	sb.WriteString("[out:json][timeout:")
	sb.WriteString(strconv.Itoa(queryTimeoutS))
	sb.WriteString("];\n(\n")
	for _, element := range [...]string{"node", "way", "relation"} {
		sb.WriteString("  ")
		sb.WriteString(element)
		sb.WriteString(around)
		sb.WriteString(selector)
		sb.WriteString(";\n")
	}
	sb.WriteString(");\nout center;\n")
	return sb.String()
}

// tagSelector возвращает селектор вида ["key"="value"] с экранированием
func tagSelector(filter domain.TagFilter) string {
	return `["` + escapeQL(filter.Key) + `"="` + escapeQL(filter.Value) + `"]`
}

func escapeQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
