package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/accessibility-finder/internal/config"
	apperrors "github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.New("test", prometheus.NewRegistry())
}

func TestClient_Resolve(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "Москва", r.URL.Query().Get("q"))
			assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
			assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"lat":"55.7558","lon":"37.6173","display_name":"Москва, Россия"}]`))
		}))
		defer server.Close()

		cfg := &config.NominatimConfig{
			BaseURL:   server.URL,
			UserAgent: "test-agent/1.0",
		}
		client := NewNominatimClient(cfg, 5*time.Second, logger, newTestMetrics())

		results, err := client.Resolve(context.Background(), "Москва", 1)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 55.7558, results[0].Lat)
		assert.Equal(t, 37.6173, results[0].Lon)
		assert.Equal(t, "Москва, Россия", results[0].DisplayName)
	})

	t.Run("email is passed when configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ops@example.com", r.URL.Query().Get("email"))
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		cfg := &config.NominatimConfig{
			BaseURL:   server.URL,
			UserAgent: "test-agent/1.0",
			Email:     "ops@example.com",
		}
		client := NewNominatimClient(cfg, 5*time.Second, logger, newTestMetrics())

		_, err := client.Resolve(context.Background(), "Paris", 1)

		require.NoError(t, err)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		cfg := &config.NominatimConfig{BaseURL: server.URL, UserAgent: "test-agent/1.0"}
		client := NewNominatimClient(cfg, 5*time.Second, logger, newTestMetrics())

		results, err := client.Resolve(context.Background(), "nowhere at all", 1)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("upstream error carries status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`rate limited`))
		}))
		defer server.Close()

		cfg := &config.NominatimConfig{BaseURL: server.URL, UserAgent: "test-agent/1.0"}
		client := NewNominatimClient(cfg, 5*time.Second, logger, newTestMetrics())

		results, err := client.Resolve(context.Background(), "Москва", 1)

		require.Error(t, err)
		assert.Nil(t, results)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
		assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
		assert.Equal(t, "nominatim", appErr.Details["service"])
		assert.Equal(t, http.StatusTooManyRequests, appErr.Details["status"])
		assert.True(t, apperrors.IsUpstreamError(err))
	})

	t.Run("malformed coordinates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"lat":"not-a-number","lon":"37.6173","display_name":"x"}]`))
		}))
		defer server.Close()

		cfg := &config.NominatimConfig{BaseURL: server.URL, UserAgent: "test-agent/1.0"}
		client := NewNominatimClient(cfg, 5*time.Second, logger, newTestMetrics())

		_, err := client.Resolve(context.Background(), "Москва", 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse latitude")
	})

	t.Run("timeout maps to upstream timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		cfg := &config.NominatimConfig{BaseURL: server.URL, UserAgent: "test-agent/1.0"}
		client := NewNominatimClient(cfg, 50*time.Millisecond, logger, newTestMetrics())

		_, err := client.Resolve(context.Background(), "Москва", 1)

		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UPSTREAM_TIMEOUT", appErr.Code)
	})
}
