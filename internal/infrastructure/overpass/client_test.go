package overpass

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
	"github.com/accessibility-finder/internal/domain"
	apperrors "github.com/accessibility-finder/internal/pkg/errors"
	"github.com/accessibility-finder/internal/pkg/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.New("test", prometheus.NewRegistry())
}

func TestBuildQuery(t *testing.T) {
	t.Run("single tag", func(t *testing.T) {
		query := buildQuery(domain.AreaQuery{
			Lat:     55.75,
			Lon:     37.61,
			RadiusM: 1500,
			Tag:     domain.TagFilter{Key: "amenity", Value: "cafe"},
		})

		expected := `[out:json][timeout:25];
(
  node(around:1500,55.75,37.61)["amenity"="cafe"];
  way(around:1500,55.75,37.61)["amenity"="cafe"];
  relation(around:1500,55.75,37.61)["amenity"="cafe"];
);
out center;
`
		assert.Equal(t, expected, query)
	})

	t.Run("extra filters are appended", func(t *testing.T) {
		query := buildQuery(domain.AreaQuery{
			Lat:     55.75,
			Lon:     37.61,
			RadiusM: 500,
			Tag:     domain.TagFilter{Key: "amenity", Value: "cafe"},
			Extra: []domain.TagFilter{
				{Key: "wheelchair", Value: "yes"},
				{Key: "toilets:wheelchair", Value: "yes"},
			},
		})

		assert.Contains(t, query, `node(around:500,55.75,37.61)["amenity"="cafe"]["wheelchair"="yes"]["toilets:wheelchair"="yes"];`)
	})

	t.Run("quotes and backslashes are escaped", func(t *testing.T) {
		query := buildQuery(domain.AreaQuery{
			Lat:     1,
			Lon:     2,
			RadiusM: 100,
			Tag:     domain.TagFilter{Key: `amen"ity`, Value: `ca\fe`},
		})

		assert.Contains(t, query, `["amen\"ity"="ca\\fe"]`)
	})
}

func TestClient_QueryAround(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

			require.NoError(t, r.ParseForm())
			data := r.PostForm.Get("data")
			assert.Contains(t, data, `["amenity"="cafe"]`)
			assert.Contains(t, data, "around:1500,55.75,37.61")
			assert.Contains(t, data, "out center;")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"elements": [
					{"type": "node", "id": 100, "lat": 55.751, "lon": 37.611,
					 "tags": {"name": "Кафе", "wheelchair": "yes"}},
					{"type": "way", "id": 200, "center": {"lat": 55.752, "lon": 37.612},
					 "tags": {"brand": "Chain"}}
				]
			}`))
		}))
		defer server.Close()

		cfg := &config.OverpassConfig{BaseURL: server.URL}
		client := NewOverpassClient(cfg, 5*time.Second, logger, newTestMetrics())

		records, err := client.QueryAround(context.Background(), domain.AreaQuery{
			Lat:     55.75,
			Lon:     37.61,
			RadiusM: 1500,
			Tag:     domain.TagFilter{Key: "amenity", Value: "cafe"},
		})

		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, domain.OSMTypeNode, records[0].Type)
		assert.Equal(t, int64(100), records[0].ID)
		require.NotNil(t, records[0].Lat)
		assert.Equal(t, 55.751, *records[0].Lat)
		assert.Equal(t, "Кафе", records[0].Tags["name"])

		assert.Equal(t, domain.OSMTypeWay, records[1].Type)
		require.NotNil(t, records[1].Center)
		assert.Equal(t, 55.752, records[1].Center.Lat)
		assert.Nil(t, records[1].Lat)
	})

	t.Run("empty elements", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"elements": []}`))
		}))
		defer server.Close()

		cfg := &config.OverpassConfig{BaseURL: server.URL}
		client := NewOverpassClient(cfg, 5*time.Second, logger, newTestMetrics())

		records, err := client.QueryAround(context.Background(), domain.AreaQuery{
			Lat:     55.75,
			Lon:     37.61,
			RadiusM: 1500,
			Tag:     domain.TagFilter{Key: "amenity", Value: "bar"},
		})

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("upstream error carries status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusGatewayTimeout)
			w.Write([]byte(`overloaded`))
		}))
		defer server.Close()

		cfg := &config.OverpassConfig{BaseURL: server.URL}
		client := NewOverpassClient(cfg, 5*time.Second, logger, newTestMetrics())

		records, err := client.QueryAround(context.Background(), domain.AreaQuery{
			Lat:     55.75,
			Lon:     37.61,
			RadiusM: 1500,
			Tag:     domain.TagFilter{Key: "amenity", Value: "cafe"},
		})

		require.Error(t, err)
		assert.Nil(t, records)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
		assert.Equal(t, "overpass", appErr.Details["service"])
		assert.Equal(t, http.StatusGatewayTimeout, appErr.Details["status"])
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		cfg := &config.OverpassConfig{BaseURL: server.URL}
		client := NewOverpassClient(cfg, 5*time.Second, logger, newTestMetrics())

		_, err := client.QueryAround(context.Background(), domain.AreaQuery{
			Lat:     55.75,
			Lon:     37.61,
			RadiusM: 1500,
			Tag:     domain.TagFilter{Key: "amenity", Value: "cafe"},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})
}
