package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	mw, err := HTTPMetrics(provider.Meter("http.server"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(mw)
	router.GET("/api/v1/inventory/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, "GET", "/api/v1/inventory/items/1", nil)
	serve(router, "GET", "/api/v1/inventory/items/2", nil)
	serve(router, "GET", "/nowhere", nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	var sawHistogram bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "http_server_request_total":
				sum := m.Data.(metricdata.Sum[int64])
				for _, dp := range sum.DataPoints {
					route, _ := dp.Attributes.Value("http.route")
					counts[route.AsString()] += dp.Value
				}
			case "http_server_request_duration_seconds":
				sawHistogram = true
			}
		}
	}
	assert.Equal(t, int64(2), counts["/api/v1/inventory/items/:id"])
	assert.Equal(t, int64(1), counts["unmatched"])
	assert.True(t, sawHistogram)
}
