// file: internal/cdcobserve/metrics_test.go

package cdcobserve

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regSwap struct {
	oldReg prometheus.Registerer
	oldGat prometheus.Gatherer
}

func swapDefaultRegistry() (*prometheus.Registry, func()) {
	newReg := prometheus.NewRegistry()
	backup := regSwap{
		oldReg: prometheus.DefaultRegisterer,
		oldGat: prometheus.DefaultGatherer,
	}
	prometheus.DefaultRegisterer = newReg
	prometheus.DefaultGatherer = newReg
	return newReg, func() {
		prometheus.DefaultRegisterer = backup.oldReg
		prometheus.DefaultGatherer = backup.oldGat
	}
}

func TestRegister_IsolatedRegistry(t *testing.T) {
	reg, restore := swapDefaultRegistry()
	defer restore()

	Register()

	UpstreamAttempts.WithLabelValues("data.cdc.gov", "ok").Inc()
	PacerWait.Observe(0.5)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["cdcgateway_upstream_attempts_total"])
	assert.True(t, names["cdcgateway_pacer_wait_seconds"])
	assert.True(t, names["cdcgateway_requests_total"])
}

func TestHandler_MetricsEndpoint(t *testing.T) {
	_, restore := swapDefaultRegistry()
	defer restore()

	Register()
	HostFallbacks.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	bodyBytes, _ := io.ReadAll(w.Body)
	assert.True(t, bytes.Contains(bodyBytes, []byte("cdcgateway_host_fallbacks_total")), "body=\n%s", bodyBytes)
}

func TestPrometheusMiddleware_RecordOnce(t *testing.T) {
	reg, restore := swapDefaultRegistry()
	defer restore()

	gin.SetMode(gin.TestMode)
	Register()

	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var matched bool
	for _, mf := range mfs {
		if mf.GetName() != "cdcgateway_http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, map[string]string{
				"path":   "/ping",
				"method": "GET",
				"code":   "200",
			}) && m.GetHistogram().GetSampleCount() == 1 {
				matched = true
				break
			}
		}
	}
	assert.True(t, matched, "Histogram 未记录 /ping 请求")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestInitLogger_WritesJSON(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	var buf bytes.Buffer
	initLogger(&buf, "info")
	slog.Debug("hidden")
	slog.Info("visible", "dataset", "places_county_2024")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"dataset":"places_county_2024"`)
}

// labelsMatch 比较 Metric 的 labelset 是否包含指定键值集合
func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		got[l.GetName()] = l.GetValue()
	}
	return reflect.DeepEqual(got, want)
}
