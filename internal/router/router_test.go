package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/loyalty-funnel/config"
	"github.com/oksasatya/loyalty-funnel/internal/container"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/memstore"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
	"github.com/oksasatya/loyalty-funnel/pkg/metrics"
)

func newEngine(t *testing.T, debugMetrics bool) *gin.Engine {
	return newEngineWith(t, debugMetrics, nil, 0)
}

func newEngineWith(t *testing.T, debugMetrics bool, rdb *redis.Client, perMinute int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	cfg.DebugMetricsEnabled = debugMetrics
	cfg.RateLimitPerMinute = perMinute
	cfg.WalletPassAPIKey = ""
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetSessionStore(memstore.NewSessionStore(time.Hour))
	container.SetMetrics(reg, m)
	container.SetRabbitPub(nil)

	engine := gin.New()
	r := NewRegistry(engine)
	r.Use(middleware.Metrics(m))
	InitModules(r)
	r.RegisterAll()
	return engine
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestInitModules_RoutesMounted(t *testing.T) {
	engine := newEngine(t, true)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/device", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/api/register", `{"firstName":"Ana"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/user-data", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/api/android-link", `{}`).Code)

	w := serve(engine, http.MethodGet, "/api/debug/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "funnel_endpoint_latency_seconds")
	assert.Contains(t, w.Body.String(), `route="/api/health"`)
}

func TestInitModules_GlobalRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	t.Cleanup(func() { container.SetRedis(nil) })

	engine := newEngineWith(t, true, rdb, 2)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/device", "").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/device", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodGet, "/api/device", "").Code)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/health", "").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/debug/metrics", "").Code)
	}
}

func TestInitModules_DebugMetricsDisabled(t *testing.T) {
	engine := newEngine(t, false)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/debug/metrics", "").Code)
}

func TestRegistry_IgnoresNilModule(t *testing.T) {
	r := NewRegistry(gin.New())
	r.Add(nil)
	assert.Zero(t, r.Len())
}
