package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/loyalty-funnel/internal/container"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
)

type DebugModule struct {
	Gatherer prometheus.Gatherer
}

func NewDebugModule(g prometheus.Gatherer) *DebugModule { return &DebugModule{Gatherer: g} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Prometheus scrape endpoint, rate-limited per IP except from private networks
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	g := m.Gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	rg.GET("/debug/metrics", rl, gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}
