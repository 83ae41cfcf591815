package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/loyalty-funnel/internal/container"
	handlers "github.com/oksasatya/loyalty-funnel/internal/interface/http"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
)

// FunnelModule wires the signup funnel endpoints.
// Writes: POST /api/register, POST /api/confirm-data, POST /api/send-to-chatgpt-builder
// Reads: GET /api/user-data, GET /api/loyalty-data
type FunnelModule struct {
	Handler *handlers.FunnelHandler
}

func NewFunnelModule(h *handlers.FunnelHandler) *FunnelModule {
	return &FunnelModule{Handler: h}
}

func (m *FunnelModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	writeLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyBySession(), nil)
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/confirm-data", writeLimiter, m.Handler.ConfirmData)
	rg.POST("/send-to-chatgpt-builder", writeLimiter, m.Handler.SendUserData)

	rg.GET("/user-data", readLimiter, m.Handler.UserData)
	rg.GET("/loyalty-data", readLimiter, m.Handler.LoyaltyData)
}
