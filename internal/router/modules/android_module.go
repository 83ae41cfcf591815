package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/loyalty-funnel/internal/container"
	handlers "github.com/oksasatya/loyalty-funnel/internal/interface/http"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
)

type AndroidModule struct {
	Handler *handlers.AndroidHandler
}

func NewAndroidModule(h *handlers.AndroidHandler) *AndroidModule {
	return &AndroidModule{Handler: h}
}

func (m *AndroidModule) Register(rg *gin.RouterGroup) {
	// Each call can fan out to several upstream attempts
	rl := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), nil)
	rg.POST("/android-link", rl, m.Handler.Link)
}
