package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/loyalty-funnel/internal/container"
	handlers "github.com/oksasatya/loyalty-funnel/internal/interface/http"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
)

type InstallModule struct {
	Handler *handlers.InstallHandler
}

func NewInstallModule(h *handlers.InstallHandler) *InstallModule {
	return &InstallModule{Handler: h}
}

func (m *InstallModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyBySession(), nil)

	rg.POST("/send-email", rl, m.Handler.SendEmail)
	rg.POST("/send-install-url", rl, m.Handler.SendInstallURL)
	rg.POST("/send-device-type", rl, m.Handler.SendDeviceType)
	rg.GET("/device", m.Handler.Device)
}
