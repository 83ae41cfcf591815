package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/internal/application"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
	"github.com/oksasatya/loyalty-funnel/pkg/response"
	"github.com/oksasatya/loyalty-funnel/pkg/validation"
)

type InstallHandler struct {
	Svc    *application.InstallService
	Logger *logrus.Logger
}

func NewInstallHandler(svc *application.InstallService, logger *logrus.Logger) *InstallHandler {
	return &InstallHandler{Svc: svc, Logger: logger}
}

type sendEmailRequest struct {
	Email string `json:"email"`
}

type sendInstallURLRequest struct {
	URL string `json:"url"`
}

type sendDeviceTypeRequest struct {
	DeviceType string `json:"deviceType"`
}

type deviceResponse struct {
	DeviceType string `json:"deviceType"`
	Route      string `json:"route"`
}

func (h *InstallHandler) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrEmailRequired.Error(), validation.ToDetails(err))
		return
	}
	h.write(c, h.Svc.SendEmail(c.Request.Context(), middleware.SessionID(c), req.Email))
}

func (h *InstallHandler) SendInstallURL(c *gin.Context) {
	var req sendInstallURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrURLRequired.Error(), validation.ToDetails(err))
		return
	}
	meta := application.RequestMeta{IP: middleware.ClientIP(c), UserAgent: c.Request.UserAgent()}
	h.write(c, h.Svc.SendInstallURL(c.Request.Context(), middleware.SessionID(c), req.URL, meta))
}

func (h *InstallHandler) SendDeviceType(c *gin.Context) {
	var req sendDeviceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrDeviceTypeRequired.Error(), validation.ToDetails(err))
		return
	}
	h.write(c, h.Svc.SendDeviceType(c.Request.Context(), middleware.SessionID(c), req.DeviceType, c.Request.UserAgent()))
}

// Device classifies the caller's User-Agent and names its install page.
func (h *InstallHandler) Device(c *gin.Context) {
	d := application.DetectDevice(c.Request.UserAgent())
	response.Success(c, http.StatusOK, deviceResponse{DeviceType: string(d), Route: d.InstallRoute()}, "")
}

func (h *InstallHandler) write(c *gin.Context, err error) {
	switch {
	case err == nil:
		response.Success[any](c, http.StatusOK, nil, "")
	case errors.Is(err, application.ErrEmailRequired),
		errors.Is(err, application.ErrURLRequired),
		errors.Is(err, application.ErrDeviceTypeRequired):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, application.ErrUpstream.Error(), nil)
	}
}
