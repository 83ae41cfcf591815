package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/internal/application"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/androidlink"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/httpcall"
	"github.com/oksasatya/loyalty-funnel/pkg/response"
	"github.com/oksasatya/loyalty-funnel/pkg/validation"
)

type AndroidHandler struct {
	Svc    *application.AndroidLinkService
	Logger *logrus.Logger
}

func NewAndroidHandler(svc *application.AndroidLinkService, logger *logrus.Logger) *AndroidHandler {
	return &AndroidHandler{Svc: svc, Logger: logger}
}

type androidLinkRequest struct {
	URL string `json:"url"`
}

// Link proxies the link service's body on success.
func (h *AndroidHandler) Link(c *gin.Context) {
	var req androidLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrURLRequired.Error(), validation.ToDetails(err))
		return
	}

	body, err := h.Svc.Link(c.Request.Context(), req.URL)
	if err == nil {
		response.Raw(c, http.StatusOK, body)
		return
	}

	var modErr *androidlink.URLModificationError
	var intErr *httpcall.IntegrationError
	switch {
	case errors.Is(err, application.ErrURLRequired), errors.Is(err, androidlink.ErrEmptyURL):
		response.Error[any](c, http.StatusBadRequest, application.ErrURLRequired.Error(), nil)
	case errors.As(err, &modErr):
		response.Error[any](c, http.StatusInternalServerError, "Unable to process the install URL", nil)
	case errors.As(err, &intErr):
		response.Error[any](c, http.StatusInternalServerError, intErr.Error(), map[string]any{"attempts": intErr.Attempts})
	default:
		response.Error[any](c, http.StatusInternalServerError, "Unable to generate the Android link", nil)
	}
}
