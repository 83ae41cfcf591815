package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/internal/application"
	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
	"github.com/oksasatya/loyalty-funnel/pkg/response"
	"github.com/oksasatya/loyalty-funnel/pkg/validation"
)

type FunnelHandler struct {
	Svc    *application.FunnelService
	Logger *logrus.Logger
}

func NewFunnelHandler(svc *application.FunnelService, logger *logrus.Logger) *FunnelHandler {
	return &FunnelHandler{Svc: svc, Logger: logger}
}

// Presence only; the form validates formats before submitting.
type registerRequest struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	BirthMonth    string `json:"birthMonth"`
	BirthDay      string `json:"birthDay"`
	ChatbotUserID string `json:"chatbotUserId"`
}

type sendUserDataRequest struct {
	UserData *entity.UserRecord `json:"userData" binding:"required"`
}

// queryUserID reads the CRM id the client carries in ?id=, ?userId= or ?user=.
func queryUserID(c *gin.Context) string {
	for _, k := range []string{"id", "userId", "user"} {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

func (h *FunnelHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrMissingFields.Error(), validation.ToDetails(err))
		return
	}
	if req.ChatbotUserID == "" {
		req.ChatbotUserID = queryUserID(c)
	}

	err := h.Svc.Register(c.Request.Context(), middleware.SessionID(c), application.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		BirthMonth:    req.BirthMonth,
		BirthDay:      req.BirthDay,
		ChatbotUserID: req.ChatbotUserID,
	})
	switch {
	case err == nil:
		response.Success[any](c, http.StatusOK, nil, "registered")
	case errors.Is(err, application.ErrMissingFields):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("registration failed")
		response.Error[any](c, http.StatusInternalServerError, application.ErrRegistration.Error(), nil)
	}
}

// UserData returns the session's record as stored, without an envelope.
func (h *FunnelHandler) UserData(c *gin.Context) {
	rec, err := h.Svc.UserData(c.Request.Context(), middleware.SessionID(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, rec)
	case errors.Is(err, application.ErrNoUserData):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error("load user data failed")
		response.Error[any](c, http.StatusInternalServerError, "Unable to load user data", nil)
	}
}

func (h *FunnelHandler) ConfirmData(c *gin.Context) {
	err := h.Svc.Confirm(c.Request.Context(), middleware.SessionID(c))
	switch {
	case err == nil:
		response.Success[any](c, http.StatusOK, nil, "confirmed")
	case errors.Is(err, application.ErrNoSessionData):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error("confirmation failed")
		response.Error[any](c, http.StatusInternalServerError, "Confirmation error. Please try again.", nil)
	}
}

// SendUserData forwards a client-held record to the CRM and returns the CRM's answer as data.
func (h *FunnelHandler) SendUserData(c *gin.Context) {
	var req sendUserDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrMissingID.Error(), validation.ToDetails(err))
		return
	}
	out, err := h.Svc.SendUserData(c.Request.Context(), req.UserData)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, out, "sent")
	case errors.Is(err, application.ErrMissingID):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, application.ErrUpstream.Error(), nil)
	}
}

func (h *FunnelHandler) LoyaltyData(c *gin.Context) {
	data, err := h.Svc.LoyaltyData(c.Request.Context(), middleware.SessionID(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, data)
	case errors.Is(err, application.ErrNoLoyaltyData):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error("load loyalty data failed")
		response.Error[any](c, http.StatusInternalServerError, "Unable to load loyalty data", nil)
	}
}
