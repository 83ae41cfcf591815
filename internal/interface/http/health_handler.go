package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	repo "github.com/oksasatya/loyalty-funnel/internal/domain/repository"
	"github.com/oksasatya/loyalty-funnel/pkg/response"
)

type HealthHandler struct {
	Store repo.SessionStore
}

func NewHealthHandler(store repo.SessionStore) *HealthHandler {
	return &HealthHandler{Store: store}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		response.Error[any](c, http.StatusServiceUnavailable, "session store unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session_store": "ok"}, "ok")
}
