package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of every JSON answer except proxied bodies.
// success and, on failure, error are always present.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      T           `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// Success writes a success envelope with status and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	res := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	}
	ctx.JSON(status, res)
	return res
}

// Error writes a failure envelope whose error field is message.
func Error[T any](ctx *gin.Context, status int, message string, details interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	res := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     message,
		Details:   details,
	}
	ctx.JSON(status, res)
	return res
}

// Raw writes body unchanged as application/json.
func Raw(ctx *gin.Context, status int, body json.RawMessage) {
	if len(body) == 0 {
		body = json.RawMessage("null")
	}
	ctx.Data(status, "application/json; charset=utf-8", body)
}
