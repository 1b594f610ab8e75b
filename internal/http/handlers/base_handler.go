// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"daytrip/internal/modules/aiusage"
	"daytrip/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writePlanError maps a failed or skipped outcome onto a status code.
func writePlanError(c *gin.Context, out service.Outcome) {
	switch {
	case errors.Is(out.Err, aiusage.ErrQuotaExceeded):
		writeJSON(c, http.StatusTooManyRequests, errorResponse{Error: out.Err.Error(), RunID: out.RunID})
	case errors.Is(out.Err, service.ErrUnknownMode):
		writeError(c, http.StatusBadRequest, out.Message)
	case out.Status == service.StatusFailed:
		writeJSON(c, http.StatusBadGateway, errorResponse{Error: out.Message, RunID: out.RunID})
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
