// README: HTTP helper utilities for JSON and error mapping.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cabbot/internal/modules/trip"
	"cabbot/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeAgentError(c *gin.Context, err error) {
	var missing *trip.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		writeError(c, http.StatusBadRequest, missing.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrNoActiveTrip):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
