package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"fleetmove/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present, parsable and passes its binding tags.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		var bound validator.ValidationErrors
		if errors.As(err, &bound) {
			RespondDomainError(c, err)
			return false
		}
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// paramID reads a positive int64 path parameter or writes a 400.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_"+name, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
