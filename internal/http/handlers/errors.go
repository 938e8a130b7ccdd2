package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"fleetmove/internal/domain"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report binding failures under the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindingMessage is the field message shown for a failed binding tag.
func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}

// ErrorResponse is the error body of every API endpoint.
type ErrorResponse struct {
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Message:   message,
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var many domain.ValidationErrors
	var bound validator.ValidationErrors
	switch {
	case errors.As(err, &bound):
		fields := make(map[string]string, len(bound))
		for _, fe := range bound {
			fields[fe.Field()] = bindingMessage(fe)
		}
		respondError(c, http.StatusBadRequest, "validation_error", "validation failed", fields)
	case errors.As(err, &many):
		respondError(c, http.StatusBadRequest, "validation_error", "validation failed", many.Fields())
	case domain.IsValidation(err):
		var one domain.ValidationError
		var details any
		if errors.As(err, &one) && one.Field != "" {
			details = map[string]string{one.Field: one.Msg}
		}
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", c.Request.Method+" "+c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
