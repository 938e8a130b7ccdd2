package handlers

import (
	"net/http"

	"fleetmove/internal/domain/models"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Service services.AuthService
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.Service
	svc.RequestID = middleware.GetRequestID(c)

	token, user, err := svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}
