package handlers

import (
	"net/http"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/services"

	"github.com/gin-gonic/gin"
)

// VehicleHandler serves /move/vehicles.
type VehicleHandler struct {
	Service services.VehicleService
}

func (h VehicleHandler) svc(c *gin.Context) services.VehicleService {
	return h.Service.WithRequestID(middleware.GetRequestID(c))
}

// List: GET /move/vehicles?page&limit&sort&search
func (h VehicleHandler) List(c *gin.Context) {
	p := domain.PageParamsFromValues(c.Request.URL.Query())
	page, err := h.svc(c).List(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h VehicleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	v, err := h.svc(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h VehicleHandler) Create(c *gin.Context) {
	var in models.VehicleInput
	if !BindJSONOrError(c, &in) {
		return
	}
	v, err := h.svc(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h VehicleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.VehicleInput
	if !BindJSONOrError(c, &in) {
		return
	}
	v, err := h.svc(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h VehicleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted", "id": id})
}
