package handlers

import (
	"net/http"

	"fleetmove/internal/repositories"
	"fleetmove/internal/services"

	"github.com/gin-gonic/gin"
)

// DriverHandler serves driver lookups with the assigned vehicle.
type DriverHandler struct {
	Drivers services.DriverStore
}

// GET /move/drivers/:id
func (h DriverHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok || !ownDriver(c, id) {
		return
	}
	store := h.Drivers
	if store == nil {
		store = repositories.DriverRepository{}
	}
	d, err := store.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
