package handlers

import (
	"context"
	"net/http"

	"fleetmove/internal/domain/models"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/services"

	"github.com/gin-gonic/gin"
)

// TripHandler serves the driver board and the start/arrive actions.
type TripHandler struct {
	Service services.TripService
}

func (h TripHandler) svc(c *gin.Context) services.TripService {
	return h.Service.WithRequestID(middleware.GetRequestID(c))
}

// ownDriver rejects a driver token acting for another driver.
func ownDriver(c *gin.Context, driverID int64) bool {
	rc, ok := middleware.GetAuth(c)
	if ok && rc.Role == models.RoleDriver && int64(rc.DriverID) != driverID {
		respondError(c, http.StatusForbidden, "forbidden", "drivers can only see their own trips", nil)
		return false
	}
	return true
}

// Board: GET /move/drivers/:id/board?date=YYYY-MM-DD
func (h TripHandler) Board(c *gin.Context) {
	driverID, ok := paramID(c, "id")
	if !ok || !ownDriver(c, driverID) {
		return
	}
	board, err := h.svc(c).Board(c.Request.Context(), driverID, c.Query("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h TripHandler) Start(c *gin.Context) {
	h.action(c, h.svc(c).Start)
}

func (h TripHandler) Arrive(c *gin.Context) {
	h.action(c, h.svc(c).Arrive)
}

func (h TripHandler) action(c *gin.Context, run func(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.TripActionInput
	if !BindJSONOrError(c, &in) {
		return
	}
	if rc, authed := middleware.GetAuth(c); authed && rc.Role == models.RoleDriver {
		if err := h.svc(c).AssignedTo(c.Request.Context(), id, int64(rc.DriverID)); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	tr, err := run(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tr)
}
