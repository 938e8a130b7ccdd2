package handlers

import (
	"net/http"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/services"

	"github.com/gin-gonic/gin"
)

// TransportRequestHandler serves /move/transport-requests.
type TransportRequestHandler struct {
	Service services.TransportRequestService
	Docs    services.DocsService
}

func (h TransportRequestHandler) svc(c *gin.Context) services.TransportRequestService {
	return h.Service.WithRequestID(middleware.GetRequestID(c))
}

// List: GET /move/transport-requests?page&limit&sort&search&filter[col]
func (h TransportRequestHandler) List(c *gin.Context) {
	p := domain.PageParamsFromValues(c.Request.URL.Query())
	page, err := h.svc(c).List(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h TransportRequestHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tr, err := h.svc(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tr)
}

func (h TransportRequestHandler) Create(c *gin.Context) {
	var in models.TransportRequestInput
	if !BindJSONOrError(c, &in) {
		return
	}
	tr, err := h.svc(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tr)
}

// Update replaces all mutable fields; mounted on PATCH and PUT.
func (h TransportRequestHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.TransportRequestInput
	if !BindJSONOrError(c, &in) {
		return
	}
	tr, err := h.svc(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tr)
}

func (h TransportRequestHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transport request deleted", "id": id})
}

// TripTicket returns the printable ticket inline.
func (h TransportRequestHandler) TripTicket(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	docs := h.Docs
	docs.Requests = h.svc(c)
	docs.RequestID = middleware.GetRequestID(c)

	pdfBytes, filename, err := docs.TripTicket(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
