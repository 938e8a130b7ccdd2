package api

import (
	stdhttp "net/http"
	"strings"
	"time"

	intconfig "fleetmove/internal/config"
	"fleetmove/internal/auth"
	"fleetmove/internal/domain/models"
	h "fleetmove/internal/http/handlers"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/http/pages"
	"fleetmove/internal/services"
	"fleetmove/internal/utils"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router mounts. A nil Portal leaves the HTML pages
// unmounted; APIOff leaves the REST API unmounted.
type Deps struct {
	Env    intconfig.Env
	Loc    *time.Location
	Tokens *auth.Tokens

	TransportRequests services.TransportRequestService
	Trips             services.TripService
	Docs              services.DocsService
	Auth              services.AuthService
	Drivers           services.DriverStore
	Vehicles          services.VehicleService

	Portal *pages.Handler
	APIOff bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogEvent("", "router", "trusted_proxies", "failed to set trusted proxies: "+err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"message":    "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	if !d.APIOff {
		mountAPI(r.Group("/api"), d)
	}

	if d.Portal != nil {
		r.SetHTMLTemplate(pages.Templates(d.Loc))
		r.GET("/", func(c *gin.Context) {
			c.Redirect(stdhttp.StatusFound, "/admin/transport-requests")
		})
		d.Portal.Register(r)
	}

	h.SetRouter(r)
	return r
}

func mountAPI(api *gin.RouterGroup, d Deps) {
	api.Use(middleware.CORS(d.Env.CORSAllowedOrigins))
	api.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	api.GET("/health", h.Health)
	api.GET("/db-check", h.DBCheck)
	api.GET("/routes", h.Routes)

	authH := h.AuthHandler{Service: d.Auth}
	api.POST("/auth/login", authH.Login)

	move := api.Group("/move", middleware.Auth(d.Tokens))

	tr := h.TransportRequestHandler{Service: d.TransportRequests, Docs: d.Docs}
	trips := h.TripHandler{Service: d.Trips}
	drivers := h.DriverHandler{Drivers: d.Drivers}
	vehicles := h.VehicleHandler{Service: d.Vehicles}

	office := middleware.RequireRole(models.RoleAdmin, models.RolePortal)
	field := middleware.RequireRole(models.RoleAdmin, models.RolePortal, models.RoleDriver)

	requests := move.Group("/transport-requests")
	requests.GET("", office, tr.List)
	requests.POST("", office, tr.Create)
	requests.GET("/:id", office, tr.Get)
	requests.PATCH("/:id", office, tr.Update)
	requests.PUT("/:id", office, tr.Update)
	requests.DELETE("/:id", office, tr.Delete)
	requests.GET("/:id/trip-ticket", office, tr.TripTicket)
	requests.POST("/:id/start", field, trips.Start)
	requests.POST("/:id/arrive", field, trips.Arrive)

	veh := move.Group("/vehicles")
	veh.GET("", office, vehicles.List)
	veh.POST("", office, vehicles.Create)
	veh.GET("/:id", office, vehicles.Get)
	veh.PATCH("/:id", office, vehicles.Update)
	veh.PUT("/:id", office, vehicles.Update)
	veh.DELETE("/:id", office, vehicles.Delete)

	drv := move.Group("/drivers")
	drv.GET("/:id", field, drivers.Get)
	drv.GET("/:id/board", field, trips.Board)
}

// routeSummary lists method and path pairs, used by the startup log.
func routeSummary(r *gin.Engine) string {
	var b strings.Builder
	for i, rt := range r.Routes() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rt.Method + " " + rt.Path)
	}
	return b.String()
}

// LogRoutes records the mounted routes once at startup.
func LogRoutes(r *gin.Engine) {
	utils.LogEvent("", "router", "routes", routeSummary(r))
}
