package pages

import (
	"errors"
	"net/http"
	"strconv"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/portal"
	"fleetmove/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerVehicles(r gin.IRouter) {
	g := r.Group("/admin/vehicles")
	g.GET("", h.listVehicles)
	g.POST("/dialogs/create/open", h.openVehicleCreate)
	g.POST("/:id/dialogs/:dialog/open", h.openVehicleDialog)
	g.POST("/dialogs/:dialog/close", h.closeVehicleDialog)
	g.POST("/create", h.submitVehicleCreate)
	g.POST("/update", h.submitVehicleUpdate)
	g.POST("/delete", h.submitVehicleDelete)
}

type vehiclesView struct {
	Title      string
	Active     string
	Toasts     []portal.Toast
	Params     domain.PageParams
	State      portal.QueryState[models.Vehicle]
	Columns    []portal.Column
	Rows       []portal.Row
	Create     portal.DialogView
	Update     portal.DialogView
	Delete     portal.DialogView
	SelectedID int64
}

func (h *Handler) listVehicles(c *gin.Context) {
	sess := h.session(c)
	page := sess.Vehicles()

	st := page.Show(outbound(c), domain.PageParamsFromValues(c.Request.URL.Query()))
	if st.Err != nil {
		utils.LogError(middleware.GetRequestID(c), "portal", "list_vehicles", st.Err)
	}
	view := vehiclesView{
		Title:   "Move Vehicles",
		Active:  "vehicles",
		Toasts:  sess.Toasts.Drain(),
		Params:  st.Params,
		State:   st,
		Columns: page.Columns(),
		Rows:    page.Rows(),
		Create:  page.Create.View(),
		Update:  page.Update.View(),
		Delete:  page.Delete.View(),
	}
	if cur := page.Selected.Get(); cur != nil {
		view.SelectedID = cur.ID
	}
	c.HTML(http.StatusOK, "vehicles.html", view)
}

func vehiclesURL(page *portal.VehiclesPage) string {
	v := page.Query.State().Params.Values()
	if len(v) == 0 {
		return "/admin/vehicles"
	}
	return "/admin/vehicles?" + v.Encode()
}

func (h *Handler) openVehicleCreate(c *gin.Context) {
	page := h.session(c).Vehicles()
	page.OpenCreate()
	c.Redirect(http.StatusSeeOther, vehiclesURL(page))
}

func (h *Handler) openVehicleDialog(c *gin.Context) {
	sess := h.session(c)
	page := sess.Vehicles()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid id")
		return
	}
	switch c.Param("dialog") {
	case portal.DialogUpdate:
		err = page.OpenUpdate(id)
	case portal.DialogDelete:
		err = page.OpenDelete(id)
	default:
		c.String(http.StatusNotFound, "unknown dialog")
		return
	}
	if errors.Is(err, portal.ErrUnknownRow) {
		sess.Toasts.Error("That vehicle is no longer on this page")
	}
	c.Redirect(http.StatusSeeOther, vehiclesURL(page))
}

func (h *Handler) closeVehicleDialog(c *gin.Context) {
	page := h.session(c).Vehicles()
	if err := page.CloseDialog(c.Param("dialog")); err != nil {
		c.String(http.StatusNotFound, "unknown dialog")
		return
	}
	c.Redirect(http.StatusSeeOther, vehiclesURL(page))
}

func (h *Handler) submitVehicleCreate(c *gin.Context) {
	page := h.session(c).Vehicles()
	vals := portal.FormValues(page.Create.Fields, c.PostForm)
	h.logSubmit(c, "vehicle_create", page.Create.Submit(outbound(c), vals))
	c.Redirect(http.StatusSeeOther, vehiclesURL(page))
}

func (h *Handler) submitVehicleUpdate(c *gin.Context) {
	sess := h.session(c)
	page := sess.Vehicles()
	vals := portal.FormValues(page.Update.Fields, c.PostForm)
	err := page.SubmitUpdate(outbound(c), postedID(c), vals)
	h.warnStaleSelection(sess, err)
	h.logSubmit(c, "vehicle_update", err)
	c.Redirect(http.StatusSeeOther, vehiclesURL(page))
}

func (h *Handler) submitVehicleDelete(c *gin.Context) {
	sess := h.session(c)
	page := sess.Vehicles()
	err := page.ConfirmDelete(outbound(c), postedID(c))
	h.warnStaleSelection(sess, err)
	h.logSubmit(c, "vehicle_delete", err)
	c.Redirect(http.StatusSeeOther, vehiclesURL(page))
}
