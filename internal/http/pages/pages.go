package pages

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/moveapi"
	"fleetmove/internal/portal"
	"fleetmove/internal/utils"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionCookie names the cookie holding the portal session id.
const SessionCookie = "fleetmove_session"

// TicketSource downloads trip ticket PDFs; moveapi.Client implements it.
type TicketSource interface {
	TripTicket(ctx context.Context, id int64) ([]byte, string, error)
}

// Handler serves the server-rendered portal.
type Handler struct {
	Sessions *portal.Sessions
	Tickets  TicketSource
	// SecureCookie marks the session cookie Secure (HTTPS deployments).
	SecureCookie bool
	CookieTTL    time.Duration
}

// Templates parses the embedded templates with the portal helpers.
func Templates(loc *time.Location) *template.Template {
	if loc == nil {
		loc = time.Local
	}
	funcs := template.FuncMap{
		"initials": utils.Initials,
		"clock": func(s string) string {
			t, err := utils.ParseDateTime(s, loc)
			if err != nil {
				return s
			}
			return utils.FormatClock(t, loc)
		},
		"optionalID": utils.FormatOptionalID,
		// query re-encodes the list parameters with key replaced.
		"query": func(p domain.PageParams, key, val string) template.URL {
			v := p.Values()
			if val == "" {
				v.Del(key)
			} else {
				v.Set(key, val)
			}
			return template.URL(v.Encode())
		},
		"add": func(a, b int) int { return a + b },
		// dialog takes an optional record id posted back as a hidden field.
		"dialog": func(d portal.DialogView, action, closeURL string, id ...int64) dialogArgs {
			args := dialogArgs{Dialog: d, Action: action, Close: closeURL}
			if len(id) > 0 {
				args.RecordID = id[0]
			}
			return args
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// dialogArgs feeds the shared dialog templates.
type dialogArgs struct {
	Dialog   portal.DialogView
	Action   string
	Close    string
	RecordID int64
}

// Register mounts the portal routes on r.
func (h *Handler) Register(r gin.IRouter) {
	admin := r.Group("/admin/transport-requests")
	admin.GET("", h.listTransportRequests)
	admin.POST("/dialogs/create/open", h.openCreate)
	admin.POST("/:id/dialogs/:dialog/open", h.openRowDialog)
	admin.POST("/dialogs/:dialog/close", h.closeDialog)
	admin.POST("/create", h.submitCreate)
	admin.POST("/update", h.submitUpdate)
	admin.POST("/delete", h.submitDelete)
	admin.GET("/:id/trip-ticket", h.tripTicket)

	h.registerVehicles(r)

	drivers := r.Group("/drivers/:id")
	drivers.GET("", h.driverHome)
	drivers.POST("/trips/:trip/dialogs/:dialog/open", h.openTripDialog)
	drivers.POST("/dialogs/:dialog/close", h.closeTripDialog)
	drivers.POST("/start", h.submitTripAction(models.TripEventStart))
	drivers.POST("/arrive", h.submitTripAction(models.TripEventArrive))
}

// session resolves the cookie to a live session, issuing a new cookie when needed.
func (h *Handler) session(c *gin.Context) *portal.Session {
	id, _ := c.Cookie(SessionCookie)
	sess, created := h.Sessions.Ensure(id)
	if created {
		ttl := h.CookieTTL
		if ttl <= 0 {
			ttl = 30 * time.Minute
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, int(ttl.Seconds()), "/", "", h.SecureCookie, true)
	}
	return sess
}

// outbound carries the request id to the API.
func outbound(c *gin.Context) context.Context {
	return moveapi.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
}

type transportRequestsView struct {
	Title   string
	Active  string
	Toasts  []portal.Toast
	Params  domain.PageParams
	View    portal.ViewMode
	State   portal.QueryState[models.TransportRequest]
	Columns []portal.Column
	Rows    []portal.Row
	Create  portal.DialogView
	Update  portal.DialogView
	Delete  portal.DialogView
	// SelectedID is the record the update and delete dialogs act on.
	SelectedID int64
	Return     string
}

func (h *Handler) listTransportRequests(c *gin.Context) {
	sess := h.session(c)
	page := sess.TransportRequests()
	page.SetView(portal.ParseViewMode(c.Query("view")))

	params := domain.PageParamsFromValues(c.Request.URL.Query())
	st := page.Show(outbound(c), params)
	if st.Err != nil {
		utils.LogError(middleware.GetRequestID(c), "portal", "list_transport_requests", st.Err)
	}

	view := transportRequestsView{
		Title:   "Move Transport Requests",
		Active:  "transport-requests",
		Toasts:  sess.Toasts.Drain(),
		Params:  st.Params,
		View:    page.View(),
		State:   st,
		Columns: page.Columns(),
		Rows:    page.Rows(),
		Create:  page.Create.View(),
		Update:  page.Update.View(),
		Delete:  page.Delete.View(),
		Return:  listURL(page),
	}
	if cur := page.Selected.Get(); cur != nil {
		view.SelectedID = cur.ID
	}
	c.HTML(http.StatusOK, "transport_requests.html", view)
}

// listURL is the list page with the parameters and view it was last shown with.
func listURL(page *portal.TransportRequestsPage) string {
	v := page.Query.State().Params.Values()
	if page.View() == portal.ViewGrid {
		v.Set("view", string(portal.ViewGrid))
	}
	if len(v) == 0 {
		return "/admin/transport-requests"
	}
	return "/admin/transport-requests?" + v.Encode()
}

func (h *Handler) backToList(c *gin.Context, page *portal.TransportRequestsPage) {
	c.Redirect(http.StatusSeeOther, listURL(page))
}

func (h *Handler) openCreate(c *gin.Context) {
	page := h.session(c).TransportRequests()
	page.OpenCreate()
	h.backToList(c, page)
}

func (h *Handler) openRowDialog(c *gin.Context) {
	sess := h.session(c)
	page := sess.TransportRequests()
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
		sess.Toasts.Error("That record is no longer on this page")
	}
	h.backToList(c, page)
}

func (h *Handler) closeDialog(c *gin.Context) {
	page := h.session(c).TransportRequests()
	if err := page.CloseDialog(c.Param("dialog")); err != nil {
		c.String(http.StatusNotFound, "unknown dialog")
		return
	}
	h.backToList(c, page)
}

func (h *Handler) submitCreate(c *gin.Context) {
	page := h.session(c).TransportRequests()
	vals := portal.FormValues(page.Create.Fields, c.PostForm)
	h.logSubmit(c, "create", page.Create.Submit(outbound(c), vals))
	h.backToList(c, page)
}

func (h *Handler) submitUpdate(c *gin.Context) {
	sess := h.session(c)
	page := sess.TransportRequests()
	vals := portal.FormValues(page.Update.Fields, c.PostForm)
	err := page.SubmitUpdate(outbound(c), postedID(c), vals)
	h.warnStaleSelection(sess, err)
	h.logSubmit(c, "update", err)
	h.backToList(c, page)
}

func (h *Handler) submitDelete(c *gin.Context) {
	sess := h.session(c)
	page := sess.TransportRequests()
	err := page.ConfirmDelete(outbound(c), postedID(c))
	h.warnStaleSelection(sess, err)
	h.logSubmit(c, "delete", err)
	h.backToList(c, page)
}

// postedID is the hidden record id of an update or delete form; 0 when absent.
func postedID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.PostForm("id"), 10, 64)
	return id
}

func (h *Handler) warnStaleSelection(sess *portal.Session, err error) {
	if errors.Is(err, portal.ErrNoSelection) {
		sess.Toasts.Error("The selected record changed. Open it again before saving.")
	}
}

// logSubmit records outcomes the dialog state does not already show to the user.
func (h *Handler) logSubmit(c *gin.Context, action string, err error) {
	var fieldErrs portal.FieldErrors
	switch {
	case err == nil:
		utils.LogEvent(middleware.GetRequestID(c), "portal", action, "ok")
	case errors.As(err, &fieldErrs):
		utils.LogEvent(middleware.GetRequestID(c), "portal", action, "invalid form")
	case errors.Is(err, portal.ErrSubmitInFlight), errors.Is(err, portal.ErrNoSelection):
		utils.LogEvent(middleware.GetRequestID(c), "portal", action, err.Error())
	default:
		utils.LogError(middleware.GetRequestID(c), "portal", action, err)
	}
}

func (h *Handler) tripTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid id")
		return
	}
	pdf, filename, err := h.Tickets.TripTicket(outbound(c), id)
	if err != nil {
		status := moveapi.StatusOf(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.String(status, moveapi.MessageOf(err))
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type driverHomeView struct {
	Title    string
	Active   string
	Toasts   []portal.Toast
	DriverID int64
	Date     string
	Board    *models.DriverBoard
	Err      string
	Start    portal.DialogView
	Arrive   portal.DialogView
	Selected *models.TransportRequest
}

func driverIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid driver id")
		return 0, false
	}
	return id, true
}

func driverURL(driverID int64, date string) string {
	u := "/drivers/" + strconv.FormatInt(driverID, 10)
	if date != "" {
		u += "?" + url.Values{"date": {date}}.Encode()
	}
	return u
}

func (h *Handler) driverHome(c *gin.Context) {
	driverID, ok := driverIDParam(c)
	if !ok {
		return
	}
	sess := h.session(c)
	page := sess.Driver(driverID)
	date := strings.TrimSpace(c.Query("date"))

	view := driverHomeView{Title: "Driver Home", Active: "drivers", DriverID: driverID, Date: date}
	if err := page.Load(outbound(c), date); err != nil {
		view.Err = moveapi.MessageOf(err)
	}
	view.Board, _ = page.Board()
	view.Start = page.Start.View()
	view.Arrive = page.Arrive.View()
	view.Selected = page.Selected.Get()
	view.Toasts = sess.Toasts.Drain()
	c.HTML(http.StatusOK, "driver_home.html", view)
}

func (h *Handler) openTripDialog(c *gin.Context) {
	driverID, ok := driverIDParam(c)
	if !ok {
		return
	}
	tripID, err := strconv.ParseInt(c.Param("trip"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid trip id")
		return
	}
	sess := h.session(c)
	page := sess.Driver(driverID)
	switch c.Param("dialog") {
	case models.TripEventStart:
		err = page.OpenStart(tripID)
	case models.TripEventArrive:
		err = page.OpenArrive(tripID)
	default:
		c.String(http.StatusNotFound, "unknown dialog")
		return
	}
	if err != nil {
		sess.Toasts.Error("That trip cannot be updated right now")
	}
	c.Redirect(http.StatusSeeOther, driverURL(driverID, c.Query("date")))
}

func (h *Handler) closeTripDialog(c *gin.Context) {
	driverID, ok := driverIDParam(c)
	if !ok {
		return
	}
	h.session(c).Driver(driverID).CloseDialog(c.Param("dialog"))
	c.Redirect(http.StatusSeeOther, driverURL(driverID, c.Query("date")))
}

func (h *Handler) submitTripAction(event string) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := driverIDParam(c)
		if !ok {
			return
		}
		page := h.session(c).Driver(driverID)
		d := page.Start
		if event == models.TripEventArrive {
			d = page.Arrive
		}
		vals := portal.FormValues(d.Fields, c.PostForm)
		h.logSubmit(c, event, d.Submit(outbound(c), vals))
		c.Redirect(http.StatusSeeOther, driverURL(driverID, c.Query("date")))
	}
}
