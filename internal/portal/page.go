package portal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/moveapi"
	"fleetmove/internal/utils"
)

// TransportRequestAPI is the part of the REST client the admin page mutates through.
type TransportRequestAPI interface {
	CreateTransportRequest(ctx context.Context, in models.TransportRequestInput) (models.TransportRequest, error)
	UpdateTransportRequest(ctx context.Context, id int64, in models.TransportRequestInput) (models.TransportRequest, error)
	DeleteTransportRequest(ctx context.Context, id int64) error
}

// ErrUnknownRow is returned when a row action names an id not on the current page.
var ErrUnknownRow = errors.New("portal: row is not on the current page")

type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// ParseViewMode falls back to the list view for anything but "grid".
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewGrid {
		return ViewGrid
	}
	return ViewList
}

const (
	DialogCreate = "create"
	DialogUpdate = "update"
	DialogDelete = "delete"
)

// Column is one table column header.
type Column struct {
	Key    string
	Header string
}

var transportRequestColumns = []Column{
	{Key: "id", Header: "ID"},
	{Key: "rider_type", Header: "Rider Type"},
	{Key: "passenger_name", Header: "Passenger Name"},
	{Key: "passenger_department", Header: "Passenger Department"},
	{Key: "passenger_email", Header: "Passenger Email"},
	{Key: "pickup_location", Header: "Pickup Location"},
	{Key: "dropoff_location", Header: "Dropoff Location"},
	{Key: "pickup_date_time", Header: "Pickup Date Time"},
	{Key: "dropoff_date_time", Header: "Dropoff Date Time"},
	{Key: "purpose", Header: "Purpose"},
	{Key: "status", Header: "Status"},
	{Key: "move_driver_id", Header: "Move Driver Id"},
	{Key: "move_vehicle_id", Header: "Move Vehicle Id"},
	{Key: "external_service_flag", Header: "External Service Flag"},
	{Key: "external_service_provider", Header: "External Service Provider"},
	{Key: "notes", Header: "Notes"},
	{Key: "created_at", Header: "Created At"},
}

// Row is one rendered entity; Cells line up with Columns.
type Row struct {
	ID        int64
	RiderType string
	Status    string
	Cells     []string
}

// TransportRequestsPage is the admin list of move transport requests with its
// create, update and delete dialogs. One instance lives in each session.
type TransportRequestsPage struct {
	Query    *PaginatedQuery[models.TransportRequest]
	Selected *Selection[models.TransportRequest]
	Create   *FormDialog
	Update   *FormDialog
	Delete   *ConfirmDialog
	Toasts   *Notifier
	Loc      *time.Location

	mu   sync.Mutex
	view ViewMode
}

func NewTransportRequestsPage(api TransportRequestAPI, fetch Fetcher[models.TransportRequest], cfg QueryConfig, toasts *Notifier, loc *time.Location) *TransportRequestsPage {
	if cfg.Endpoint == "" {
		cfg.Endpoint = moveapi.TransportRequestsEndpoint
	}
	if toasts == nil {
		toasts = &Notifier{}
	}
	if loc == nil {
		loc = time.Local
	}
	p := &TransportRequestsPage{
		Query:    NewPaginatedQuery(cfg, fetch),
		Selected: &Selection[models.TransportRequest]{},
		Toasts:   toasts,
		Loc:      loc,
		view:     ViewList,
	}
	refetch := func(ctx context.Context) { p.Query.Refetch(ctx) }
	hasSelection := func() bool { return p.Selected.Get() != nil }

	p.Create = NewFormDialog(DialogConfig{
		Title:     "Create Move Transport Request",
		Notifier:  toasts,
		OnSuccess: refetch,
	}, TransportRequestFields(), func(ctx context.Context, vals Values) error {
		_, err := api.CreateTransportRequest(ctx, vals.TransportRequestInput())
		return err
	})

	p.Update = NewFormDialog(DialogConfig{
		Title:     "Update Move Transport Request",
		Notifier:  toasts,
		Ready:     hasSelection,
		OnSuccess: refetch,
	}, TransportRequestFields(), func(ctx context.Context, vals Values) error {
		cur := p.Selected.Get()
		if cur == nil {
			return ErrNoSelection
		}
		_, err := api.UpdateTransportRequest(ctx, cur.ID, vals.TransportRequestInput())
		return err
	})

	p.Delete = NewConfirmDialog(DialogConfig{
		Title:     "Delete Move Transport Request",
		Notifier:  toasts,
		Ready:     hasSelection,
		OnSuccess: refetch,
	}, "Are you sure you want to delete this record?", func(ctx context.Context) error {
		cur := p.Selected.Get()
		if cur == nil {
			return ErrNoSelection
		}
		return api.DeleteTransportRequest(ctx, cur.ID)
	})

	p.Selected.Subscribe(func(tr *models.TransportRequest) {
		if tr != nil {
			p.Update.Reset(TransportRequestValues(*tr))
		}
	})
	return p
}

// Load fetches the page for params.
func (p *TransportRequestsPage) Load(ctx context.Context, params domain.PageParams) QueryState[models.TransportRequest] {
	return p.Query.Fetch(ctx, params)
}

// Show is Load for renders: the page a successful submit just refetched is
// shown without fetching it again.
func (p *TransportRequestsPage) Show(ctx context.Context, params domain.PageParams) QueryState[models.TransportRequest] {
	return p.Query.Show(ctx, params)
}

func (p *TransportRequestsPage) SetView(mode ViewMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = mode
}

func (p *TransportRequestsPage) View() ViewMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// OpenCreate shows an empty create form.
func (p *TransportRequestsPage) OpenCreate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Create.Reset(nil)
	p.Create.Open()
}

// OpenUpdate selects the row with id and opens the update dialog in one step.
func (p *TransportRequestsPage) OpenUpdate(id int64) error {
	return p.selectAndOpen(id, p.Update.Open)
}

// OpenDelete selects the row with id and opens the delete dialog in one step.
func (p *TransportRequestsPage) OpenDelete(id int64) error {
	return p.selectAndOpen(id, p.Delete.Open)
}

func (p *TransportRequestsPage) selectAndOpen(id int64, open func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	tr, ok := p.row(id)
	if !ok {
		return ErrUnknownRow
	}
	p.Selected.Set(&tr)
	open()
	return nil
}

func (p *TransportRequestsPage) row(id int64) (models.TransportRequest, bool) {
	st := p.Query.State()
	if st.Data == nil {
		return models.TransportRequest{}, false
	}
	for _, tr := range st.Data.Records {
		if tr.ID == id {
			return tr, true
		}
	}
	return models.TransportRequest{}, false
}

// SubmitUpdate sends the update form for record id. A different selection,
// left by another tab of the same session, returns ErrNoSelection and sends nothing.
func (p *TransportRequestsPage) SubmitUpdate(ctx context.Context, id int64, vals Values) error {
	if !p.selectedIs(id) {
		return ErrNoSelection
	}
	return p.Update.Submit(ctx, vals)
}

// ConfirmDelete deletes record id under the same selection check as SubmitUpdate.
func (p *TransportRequestsPage) ConfirmDelete(ctx context.Context, id int64) error {
	if !p.selectedIs(id) {
		return ErrNoSelection
	}
	return p.Delete.Confirm(ctx)
}

func (p *TransportRequestsPage) selectedIs(id int64) bool {
	cur := p.Selected.Get()
	return cur != nil && cur.ID == id
}

// CloseDialog hides the named dialog.
func (p *TransportRequestsPage) CloseDialog(name string) error {
	switch name {
	case DialogCreate:
		p.Create.Close()
	case DialogUpdate:
		p.Update.Close()
	case DialogDelete:
		p.Delete.Close()
	default:
		return fmt.Errorf("portal: unknown dialog %q", name)
	}
	return nil
}

func (p *TransportRequestsPage) Columns() []Column {
	return TransportRequestColumns()
}

// TransportRequestColumns lists the table columns in display order. Every key
// is also a sort key of the list endpoint.
func TransportRequestColumns() []Column {
	return append([]Column(nil), transportRequestColumns...)
}

// Rows renders the current page. Cells are the stored values verbatim except
// created_at, which is formatted in the page location.
func (p *TransportRequestsPage) Rows() []Row {
	st := p.Query.State()
	if st.Data == nil {
		return nil
	}
	rows := make([]Row, 0, len(st.Data.Records))
	for _, tr := range st.Data.Records {
		rows = append(rows, p.renderRow(tr))
	}
	return rows
}

func (p *TransportRequestsPage) renderRow(tr models.TransportRequest) Row {
	in := tr.Input()
	return Row{
		ID:        tr.ID,
		RiderType: tr.RiderType,
		Status:    tr.Status,
		Cells: []string{
			strconv.FormatInt(tr.ID, 10),
			in.RiderType,
			in.PassengerName,
			in.PassengerDepartment,
			in.PassengerEmail,
			in.PickupLocation,
			in.DropoffLocation,
			in.PickupDateTime,
			in.DropoffDateTime,
			in.Purpose,
			in.Status,
			in.MoveDriverID,
			in.MoveVehicleID,
			in.ExternalServiceFlag,
			in.ExternalServiceProvider,
			in.Notes,
			utils.FormatDisplay(tr.CreatedAt, p.Loc),
		},
	}
}

// Close releases the page: any list fetch in flight is cancelled.
func (p *TransportRequestsPage) Close() {
	p.Query.Close()
}
