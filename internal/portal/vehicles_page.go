package portal

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/moveapi"
)

type VehicleAPI interface {
	CreateVehicle(ctx context.Context, in models.VehicleInput) (models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

var vehicleColumns = []Column{
	{Key: "id", Header: "ID"},
	{Key: "name", Header: "Name"},
	{Key: "plate_number", Header: "Plate Number"},
}

// VehiclesPage is the admin list of move vehicles. Its selection is separate
// from the transport request page's.
type VehiclesPage struct {
	Query    *PaginatedQuery[models.Vehicle]
	Selected *Selection[models.Vehicle]
	Create   *FormDialog
	Update   *FormDialog
	Delete   *ConfirmDialog
	Toasts   *Notifier

	mu sync.Mutex
}

func NewVehiclesPage(api VehicleAPI, fetch Fetcher[models.Vehicle], cfg QueryConfig, toasts *Notifier) *VehiclesPage {
	if cfg.Endpoint == "" {
		cfg.Endpoint = moveapi.VehiclesEndpoint
	}
	if toasts == nil {
		toasts = &Notifier{}
	}
	p := &VehiclesPage{
		Query:    NewPaginatedQuery(cfg, fetch),
		Selected: &Selection[models.Vehicle]{},
		Toasts:   toasts,
	}
	refetch := func(ctx context.Context) { p.Query.Refetch(ctx) }
	hasSelection := func() bool { return p.Selected.Get() != nil }

	p.Create = NewFormDialog(DialogConfig{
		Title:     "Create Move Vehicle",
		Notifier:  toasts,
		OnSuccess: refetch,
	}, VehicleFields(), func(ctx context.Context, vals Values) error {
		_, err := api.CreateVehicle(ctx, vals.VehicleInput())
		return err
	})

	p.Update = NewFormDialog(DialogConfig{
		Title:     "Update Move Vehicle",
		Notifier:  toasts,
		Ready:     hasSelection,
		OnSuccess: refetch,
	}, VehicleFields(), func(ctx context.Context, vals Values) error {
		cur := p.Selected.Get()
		if cur == nil {
			return ErrNoSelection
		}
		_, err := api.UpdateVehicle(ctx, cur.ID, vals.VehicleInput())
		return err
	})

	p.Delete = NewConfirmDialog(DialogConfig{
		Title:     "Delete Move Vehicle",
		Notifier:  toasts,
		Ready:     hasSelection,
		OnSuccess: refetch,
	}, "Are you sure you want to delete this vehicle?", func(ctx context.Context) error {
		cur := p.Selected.Get()
		if cur == nil {
			return ErrNoSelection
		}
		return api.DeleteVehicle(ctx, cur.ID)
	})

	p.Selected.Subscribe(func(v *models.Vehicle) {
		if v != nil {
			p.Update.Reset(VehicleValues(*v))
		}
	})
	return p
}

func (p *VehiclesPage) Show(ctx context.Context, params domain.PageParams) QueryState[models.Vehicle] {
	return p.Query.Show(ctx, params)
}

func (p *VehiclesPage) OpenCreate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Create.Reset(nil)
	p.Create.Open()
}

func (p *VehiclesPage) OpenUpdate(id int64) error {
	return p.selectAndOpen(id, p.Update.Open)
}

func (p *VehiclesPage) OpenDelete(id int64) error {
	return p.selectAndOpen(id, p.Delete.Open)
}

func (p *VehiclesPage) selectAndOpen(id int64, open func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.Query.State()
	if st.Data == nil {
		return ErrUnknownRow
	}
	for _, v := range st.Data.Records {
		if v.ID == id {
			p.Selected.Set(&v)
			open()
			return nil
		}
	}
	return ErrUnknownRow
}

// SubmitUpdate sends the form only while id is still the selected vehicle.
func (p *VehiclesPage) SubmitUpdate(ctx context.Context, id int64, vals Values) error {
	if !p.selectedIs(id) {
		return ErrNoSelection
	}
	return p.Update.Submit(ctx, vals)
}

func (p *VehiclesPage) ConfirmDelete(ctx context.Context, id int64) error {
	if !p.selectedIs(id) {
		return ErrNoSelection
	}
	return p.Delete.Confirm(ctx)
}

func (p *VehiclesPage) selectedIs(id int64) bool {
	cur := p.Selected.Get()
	return cur != nil && cur.ID == id
}

func (p *VehiclesPage) CloseDialog(name string) error {
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

func (p *VehiclesPage) Columns() []Column {
	return append([]Column(nil), vehicleColumns...)
}

func (p *VehiclesPage) Rows() []Row {
	st := p.Query.State()
	if st.Data == nil {
		return nil
	}
	rows := make([]Row, 0, len(st.Data.Records))
	for _, v := range st.Data.Records {
		rows = append(rows, Row{
			ID:    v.ID,
			Cells: []string{strconv.FormatInt(v.ID, 10), v.Name, v.PlateNumber},
		})
	}
	return rows
}

func (p *VehiclesPage) Close() {
	p.Query.Close()
}
