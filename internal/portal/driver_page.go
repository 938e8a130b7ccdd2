package portal

import (
	"context"
	"sync"
	"time"

	"fleetmove/internal/domain/models"
	"fleetmove/internal/utils"
)

// DriverAPI is the part of the REST client the driver home page uses.
type DriverAPI interface {
	DriverBoard(ctx context.Context, driverID int64, date string) (models.DriverBoard, error)
	StartTrip(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error)
	ArriveTrip(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error)
}

// DriverHomePage shows a driver's day and the start/arrive odometer dialogs.
type DriverHomePage struct {
	DriverID int64
	Selected *Selection[models.TransportRequest]
	Start    *FormDialog
	Arrive   *FormDialog
	Toasts   *Notifier
	Loc      *time.Location
	Now      func() time.Time

	api DriverAPI

	mu    sync.Mutex
	date  string
	board *models.DriverBoard
	err   error
}

func NewDriverHomePage(api DriverAPI, driverID int64, toasts *Notifier, loc *time.Location) *DriverHomePage {
	if toasts == nil {
		toasts = &Notifier{}
	}
	if loc == nil {
		loc = time.Local
	}
	p := &DriverHomePage{
		DriverID: driverID,
		Selected: &Selection[models.TransportRequest]{},
		Toasts:   toasts,
		Loc:      loc,
		api:      api,
	}
	reload := func(ctx context.Context) { _ = p.Reload(ctx) }
	hasSelection := func() bool { return p.Selected.Get() != nil }

	p.Start = NewFormDialog(DialogConfig{
		Title:          "Enter Odometer Reading",
		SuccessMessage: "Trip Has Started!",
		Notifier:       toasts,
		Ready:          hasSelection,
		OnSuccess:      reload,
	}, TripActionFields(models.TripEventStart), func(ctx context.Context, vals Values) error {
		cur := p.Selected.Get()
		if cur == nil {
			return ErrNoSelection
		}
		_, err := api.StartTrip(ctx, cur.ID, vals.TripActionInput())
		return err
	})

	p.Arrive = NewFormDialog(DialogConfig{
		Title:          "Enter Odometer Reading",
		SuccessMessage: "Marked as arrived!",
		Notifier:       toasts,
		Ready:          hasSelection,
		OnSuccess:      reload,
	}, TripActionFields(models.TripEventArrive), func(ctx context.Context, vals Values) error {
		cur := p.Selected.Get()
		if cur == nil {
			return ErrNoSelection
		}
		_, err := api.ArriveTrip(ctx, cur.ID, vals.TripActionInput())
		return err
	})
	return p
}

func (p *DriverHomePage) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Load fetches the board for date; an empty date is today on the server.
func (p *DriverHomePage) Load(ctx context.Context, date string) error {
	board, err := p.api.DriverBoard(ctx, p.DriverID, date)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.date = date
	p.err = err
	if err == nil {
		p.board = &board
	}
	return err
}

// Reload fetches the board again for the last date.
func (p *DriverHomePage) Reload(ctx context.Context) error {
	p.mu.Lock()
	date := p.date
	p.mu.Unlock()
	return p.Load(ctx, date)
}

// Board returns the last loaded board, which may be nil, and the last load error.
func (p *DriverHomePage) Board() (*models.DriverBoard, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board, p.err
}

// OpenStart selects an upcoming trip and opens the start dialog.
func (p *DriverHomePage) OpenStart(tripID int64) error {
	return p.selectAndOpen(tripID, false, p.Start)
}

// OpenArrive selects the current trip and opens the arrive dialog.
func (p *DriverHomePage) OpenArrive(tripID int64) error {
	return p.selectAndOpen(tripID, true, p.Arrive)
}

func (p *DriverHomePage) selectAndOpen(tripID int64, current bool, d *FormDialog) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.board == nil {
		return ErrUnknownRow
	}
	var trip *models.TransportRequest
	if current {
		if p.board.Current != nil && p.board.Current.ID == tripID {
			cp := *p.board.Current
			trip = &cp
		}
	} else {
		for _, tr := range p.board.Upcoming {
			if tr.ID == tripID && tr.Startable() {
				cp := tr
				trip = &cp
				break
			}
		}
	}
	if trip == nil {
		return ErrUnknownRow
	}

	p.Selected.Set(trip)
	now := p.now()
	d.Reset(Values{
		"date": utils.FormatDate(now, p.Loc),
		"time": now.In(p.Loc).Format("15:04"),
	})
	d.Open()
	return nil
}

// CloseDialog hides the start or arrive dialog.
func (p *DriverHomePage) CloseDialog(name string) {
	switch name {
	case models.TripEventStart:
		p.Start.Close()
	case models.TripEventArrive:
		p.Arrive.Close()
	}
}
