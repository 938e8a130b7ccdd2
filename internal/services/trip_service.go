package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/repositories"
	"fleetmove/internal/utils"
)

type TripRequestStore interface {
	GetByID(ctx context.Context, id int64) (repositories.TransportRequestRecord, error)
	ListForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]repositories.TransportRequestRecord, error)
	ApplyTripEvent(ctx context.Context, id int64, fromStatuses []string, toStatus string, log models.TripLog) error
}

type DriverStore interface {
	GetByID(ctx context.Context, id int64) (models.Driver, error)
}

// TripService drives the driver-side trip workflow: pending/approved -> in_progress -> completed.
type TripService struct {
	Requests  TripRequestStore
	Drivers   DriverStore
	Loc       *time.Location
	Now       func() time.Time
	RequestID string
}

func (s TripService) loc() *time.Location {
	if s.Loc != nil {
		return s.Loc
	}
	return time.Local
}

func (s TripService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s TripService) requests() TripRequestStore {
	if s.Requests != nil {
		return s.Requests
	}
	return repositories.TransportRequestRepository{}
}

func (s TripService) drivers() DriverStore {
	if s.Drivers != nil {
		return s.Drivers
	}
	return repositories.DriverRepository{}
}

func (s TripService) WithRequestID(id string) TripService {
	s.RequestID = id
	return s
}

// Board assembles the driver's day. An empty date means today in the service location.
func (s TripService) Board(ctx context.Context, driverID int64, date string) (models.DriverBoard, error) {
	if driverID <= 0 {
		return models.DriverBoard{}, domain.ValidationError{Field: "driver_id", Msg: "must be positive"}
	}

	day := s.now().In(s.loc())
	if strings.TrimSpace(date) != "" {
		d, err := utils.ParseDate(date, s.loc())
		if err != nil {
			return models.DriverBoard{}, domain.ValidationError{Field: "date", Msg: "must look like 2006-01-02", Err: err}
		}
		day = d
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc())
	to := from.AddDate(0, 0, 1)

	driver, err := s.drivers().GetByID(ctx, driverID)
	if err != nil {
		return models.DriverBoard{}, err
	}
	recs, err := s.requests().ListForDriver(ctx, driverID, from, to)
	if err != nil {
		return models.DriverBoard{}, err
	}

	board := models.DriverBoard{
		Driver:    driver,
		Date:      utils.FormatDate(from, s.loc()),
		Upcoming:  []models.TransportRequest{},
		Completed: []models.TransportRequest{},
	}
	for _, rec := range recs {
		m := rec.Model(s.loc())
		switch rec.Status {
		case models.StatusCancelled:
			continue
		case models.StatusInProgress:
			board.Summary.InProgress++
			if board.Current == nil {
				cur := m
				board.Current = &cur
			}
		case models.StatusCompleted:
			board.Summary.Completed++
			board.Completed = append(board.Completed, m)
		default:
			board.Upcoming = append(board.Upcoming, m)
		}
		board.Summary.Total++
	}
	return board, nil
}

// AssignedTo returns NotFound unless trip id belongs to driverID.
func (s TripService) AssignedTo(ctx context.Context, id, driverID int64) error {
	rec, err := s.requests().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.MoveDriverID == nil || *rec.MoveDriverID != driverID {
		return domain.NotFoundError{Resource: "transport request", ID: id}
	}
	return nil
}

// Start records departure for id and moves it to in_progress.
func (s TripService) Start(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error) {
	return s.apply(ctx, id, in, models.TripEventStart,
		[]string{models.StatusPending, models.StatusApproved}, models.StatusInProgress)
}

// Arrive records arrival for id and moves it to completed.
func (s TripService) Arrive(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error) {
	return s.apply(ctx, id, in, models.TripEventArrive,
		[]string{models.StatusInProgress}, models.StatusCompleted)
}

func (s TripService) apply(ctx context.Context, id int64, in models.TripActionInput, event string, from []string, to string) (models.TransportRequest, error) {
	if id <= 0 {
		return models.TransportRequest{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	log, err := s.parseAction(in, event)
	if err != nil {
		return models.TransportRequest{}, err
	}
	if err := s.requests().ApplyTripEvent(ctx, id, from, to, log); err != nil {
		return models.TransportRequest{}, err
	}
	utils.LogEvent(s.RequestID, "trip", event, "id="+strconv.FormatInt(id, 10)+" odometer_km="+strconv.Itoa(log.OdometerKM))

	rec, err := s.requests().GetByID(ctx, id)
	if err != nil {
		return models.TransportRequest{}, err
	}
	return rec.Model(s.loc()), nil
}

func (s TripService) parseAction(in models.TripActionInput, event string) (models.TripLog, error) {
	var errs domain.ValidationErrors
	log := models.TripLog{Event: event, Location: strings.TrimSpace(in.Location)}

	odo, err := strconv.Atoi(strings.TrimSpace(in.OdometerKM))
	if err != nil || odo < 0 {
		errs = append(errs, domain.ValidationError{Field: "odometer_km", Msg: "must be a non-negative number"})
	}
	log.OdometerKM = odo

	pax, err := strconv.Atoi(strings.TrimSpace(in.PassengerCount))
	if err != nil || pax < 0 {
		errs = append(errs, domain.ValidationError{Field: "passenger_count", Msg: "must be a non-negative number"})
	}
	log.PassengerCount = pax

	if log.Location == "" {
		errs = append(errs, domain.ValidationError{Field: "location", Msg: "Required"})
	}

	at, err := utils.ParseDateTime(strings.TrimSpace(in.Date)+" "+strings.TrimSpace(in.Time), s.loc())
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "date", Msg: "date and time are required"})
	}
	log.OccurredAt = at

	if len(errs) > 0 {
		return log, errs
	}
	return log, nil
}
