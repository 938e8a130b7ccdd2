package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/repositories"
	"fleetmove/internal/utils"
)

const (
	DefaultSort     = "id"
	defaultPageSize = 10
)

// TransportRequestStore is the storage the service needs; TransportRequestRepository implements it.
type TransportRequestStore interface {
	List(ctx context.Context, p domain.PageParams) ([]repositories.TransportRequestRecord, int, error)
	GetByID(ctx context.Context, id int64) (repositories.TransportRequestRecord, error)
	Create(ctx context.Context, rec repositories.TransportRequestRecord) (int64, error)
	Update(ctx context.Context, rec repositories.TransportRequestRecord) error
	Delete(ctx context.Context, id int64) error
}

// TransportRequestService owns validation and lifecycle rules of move transport requests.
type TransportRequestService struct {
	Repo      TransportRequestStore
	Loc       *time.Location
	PageSize  int
	RequestID string
}

func (s TransportRequestService) loc() *time.Location {
	if s.Loc != nil {
		return s.Loc
	}
	return time.Local
}

func (s TransportRequestService) repo() TransportRequestStore {
	if s.Repo != nil {
		return s.Repo
	}
	return repositories.TransportRequestRepository{}
}

// WithRequestID returns a copy that tags its log lines with id.
func (s TransportRequestService) WithRequestID(id string) TransportRequestService {
	s.RequestID = id
	return s
}

func (s TransportRequestService) List(ctx context.Context, p domain.PageParams) (domain.Page[models.TransportRequest], error) {
	size := s.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	p = p.Normalize(size, DefaultSort)

	recs, total, err := s.repo().List(ctx, p)
	if err != nil {
		return domain.Page[models.TransportRequest]{}, err
	}
	out := make([]models.TransportRequest, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Model(s.loc()))
	}
	return domain.NewPage(out, total, p), nil
}

func (s TransportRequestService) Get(ctx context.Context, id int64) (models.TransportRequest, error) {
	if id <= 0 {
		return models.TransportRequest{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	rec, err := s.repo().GetByID(ctx, id)
	if err != nil {
		return models.TransportRequest{}, err
	}
	return rec.Model(s.loc()), nil
}

func (s TransportRequestService) Create(ctx context.Context, in models.TransportRequestInput) (models.TransportRequest, error) {
	rec, err := s.parseInput(in)
	if err != nil {
		return models.TransportRequest{}, err
	}
	id, err := s.repo().Create(ctx, rec)
	if err != nil {
		return models.TransportRequest{}, err
	}
	utils.LogEvent(s.RequestID, "transport_request", "create", "id="+strconv.FormatInt(id, 10))
	return s.Get(ctx, id)
}

// Update replaces every mutable field of id with in.
func (s TransportRequestService) Update(ctx context.Context, id int64, in models.TransportRequestInput) (models.TransportRequest, error) {
	if id <= 0 {
		return models.TransportRequest{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	rec, err := s.parseInput(in)
	if err != nil {
		return models.TransportRequest{}, err
	}
	rec.ID = id
	if err := s.repo().Update(ctx, rec); err != nil {
		return models.TransportRequest{}, err
	}
	utils.LogEvent(s.RequestID, "transport_request", "update", "id="+strconv.FormatInt(id, 10)+" status="+rec.Status)
	return s.Get(ctx, id)
}

// Delete removes id unless its trip is running.
func (s TransportRequestService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	rec, err := s.repo().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status == models.StatusInProgress {
		return domain.ConflictError{Msg: "cannot delete a transport request while its trip is in progress"}
	}
	if err := s.repo().Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "transport_request", "delete", "id="+strconv.FormatInt(id, 10))
	return nil
}

// parseInput converts the text payload to a storage record. Presence and
// email shape are checked at the binding boundary; text fields are stored as
// sent and only the typed fields are parsed here.
func (s TransportRequestService) parseInput(in models.TransportRequestInput) (repositories.TransportRequestRecord, error) {
	var errs domain.ValidationErrors
	rec := repositories.TransportRequestRecord{
		RiderType:               in.RiderType,
		PassengerName:           in.PassengerName,
		PassengerDepartment:     in.PassengerDepartment,
		PassengerEmail:          in.PassengerEmail,
		PickupLocation:          in.PickupLocation,
		DropoffLocation:         in.DropoffLocation,
		Purpose:                 in.Purpose,
		Status:                  in.Status,
		ExternalServiceProvider: in.ExternalServiceProvider,
		Notes:                   in.Notes,
	}
	pickup := strings.TrimSpace(in.PickupDateTime)
	dropoff := strings.TrimSpace(in.DropoffDateTime)

	if pickup != "" {
		t, err := utils.ParseDateTime(pickup, s.loc())
		if err != nil {
			errs = append(errs, domain.ValidationError{Field: "pickup_date_time", Msg: "must look like 2006-01-02 15:04", Err: err})
		}
		rec.PickupAt = t
	}
	if dropoff != "" {
		t, err := utils.ParseDateTime(dropoff, s.loc())
		if err != nil {
			errs = append(errs, domain.ValidationError{Field: "dropoff_date_time", Msg: "must look like 2006-01-02 15:04", Err: err})
		}
		rec.DropoffAt = t
	}
	if !rec.PickupAt.IsZero() && !rec.DropoffAt.IsZero() && rec.DropoffAt.Before(rec.PickupAt) {
		errs = append(errs, domain.ValidationError{Field: "dropoff_date_time", Msg: "must not be before pickup"})
	}
	id, err := parsePositiveID(in.MoveDriverID)
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "move_driver_id", Msg: err.Error()})
	}
	rec.MoveDriverID = id
	if id, err = parsePositiveID(in.MoveVehicleID); err != nil {
		errs = append(errs, domain.ValidationError{Field: "move_vehicle_id", Msg: err.Error()})
	}
	rec.MoveVehicleID = id
	flag, ok := utils.ParseFlag(in.ExternalServiceFlag)
	if !ok {
		errs = append(errs, domain.ValidationError{Field: "external_service_flag", Msg: "must be true or false"})
	}
	rec.ExternalServiceFlag = flag

	if len(errs) > 0 {
		return rec, errs
	}
	return rec, nil
}

func parsePositiveID(s string) (*int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("must be a positive number")
	}
	return &id, nil
}
