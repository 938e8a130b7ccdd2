package services

import (
	"context"
	"strconv"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/repositories"
	"fleetmove/internal/utils"
)

// VehicleStore is implemented by repositories.VehicleRepository.
type VehicleStore interface {
	List(ctx context.Context, p domain.PageParams) ([]models.Vehicle, int, error)
	GetByID(ctx context.Context, id int64) (models.Vehicle, error)
	Create(ctx context.Context, v models.Vehicle) (int64, error)
	Update(ctx context.Context, v models.Vehicle) error
	Delete(ctx context.Context, id int64) error
}

type VehicleService struct {
	Repo      VehicleStore
	PageSize  int
	RequestID string
}

func (s VehicleService) repo() VehicleStore {
	if s.Repo != nil {
		return s.Repo
	}
	return repositories.VehicleRepository{}
}

func (s VehicleService) WithRequestID(id string) VehicleService {
	s.RequestID = id
	return s
}

func (s VehicleService) List(ctx context.Context, p domain.PageParams) (domain.Page[models.Vehicle], error) {
	size := s.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	p = p.Normalize(size, DefaultSort)
	out, total, err := s.repo().List(ctx, p)
	if err != nil {
		return domain.Page[models.Vehicle]{}, err
	}
	return domain.NewPage(out, total, p), nil
}

func (s VehicleService) Get(ctx context.Context, id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	return s.repo().GetByID(ctx, id)
}

func (s VehicleService) Create(ctx context.Context, in models.VehicleInput) (models.Vehicle, error) {
	v := models.Vehicle{Name: in.Name, PlateNumber: in.PlateNumber}
	id, err := s.repo().Create(ctx, v)
	if err != nil {
		return models.Vehicle{}, err
	}
	utils.LogEvent(s.RequestID, "vehicle", "create", "id="+strconv.FormatInt(id, 10))
	v.ID = id
	return v, nil
}

func (s VehicleService) Update(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	v := models.Vehicle{ID: id, Name: in.Name, PlateNumber: in.PlateNumber}
	if err := s.repo().Update(ctx, v); err != nil {
		return models.Vehicle{}, err
	}
	utils.LogEvent(s.RequestID, "vehicle", "update", "id="+strconv.FormatInt(id, 10))
	return v, nil
}

// Delete removes id; the store reports a conflict while a driver or request still uses it.
func (s VehicleService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	if err := s.repo().Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "vehicle", "delete", "id="+strconv.FormatInt(id, 10))
	return nil
}
