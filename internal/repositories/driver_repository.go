package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "fleetmove/internal/config"
	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
)

type DriverRepository struct {
	DB *sql.DB
}

func (r DriverRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByID loads a driver together with the assigned vehicle, if any.
func (r DriverRepository) GetByID(ctx context.Context, id int64) (models.Driver, error) {
	db := r.db()
	if db == nil {
		return models.Driver{}, domain.InternalError{Msg: "database not connected"}
	}

	var (
		d         models.Driver
		vehicleID sql.NullInt64
		name      sql.NullString
		plate     sql.NullString
	)
	err := db.QueryRowContext(ctx, `
		SELECT d.id, d.name, d.phone, d.duty_status, v.id, v.name, v.plate_number
		FROM move_drivers d
		LEFT JOIN move_vehicles v ON v.id = d.move_vehicle_id
		WHERE d.id = ?`, id).Scan(&d.ID, &d.Name, &d.Phone, &d.DutyStatus, &vehicleID, &name, &plate)
	if errors.Is(err, sql.ErrNoRows) {
		return d, domain.NotFoundError{Resource: "driver", ID: id, Err: err}
	}
	if err != nil {
		return d, err
	}
	if vehicleID.Valid {
		d.Vehicle = &models.Vehicle{ID: vehicleID.Int64, Name: name.String, PlateNumber: plate.String}
	}
	return d, nil
}
