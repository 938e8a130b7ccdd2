package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "fleetmove/internal/config"
	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
)

const vehicleTable = "move_vehicles"

var vehicleSortColumns = map[string]bool{
	"id":           true,
	"name":         true,
	"plate_number": true,
}

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func vehicleOrderBy(sortKey string) (string, error) {
	s := domain.ParseSort(sortKey)
	if !vehicleSortColumns[s.Field] {
		return "", domain.ValidationError{Field: "sort", Msg: "unsupported sort column " + s.Field}
	}
	dir := "ASC"
	if s.Direction == "desc" {
		dir = "DESC"
	}
	if s.Field == "id" {
		return " ORDER BY id " + dir, nil
	}
	return " ORDER BY " + s.Field + " " + dir + ", id " + dir, nil
}

// List returns one page searched on name and plate number; p must already be normalized.
func (r VehicleRepository) List(ctx context.Context, p domain.PageParams) ([]models.Vehicle, int, error) {
	db := r.db()
	if db == nil {
		return nil, 0, domain.InternalError{Msg: "database not connected"}
	}
	if len(p.Filters) > 0 {
		col := sortedKeys(p.Filters)[0]
		return nil, 0, domain.ValidationError{Field: "filter[" + col + "]", Msg: "unsupported filter"}
	}
	order, err := vehicleOrderBy(p.Sort)
	if err != nil {
		return nil, 0, err
	}

	where := ""
	args := []any{}
	if p.Search != "" {
		like := "%" + p.Search + "%"
		where = " WHERE (name LIKE ? OR plate_number LIKE ?)"
		args = append(args, like, like)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+vehicleTable+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vehicles: %w", err)
	}

	pageArgs := append(append([]any{}, args...), p.Limit, p.Offset())
	rows, err := db.QueryContext(ctx, `SELECT id, name, plate_number FROM `+vehicleTable+where+order+` LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.PlateNumber); err != nil {
			return nil, 0, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func (r VehicleRepository) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	db := r.db()
	if db == nil {
		return models.Vehicle{}, domain.InternalError{Msg: "database not connected"}
	}
	var v models.Vehicle
	err := db.QueryRowContext(ctx, `SELECT id, name, plate_number FROM `+vehicleTable+` WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.PlateNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "vehicle", ID: id, Err: err}
	}
	return v, err
}

func (r VehicleRepository) Create(ctx context.Context, v models.Vehicle) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "database not connected"}
	}
	res, err := db.ExecContext(ctx, `INSERT INTO `+vehicleTable+` (name, plate_number) VALUES (?, ?)`, v.Name, v.PlateNumber)
	if err != nil {
		return 0, mapWriteError(err)
	}
	return res.LastInsertId()
}

func (r VehicleRepository) Update(ctx context.Context, v models.Vehicle) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	res, err := db.ExecContext(ctx, `UPDATE `+vehicleTable+` SET name = ?, plate_number = ? WHERE id = ?`, v.Name, v.PlateNumber, v.ID)
	if err != nil {
		return mapWriteError(err)
	}
	return vehicleAffected(res, v.ID)
}

// Delete removes id; a vehicle still assigned to a driver or request is a conflict.
func (r VehicleRepository) Delete(ctx context.Context, id int64) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	res, err := db.ExecContext(ctx, `DELETE FROM `+vehicleTable+` WHERE id = ?`, id)
	if err != nil {
		return mapWriteError(err)
	}
	return vehicleAffected(res, id)
}

func vehicleAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	return nil
}
