package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	intconfig "fleetmove/internal/config"
	intdb "fleetmove/internal/db"
	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/utils"
)

const transportRequestTable = "move_transport_requests"

const transportRequestColumns = `
	id,
	rider_type,
	passenger_name,
	passenger_department,
	passenger_email,
	pickup_location,
	dropoff_location,
	pickup_date_time,
	dropoff_date_time,
	purpose,
	status,
	move_driver_id,
	move_vehicle_id,
	external_service_flag,
	external_service_provider,
	notes,
	created_at,
	updated_at`

// sortableColumns whitelists the list sort keys; the key is also the SQL column.
var sortableColumns = map[string]bool{
	"id":                        true,
	"rider_type":                true,
	"passenger_name":            true,
	"passenger_department":      true,
	"passenger_email":           true,
	"pickup_location":           true,
	"dropoff_location":          true,
	"pickup_date_time":          true,
	"dropoff_date_time":         true,
	"purpose":                   true,
	"status":                    true,
	"move_driver_id":            true,
	"move_vehicle_id":           true,
	"external_service_flag":     true,
	"external_service_provider": true,
	"notes":                     true,
	"created_at":                true,
}

// filterableColumns whitelists filter[col] equality filters.
var filterableColumns = map[string]bool{
	"rider_type":            true,
	"status":                true,
	"move_driver_id":        true,
	"move_vehicle_id":       true,
	"external_service_flag": true,
	"passenger_department":  true,
}

var searchColumns = []string{"passenger_name", "passenger_email", "pickup_location", "dropoff_location", "purpose"}

// TransportRequestRecord is the storage shape of a transport request; date-times are real times.
type TransportRequestRecord struct {
	ID                      int64
	RiderType               string
	PassengerName           string
	PassengerDepartment     string
	PassengerEmail          string
	PickupLocation          string
	DropoffLocation         string
	PickupAt                time.Time
	DropoffAt               time.Time
	Purpose                 string
	Status                  string
	MoveDriverID            *int64
	MoveVehicleID           *int64
	ExternalServiceFlag     bool
	ExternalServiceProvider string
	Notes                   string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Model converts the record for the API, rendering date-times in loc.
func (rec TransportRequestRecord) Model(loc *time.Location) models.TransportRequest {
	return models.TransportRequest{
		ID:                      rec.ID,
		RiderType:               rec.RiderType,
		PassengerName:           rec.PassengerName,
		PassengerDepartment:     rec.PassengerDepartment,
		PassengerEmail:          rec.PassengerEmail,
		PickupLocation:          rec.PickupLocation,
		DropoffLocation:         rec.DropoffLocation,
		PickupDateTime:          utils.FormatDateTime(rec.PickupAt, loc),
		DropoffDateTime:         utils.FormatDateTime(rec.DropoffAt, loc),
		Purpose:                 rec.Purpose,
		Status:                  rec.Status,
		MoveDriverID:            rec.MoveDriverID,
		MoveVehicleID:           rec.MoveVehicleID,
		ExternalServiceFlag:     rec.ExternalServiceFlag,
		ExternalServiceProvider: rec.ExternalServiceProvider,
		Notes:                   rec.Notes,
		CreatedAt:               rec.CreatedAt,
		UpdatedAt:               rec.UpdatedAt,
	}
}

type TransportRequestRepository struct {
	DB *sql.DB
}

func (r TransportRequestRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransportRequest(s rowScanner) (TransportRequestRecord, error) {
	var (
		rec      TransportRequestRecord
		driverID sql.NullInt64
		vehicle  sql.NullInt64
	)
	err := s.Scan(
		&rec.ID,
		&rec.RiderType,
		&rec.PassengerName,
		&rec.PassengerDepartment,
		&rec.PassengerEmail,
		&rec.PickupLocation,
		&rec.DropoffLocation,
		&rec.PickupAt,
		&rec.DropoffAt,
		&rec.Purpose,
		&rec.Status,
		&driverID,
		&vehicle,
		&rec.ExternalServiceFlag,
		&rec.ExternalServiceProvider,
		&rec.Notes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}
	rec.MoveDriverID = intdb.IDPtr(driverID)
	rec.MoveVehicleID = intdb.IDPtr(vehicle)
	return rec, nil
}

// listWhere builds the WHERE clause for search and whitelisted filters.
func listWhere(p domain.PageParams) (string, []any, error) {
	clauses := []string{}
	args := []any{}

	if p.Search != "" {
		like := "%" + p.Search + "%"
		parts := make([]string, 0, len(searchColumns))
		for _, col := range searchColumns {
			parts = append(parts, col+" LIKE ?")
			args = append(args, like)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	for _, col := range sortedKeys(p.Filters) {
		if !filterableColumns[col] {
			return "", nil, domain.ValidationError{Field: "filter[" + col + "]", Msg: "unsupported filter"}
		}
		val := p.Filters[col]
		switch col {
		case "move_driver_id", "move_vehicle_id":
			id, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return "", nil, domain.ValidationError{Field: "filter[" + col + "]", Msg: "must be a number", Err: err}
			}
			clauses = append(clauses, col+" = ?")
			args = append(args, id)
		case "external_service_flag":
			flag, ok := utils.ParseFlag(val)
			if !ok {
				return "", nil, domain.ValidationError{Field: "filter[" + col + "]", Msg: "must be true or false"}
			}
			clauses = append(clauses, col+" = ?")
			args = append(args, flag)
		default:
			clauses = append(clauses, col+" = ?")
			args = append(args, val)
		}
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func orderBy(sortKey string) (string, error) {
	s := domain.ParseSort(sortKey)
	if !sortableColumns[s.Field] {
		return "", domain.ValidationError{Field: "sort", Msg: "unsupported sort column " + s.Field}
	}
	dir := "ASC"
	if s.Direction == "desc" {
		dir = "DESC"
	}
	// id as tie-breaker keeps paging stable.
	if s.Field == "id" {
		return " ORDER BY id " + dir, nil
	}
	return " ORDER BY " + s.Field + " " + dir + ", id " + dir, nil
}

// List returns one page; p must already be normalized.
func (r TransportRequestRepository) List(ctx context.Context, p domain.PageParams) ([]TransportRequestRecord, int, error) {
	db := r.db()
	if db == nil {
		return nil, 0, domain.InternalError{Msg: "database not connected"}
	}

	where, args, err := listWhere(p)
	if err != nil {
		return nil, 0, err
	}
	order, err := orderBy(p.Sort)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+transportRequestTable+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transport requests: %w", err)
	}

	pageArgs := append(append([]any{}, args...), p.Limit, p.Offset())
	rows, err := db.QueryContext(ctx, `SELECT `+transportRequestColumns+` FROM `+transportRequestTable+where+order+` LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transport requests: %w", err)
	}
	defer rows.Close()

	out := []TransportRequestRecord{}
	for rows.Next() {
		rec, err := scanTransportRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transport request: %w", err)
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (r TransportRequestRepository) GetByID(ctx context.Context, id int64) (TransportRequestRecord, error) {
	db := r.db()
	if db == nil {
		return TransportRequestRecord{}, domain.InternalError{Msg: "database not connected"}
	}
	rec, err := scanTransportRequest(db.QueryRowContext(ctx,
		`SELECT `+transportRequestColumns+` FROM `+transportRequestTable+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, domain.NotFoundError{Resource: "transport request", ID: id, Err: err}
	}
	return rec, err
}

// ListForDriver returns a driver's requests whose pickup falls in [from, to).
func (r TransportRequestRepository) ListForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]TransportRequestRecord, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "database not connected"}
	}
	rows, err := db.QueryContext(ctx, `SELECT `+transportRequestColumns+` FROM `+transportRequestTable+`
		WHERE move_driver_id = ? AND pickup_date_time >= ? AND pickup_date_time < ?
		ORDER BY pickup_date_time ASC, id ASC`, driverID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list driver trips: %w", err)
	}
	defer rows.Close()

	out := []TransportRequestRecord{}
	for rows.Next() {
		rec, err := scanTransportRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transport request: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func writeArgs(rec TransportRequestRecord) []any {
	return []any{
		rec.RiderType,
		rec.PassengerName,
		rec.PassengerDepartment,
		rec.PassengerEmail,
		rec.PickupLocation,
		rec.DropoffLocation,
		rec.PickupAt.UTC(),
		rec.DropoffAt.UTC(),
		rec.Purpose,
		rec.Status,
		intdb.NullableID(rec.MoveDriverID),
		intdb.NullableID(rec.MoveVehicleID),
		rec.ExternalServiceFlag,
		rec.ExternalServiceProvider,
		rec.Notes,
	}
}

// Create inserts rec and returns the new id.
func (r TransportRequestRepository) Create(ctx context.Context, rec TransportRequestRecord) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "database not connected"}
	}
	now := utils.NowUTC()
	args := append(writeArgs(rec), now, now)
	res, err := db.ExecContext(ctx, `INSERT INTO `+transportRequestTable+` (
			rider_type, passenger_name, passenger_department, passenger_email,
			pickup_location, dropoff_location, pickup_date_time, dropoff_date_time,
			purpose, status, move_driver_id, move_vehicle_id,
			external_service_flag, external_service_provider, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return 0, mapWriteError(err)
	}
	return res.LastInsertId()
}

// Update replaces every mutable field of rec.ID.
func (r TransportRequestRepository) Update(ctx context.Context, rec TransportRequestRecord) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	args := append(writeArgs(rec), utils.NowUTC(), rec.ID)
	res, err := db.ExecContext(ctx, `UPDATE `+transportRequestTable+` SET
			rider_type = ?, passenger_name = ?, passenger_department = ?, passenger_email = ?,
			pickup_location = ?, dropoff_location = ?, pickup_date_time = ?, dropoff_date_time = ?,
			purpose = ?, status = ?, move_driver_id = ?, move_vehicle_id = ?,
			external_service_flag = ?, external_service_provider = ?, notes = ?,
			updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return mapWriteError(err)
	}
	return requireAffected(res, rec.ID)
}

func (r TransportRequestRepository) Delete(ctx context.Context, id int64) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	res, err := db.ExecContext(ctx, `DELETE FROM `+transportRequestTable+` WHERE id = ?`, id)
	if err != nil {
		return mapWriteError(err)
	}
	return requireAffected(res, id)
}

// ApplyTripEvent moves id from one of fromStatuses to toStatus and records the
// trip log in the same transaction. A row in any other status is a conflict.
func (r TransportRequestRepository) ApplyTripEvent(ctx context.Context, id int64, fromStatuses []string, toStatus string, log models.TripLog) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fromStatuses)), ",")
	args := []any{toStatus, utils.NowUTC(), id}
	for _, s := range fromStatuses {
		args = append(args, s)
	}
	res, err := tx.ExecContext(ctx, `UPDATE `+transportRequestTable+` SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (`+placeholders+`)`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM `+transportRequestTable+` WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "transport request", ID: id, Err: err}
		}
		if err != nil {
			return err
		}
		return domain.ConflictError{Resource: "transport request", Msg: fmt.Sprintf("cannot %s a trip in status %q", log.Event, status)}
	}

	if _, err := (TripLogRepository{}).insertTx(ctx, tx, id, log); err != nil {
		return err
	}
	return tx.Commit()
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "transport request", ID: id}
	}
	return nil
}
