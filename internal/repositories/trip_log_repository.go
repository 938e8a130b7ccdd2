package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "fleetmove/internal/config"
	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/utils"
)

type TripLogRepository struct {
	DB *sql.DB
}

func (r TripLogRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r TripLogRepository) insertTx(ctx context.Context, tx *sql.Tx, requestID int64, log models.TripLog) (int64, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO move_trip_logs
		(transport_request_id, event, odometer_km, passenger_count, location, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		requestID, log.Event, log.OdometerKM, log.PassengerCount, log.Location, log.OccurredAt.UTC(), utils.NowUTC())
	if err != nil {
		return 0, fmt.Errorf("insert trip log: %w", err)
	}
	return res.LastInsertId()
}

// ListByRequest returns the trip events of one transport request, oldest first.
func (r TripLogRepository) ListByRequest(ctx context.Context, requestID int64) ([]models.TripLog, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "database not connected"}
	}
	rows, err := db.QueryContext(ctx, `SELECT id, transport_request_id, event, odometer_km, passenger_count, location, occurred_at, created_at
		FROM move_trip_logs WHERE transport_request_id = ? ORDER BY occurred_at ASC, id ASC`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list trip logs: %w", err)
	}
	defer rows.Close()

	out := []models.TripLog{}
	for rows.Next() {
		var l models.TripLog
		if err := rows.Scan(&l.ID, &l.TransportRequestID, &l.Event, &l.OdometerKM, &l.PassengerCount, &l.Location, &l.OccurredAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trip log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
