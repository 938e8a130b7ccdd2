package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "fleetmove/internal/config"
	intdb "fleetmove/internal/db"
	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/utils"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByEmail returns the user and the stored password hash.
func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, string, error) {
	db := r.db()
	if db == nil {
		return models.User{}, "", domain.InternalError{Msg: "database not connected"}
	}
	var (
		u        models.User
		hash     string
		driverID sql.NullInt64
	)
	err := db.QueryRowContext(ctx, `SELECT id, name, email, password_hash, role, move_driver_id
		FROM move_users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Role, &driverID)
	if errors.Is(err, sql.ErrNoRows) {
		return u, "", domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return u, "", err
	}
	u.DriverID = intdb.IDPtr(driverID)
	return u, hash, nil
}

func (r UserRepository) Create(ctx context.Context, u models.User, passwordHash string) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "database not connected"}
	}
	res, err := db.ExecContext(ctx, `INSERT INTO move_users (name, email, password_hash, role, move_driver_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, strings.ToLower(strings.TrimSpace(u.Email)), passwordHash, u.Role, intdb.NullableID(u.DriverID), utils.NowUTC())
	if err != nil {
		return 0, mapWriteError(err)
	}
	return res.LastInsertId()
}
