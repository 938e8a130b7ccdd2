package services

import (
	"context"
	"strconv"
	"strings"

	"fleetmove/internal/auth"
	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (models.User, string, error)
	Create(ctx context.Context, u models.User, passwordHash string) (int64, error)
}

type AuthService struct {
	Users     UserStore
	Tokens    *auth.Tokens
	RequestID string
}

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid email or password"}

// Login checks the password against the stored bcrypt hash and issues a bearer token.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", models.User{}, domain.ValidationError{Msg: "email and password are required"}
	}
	user, hash, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if domain.IsNotFound(err) {
		return "", models.User{}, errBadCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", models.User{}, errBadCredentials
	}

	var driverID int64
	if user.DriverID != nil {
		driverID = *user.DriverID
	}
	token, err := s.Tokens.Issue(user.ID, user.Role, driverID)
	if err != nil {
		return "", models.User{}, domain.InternalError{Msg: "could not issue token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+strconv.FormatInt(user.ID, 10))
	return token, user, nil
}

// Register stores a new user with a bcrypt password hash.
func (s AuthService) Register(ctx context.Context, u models.User, password string) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	switch {
	case u.Email == "":
		return u, domain.ValidationError{Field: "email", Msg: "Required"}
	case len(password) < 8:
		return u, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	case u.Role != models.RoleAdmin && u.Role != models.RoleDriver:
		return u, domain.ValidationError{Field: "role", Msg: "must be admin or driver"}
	case u.Role == models.RoleDriver && u.DriverID == nil:
		return u, domain.ValidationError{Field: "driver_id", Msg: "required for drivers"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return u, domain.InternalError{Msg: "could not hash password", Err: err}
	}
	id, err := s.Users.Create(ctx, u, string(hash))
	if err != nil {
		return u, err
	}
	u.ID = id
	return u, nil
}
