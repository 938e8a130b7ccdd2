package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the HS256 claims issued to users and to the portal.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Role     string `json:"role"`
	DriverID int64  `json:"driver_id,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{Secret: []byte(secret), TTL: ttl, Issuer: "fleetmove", now: time.Now}
}

// Enabled is false when no secret is configured; auth is then skipped.
func (t *Tokens) Enabled() bool {
	return t != nil && len(t.Secret) > 0
}

func (t *Tokens) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *Tokens) Issue(userID int64, role string, driverID int64) (string, error) {
	if !t.Enabled() {
		return "", errors.New("token secret not configured")
	}
	now := t.clock()
	claims := Claims{
		UserID:   userID,
		Role:     role,
		DriverID: driverID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	}, jwt.WithTimeFunc(t.clock), jwt.WithIssuer(t.Issuer))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
