package models

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	DriverID *int64 `json:"driver_id,omitempty"`
}

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
	RolePortal = "portal"
)
