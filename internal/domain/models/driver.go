package models

type Vehicle struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
}

// VehicleInput is the create/update payload of a vehicle.
type VehicleInput struct {
	Name        string `json:"name" binding:"required"`
	PlateNumber string `json:"plate_number" binding:"required"`
}

// Input returns the editable fields of v.
func (v Vehicle) Input() VehicleInput {
	return VehicleInput{Name: v.Name, PlateNumber: v.PlateNumber}
}

type Driver struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	DutyStatus string   `json:"duty_status"`
	Vehicle    *Vehicle `json:"vehicle,omitempty"`
}

// TripSummary counts a driver's trips for one day.
type TripSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
}

// DriverBoard is everything the driver home page shows for one day.
type DriverBoard struct {
	Driver    Driver             `json:"driver"`
	Date      string             `json:"date"`
	Summary   TripSummary        `json:"summary"`
	Current   *TransportRequest  `json:"current"`
	Upcoming  []TransportRequest `json:"upcoming"`
	Completed []TransportRequest `json:"completed"`
}
