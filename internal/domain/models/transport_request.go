package models

import (
	"strconv"
	"time"
)

// Transport request statuses. Status is free text at the form boundary;
// these are the values the trip workflow understands.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// TransportRequest is one move transport request as served by the REST resource.
type TransportRequest struct {
	ID                      int64     `json:"id"`
	RiderType               string    `json:"rider_type"`
	PassengerName           string    `json:"passenger_name"`
	PassengerDepartment     string    `json:"passenger_department"`
	PassengerEmail          string    `json:"passenger_email"`
	PickupLocation          string    `json:"pickup_location"`
	DropoffLocation         string    `json:"dropoff_location"`
	PickupDateTime          string    `json:"pickup_date_time"`
	DropoffDateTime         string    `json:"dropoff_date_time"`
	Purpose                 string    `json:"purpose"`
	Status                  string    `json:"status"`
	MoveDriverID            *int64    `json:"move_driver_id"`
	MoveVehicleID           *int64    `json:"move_vehicle_id"`
	ExternalServiceFlag     bool      `json:"external_service_flag"`
	ExternalServiceProvider string    `json:"external_service_provider"`
	Notes                   string    `json:"notes"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// TransportRequestInput is the create/update payload: every mutable field as text.
// Presence and email shape are checked by gin binding; typed parsing happens in the service.
type TransportRequestInput struct {
	RiderType               string `json:"rider_type" binding:"required"`
	PassengerName           string `json:"passenger_name" binding:"required"`
	PassengerDepartment     string `json:"passenger_department" binding:"required"`
	PassengerEmail          string `json:"passenger_email" binding:"required,email"`
	PickupLocation          string `json:"pickup_location" binding:"required"`
	DropoffLocation         string `json:"dropoff_location" binding:"required"`
	PickupDateTime          string `json:"pickup_date_time" binding:"required"`
	DropoffDateTime         string `json:"dropoff_date_time" binding:"required"`
	Purpose                 string `json:"purpose" binding:"required"`
	Status                  string `json:"status" binding:"required"`
	MoveDriverID            string `json:"move_driver_id" binding:"required"`
	MoveVehicleID           string `json:"move_vehicle_id" binding:"required"`
	ExternalServiceFlag     string `json:"external_service_flag" binding:"required"`
	ExternalServiceProvider string `json:"external_service_provider" binding:"required"`
	Notes                   string `json:"notes" binding:"required"`
}

// Input coerces the record back to its text payload; nil ids become "".
func (t TransportRequest) Input() TransportRequestInput {
	return TransportRequestInput{
		RiderType:               t.RiderType,
		PassengerName:           t.PassengerName,
		PassengerDepartment:     t.PassengerDepartment,
		PassengerEmail:          t.PassengerEmail,
		PickupLocation:          t.PickupLocation,
		DropoffLocation:         t.DropoffLocation,
		PickupDateTime:          t.PickupDateTime,
		DropoffDateTime:         t.DropoffDateTime,
		Purpose:                 t.Purpose,
		Status:                  t.Status,
		MoveDriverID:            optionalID(t.MoveDriverID),
		MoveVehicleID:           optionalID(t.MoveVehicleID),
		ExternalServiceFlag:     strconv.FormatBool(t.ExternalServiceFlag),
		ExternalServiceProvider: t.ExternalServiceProvider,
		Notes:                   t.Notes,
	}
}

// Startable reports whether a driver may start this trip.
func (t TransportRequest) Startable() bool {
	return t.Status == StatusPending || t.Status == StatusApproved
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
