package models

import "time"

const (
	TripEventStart  = "start"
	TripEventArrive = "arrive"
)

// TripLog records one start/arrive event reported by a driver.
type TripLog struct {
	ID                 int64     `json:"id"`
	TransportRequestID int64     `json:"transport_request_id"`
	Event              string    `json:"event"`
	OdometerKM         int       `json:"odometer_km"`
	PassengerCount     int       `json:"passenger_count"`
	Location           string    `json:"location"`
	OccurredAt         time.Time `json:"occurred_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// TripActionInput is the start/arrive dialog payload, all fields as text.
type TripActionInput struct {
	OdometerKM     string `json:"odometer_km"`
	PassengerCount string `json:"passenger_count"`
	Location       string `json:"location"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}
