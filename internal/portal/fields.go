package portal

import (
	"sort"
	"strings"

	"fleetmove/internal/domain/models"
)

// InputKind selects the control a field renders as.
type InputKind string

const (
	InputText     InputKind = "text"
	InputEmail    InputKind = "email"
	InputNumber   InputKind = "number"
	InputDate     InputKind = "date"
	InputTime     InputKind = "time"
	InputTextarea InputKind = "textarea"
)

// Field describes one form input. The ordered list of fields drives
// rendering, default values, reset-from-entity and validation.
type Field struct {
	Name        string
	Label       string
	Input       InputKind
	Placeholder string
	Validate    func(value string) string
}

// Values are raw form values keyed by field name.
type Values map[string]string

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Required rejects empty values with "Required". Whitespace counts as a value.
func Required(v string) string {
	if v == "" {
		return "Required"
	}
	return ""
}

// DefaultValues returns every field set to "".
func DefaultValues(fields []Field) Values {
	out := make(Values, len(fields))
	for _, f := range fields {
		out[f.Name] = ""
	}
	return out
}

// FormValues keeps only the named fields of raw, in field order.
func FormValues(fields []Field, raw func(name string) string) Values {
	out := make(Values, len(fields))
	for _, f := range fields {
		out[f.Name] = raw(f.Name)
	}
	return out
}

// ValidateFields runs every field validator; the result is nil when all pass.
func ValidateFields(fields []Field, vals Values) FieldErrors {
	var errs FieldErrors
	for _, f := range fields {
		if f.Validate == nil {
			continue
		}
		if msg := f.Validate(vals[f.Name]); msg != "" {
			if errs == nil {
				errs = FieldErrors{}
			}
			errs[f.Name] = msg
		}
	}
	return errs
}

func text(name, label string) Field {
	return Field{Name: name, Label: label, Input: InputText, Validate: Required}
}

// TransportRequestFields are the 15 mutable fields of a transport request.
func TransportRequestFields() []Field {
	return []Field{
		text("rider_type", "Rider Type"),
		text("passenger_name", "Passenger Name"),
		text("passenger_department", "Passenger Department"),
		{Name: "passenger_email", Label: "Passenger Email", Input: InputEmail, Validate: Required},
		text("pickup_location", "Pickup Location"),
		text("dropoff_location", "Dropoff Location"),
		{Name: "pickup_date_time", Label: "Pickup Date Time", Input: InputText, Placeholder: "2006-01-02 15:04", Validate: Required},
		{Name: "dropoff_date_time", Label: "Dropoff Date Time", Input: InputText, Placeholder: "2006-01-02 15:04", Validate: Required},
		text("purpose", "Purpose"),
		text("status", "Status"),
		text("move_driver_id", "Move Driver Id"),
		text("move_vehicle_id", "Move Vehicle Id"),
		{Name: "external_service_flag", Label: "External Service Flag", Input: InputText, Placeholder: "true or false", Validate: Required},
		text("external_service_provider", "External Service Provider"),
		{Name: "notes", Label: "Notes", Input: InputTextarea, Validate: Required},
	}
}

// TransportRequestValues resets the form from an entity, every value coerced to a string.
func TransportRequestValues(tr models.TransportRequest) Values {
	in := tr.Input()
	return Values{
		"rider_type":                in.RiderType,
		"passenger_name":            in.PassengerName,
		"passenger_department":      in.PassengerDepartment,
		"passenger_email":           in.PassengerEmail,
		"pickup_location":           in.PickupLocation,
		"dropoff_location":          in.DropoffLocation,
		"pickup_date_time":          in.PickupDateTime,
		"dropoff_date_time":         in.DropoffDateTime,
		"purpose":                   in.Purpose,
		"status":                    in.Status,
		"move_driver_id":            in.MoveDriverID,
		"move_vehicle_id":           in.MoveVehicleID,
		"external_service_flag":     in.ExternalServiceFlag,
		"external_service_provider": in.ExternalServiceProvider,
		"notes":                     in.Notes,
	}
}

// TransportRequestInput is the request body built from form values.
func (v Values) TransportRequestInput() models.TransportRequestInput {
	return models.TransportRequestInput{
		RiderType:               v["rider_type"],
		PassengerName:           v["passenger_name"],
		PassengerDepartment:     v["passenger_department"],
		PassengerEmail:          v["passenger_email"],
		PickupLocation:          v["pickup_location"],
		DropoffLocation:         v["dropoff_location"],
		PickupDateTime:          v["pickup_date_time"],
		DropoffDateTime:         v["dropoff_date_time"],
		Purpose:                 v["purpose"],
		Status:                  v["status"],
		MoveDriverID:            v["move_driver_id"],
		MoveVehicleID:           v["move_vehicle_id"],
		ExternalServiceFlag:     v["external_service_flag"],
		ExternalServiceProvider: v["external_service_provider"],
		Notes:                   v["notes"],
	}
}

func nonNegative(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Required"
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return "Must be a number"
		}
	}
	return ""
}

// TripActionFields are the odometer dialog inputs for a start or arrive event.
func TripActionFields(event string) []Field {
	location, date, clock := "Start Location", "Departure Date", "Departure Time"
	if event == models.TripEventArrive {
		location, date, clock = "End Location", "Arrival Date", "Arrival Time"
	}
	return []Field{
		{Name: "odometer_km", Label: "Odometer (km)", Input: InputNumber, Placeholder: "Odometer (km)", Validate: nonNegative},
		{Name: "passenger_count", Label: "Number of Passengers", Input: InputNumber, Placeholder: "Number of Passengers", Validate: nonNegative},
		{Name: "location", Label: location, Input: InputText, Placeholder: location, Validate: Required},
		{Name: "date", Label: date, Input: InputDate, Validate: Required},
		{Name: "time", Label: clock, Input: InputTime, Validate: Required},
	}
}

func (v Values) TripActionInput() models.TripActionInput {
	return models.TripActionInput{
		OdometerKM:     v["odometer_km"],
		PassengerCount: v["passenger_count"],
		Location:       v["location"],
		Date:           v["date"],
		Time:           v["time"],
	}
}

// VehicleFields are the editable fields of a vehicle.
func VehicleFields() []Field {
	return []Field{
		text("name", "Name"),
		text("plate_number", "Plate Number"),
	}
}

func VehicleValues(v models.Vehicle) Values {
	in := v.Input()
	return Values{"name": in.Name, "plate_number": in.PlateNumber}
}

func (v Values) VehicleInput() models.VehicleInput {
	return models.VehicleInput{Name: v["name"], PlateNumber: v["plate_number"]}
}
