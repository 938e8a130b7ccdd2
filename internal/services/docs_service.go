package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"fleetmove/internal/domain/models"
	"fleetmove/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the printable trip ticket of a transport request.
type DocsService struct {
	Requests  TransportRequestService
	Drivers   DriverStore
	Loader    func(ctx context.Context, id int64) (tripTicketData, error)
	Now       func() time.Time
	RequestID string
}

type tripTicketData struct {
	Request models.TransportRequest
	Driver  *models.Driver
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// TripTicket returns the PDF bytes and a download filename.
func (s DocsService) TripTicket(ctx context.Context, id int64) ([]byte, string, error) {
	data, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "trip_ticket", fmt.Sprintf("transport_request_id=%d", id))
	return buildTripTicketPDF(data, s.now())
}

func (s DocsService) load(ctx context.Context, id int64) (tripTicketData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	req, err := s.Requests.Get(ctx, id)
	if err != nil {
		return tripTicketData{}, err
	}
	out := tripTicketData{Request: req}
	if req.MoveDriverID != nil && s.Drivers != nil {
		// a missing driver still prints, with the id only
		if d, err := s.Drivers.GetByID(ctx, *req.MoveDriverID); err == nil {
			out.Driver = &d
		}
	}
	return out, nil
}

func buildTripTicketPDF(d tripTicketData, printedAt time.Time) ([]byte, string, error) {
	r := d.Request

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRIP TICKET")
	pdf.Ln(12)

	driver := safe(utils.FormatOptionalID(r.MoveDriverID), "-")
	vehicle := safe(utils.FormatOptionalID(r.MoveVehicleID), "-")
	if d.Driver != nil {
		driver = d.Driver.Name
		if d.Driver.Vehicle != nil {
			vehicle = d.Driver.Vehicle.Name + " - " + d.Driver.Vehicle.PlateNumber
		}
	}
	external := "No"
	if r.ExternalServiceFlag {
		external = "Yes (" + safe(r.ExternalServiceProvider, "-") + ")"
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Request No     : #%d", r.ID),
		fmt.Sprintf("Status         : %s", safe(r.Status, "-")),
		fmt.Sprintf("Rider Type     : %s", safe(r.RiderType, "-")),
		fmt.Sprintf("Passenger      : %s", safe(r.PassengerName, "-")),
		fmt.Sprintf("Department     : %s", safe(r.PassengerDepartment, "-")),
		fmt.Sprintf("Email          : %s", safe(r.PassengerEmail, "-")),
		fmt.Sprintf("Pickup         : %s @ %s", safe(r.PickupLocation, "-"), safe(r.PickupDateTime, "-")),
		fmt.Sprintf("Dropoff        : %s @ %s", safe(r.DropoffLocation, "-"), safe(r.DropoffDateTime, "-")),
		fmt.Sprintf("Purpose        : %s", safe(r.Purpose, "-")),
		fmt.Sprintf("Driver         : %s", driver),
		fmt.Sprintf("Vehicle        : %s", vehicle),
		fmt.Sprintf("External       : %s", external),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if strings.TrimSpace(r.Notes) != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+r.Notes, "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Printed "+printedAt.Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TRIP_TICKET_%d_%s.pdf", r.ID, safeFilenamePart(r.PassengerName))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "ticket"
	}
	return b.String()
}
