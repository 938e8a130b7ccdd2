package portal

import (
	"context"
	"testing"
	"time"

	"fleetmove/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func driverBoard() models.DriverBoard {
	return models.DriverBoard{
		Driver:  models.Driver{ID: 3, Name: "Juan Santos"},
		Date:    "2025-03-01",
		Current: &models.TransportRequest{ID: 11, Status: models.StatusInProgress},
		Upcoming: []models.TransportRequest{
			{ID: 12, Status: models.StatusApproved},
		},
	}
}

func TestDriverStartTrip(t *testing.T) {
	api := &fakeAPI{board: driverBoard()}
	p := NewDriverHomePage(api, 3, nil, manila)
	p.Now = func() time.Time { return time.Date(2025, 3, 1, 6, 30, 0, 0, time.UTC) }
	require.NoError(t, p.Load(context.Background(), ""))

	require.NoError(t, p.OpenStart(12))
	vals := p.Start.Values()
	assert.Equal(t, "2025-03-01", vals["date"])
	assert.Equal(t, "14:30", vals["time"])

	vals["odometer_km"] = "1200"
	vals["passenger_count"] = "2"
	vals["location"] = "Marriott Clark"
	require.NoError(t, p.Start.Submit(context.Background(), vals))

	assert.Equal(t, []int64{12}, api.starts)
	assert.Equal(t, 2, api.boards, "board reloaded after the trip started")
	assert.False(t, p.Start.IsOpen())
	assert.Equal(t, "Trip Has Started!", p.Toasts.Drain()[0].Message)
}

func TestDriverArriveOnlyForCurrentTrip(t *testing.T) {
	api := &fakeAPI{board: driverBoard()}
	p := NewDriverHomePage(api, 3, nil, manila)
	require.NoError(t, p.Load(context.Background(), "2025-03-01"))

	assert.ErrorIs(t, p.OpenArrive(12), ErrUnknownRow)
	assert.ErrorIs(t, p.OpenStart(11), ErrUnknownRow)
	require.NoError(t, p.OpenArrive(11))

	err := p.Arrive.Submit(context.Background(), Values{"odometer_km": "12x", "passenger_count": "2", "location": "NAIA", "date": "2025-03-01", "time": "15:00"})
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Must be a number", fieldErrs["odometer_km"])
	assert.Empty(t, api.arrives)

	require.NoError(t, p.Arrive.Submit(context.Background(), Values{"odometer_km": "1265", "passenger_count": "2", "location": "NAIA", "date": "2025-03-01", "time": "15:00"}))
	assert.Equal(t, []int64{11}, api.arrives)
	assert.Equal(t, "Marked as arrived!", p.Toasts.Drain()[0].Message)
}
