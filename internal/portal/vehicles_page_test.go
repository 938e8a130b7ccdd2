package portal

import (
	"context"
	"testing"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedVehiclesPage(t *testing.T, api *fakeAPI, vs ...models.Vehicle) *VehiclesPage {
	t.Helper()
	p := NewVehiclesPage(api, vehicleFetch(vs...), QueryConfig{}, nil)
	st := p.Show(context.Background(), domain.PageParams{})
	require.NoError(t, st.Err)
	return p
}

func TestVehiclesPageRows(t *testing.T) {
	p := newLoadedVehiclesPage(t, &fakeAPI{}, models.Vehicle{ID: 4, Name: "Van 4", PlateNumber: "DDD 444"})
	assert.Len(t, p.Columns(), 3)
	rows := p.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"4", "Van 4", "DDD 444"}, rows[0].Cells)
}

func TestVehiclesPageUpdatePrefillsAndSends(t *testing.T) {
	api := &fakeAPI{}
	p := newLoadedVehiclesPage(t, api, models.Vehicle{ID: 4, Name: "Van 4", PlateNumber: "DDD 444"})

	require.NoError(t, p.OpenUpdate(4))
	assert.Equal(t, Values{"name": "Van 4", "plate_number": "DDD 444"}, p.Update.Values())

	require.NoError(t, p.SubmitUpdate(context.Background(), 4, Values{"name": "Van 4b", "plate_number": "DDD 444"}))
	assert.Equal(t, models.VehicleInput{Name: "Van 4b", PlateNumber: "DDD 444"}, api.vehicleUpdates[4])
	assert.False(t, p.Update.IsOpen())
}

func TestVehiclesPageChecksRecordID(t *testing.T) {
	api := &fakeAPI{}
	p := newLoadedVehiclesPage(t, api,
		models.Vehicle{ID: 4, Name: "Van 4", PlateNumber: "DDD 444"},
		models.Vehicle{ID: 5, Name: "Van 5", PlateNumber: "EEE 555"})

	require.NoError(t, p.OpenDelete(5))
	assert.ErrorIs(t, p.ConfirmDelete(context.Background(), 4), ErrNoSelection)
	assert.Empty(t, api.vehicleDeletes)

	require.NoError(t, p.ConfirmDelete(context.Background(), 5))
	assert.Equal(t, []int64{5}, api.vehicleDeletes)
}

func TestVehiclesPageCreateRequiresPlate(t *testing.T) {
	api := &fakeAPI{}
	p := newLoadedVehiclesPage(t, api)
	p.OpenCreate()

	err := p.Create.Submit(context.Background(), Values{"name": "Van 6", "plate_number": ""})
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, FieldErrors{"plate_number": "Required"}, fieldErrs)
	assert.Empty(t, api.vehicleCreates)
}

func TestSessionVehiclesSelectionIsSeparate(t *testing.T) {
	reg := NewSessions(&fakeAPI{}, SessionsConfig{
		Fetch:    (&fakeList{records: []models.TransportRequest{guestRequest()}}).fetch,
		Vehicles: vehicleFetch(models.Vehicle{ID: 7, Name: "Van 7", PlateNumber: "GGG 777"}),
	})
	s, _ := reg.Ensure("")

	s.Vehicles().Show(context.Background(), domain.PageParams{})
	require.NoError(t, s.Vehicles().OpenUpdate(7))
	assert.Same(t, s.Vehicles(), s.Vehicles())
	assert.Nil(t, s.TransportRequests().Selected.Get())
	assert.Equal(t, "/move/vehicles", s.Vehicles().Query.Config().Endpoint)
}
