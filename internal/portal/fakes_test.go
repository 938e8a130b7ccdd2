package portal

import (
	"context"
	"sync"
	"testing"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
)

type updateCall struct {
	ID    int64
	Input models.TransportRequestInput
}

type fakeAPI struct {
	mu        sync.Mutex
	creates   []models.TransportRequestInput
	updates   []updateCall
	deletes   []int64
	createErr error
	updateErr error
	deleteErr error

	// when set, UpdateTransportRequest signals entered and waits for release
	entered chan struct{}
	release chan struct{}

	board   models.DriverBoard
	boards  int
	starts  []int64
	arrives []int64

	vehicleCreates []models.VehicleInput
	vehicleUpdates map[int64]models.VehicleInput
	vehicleDeletes []int64
}

func (f *fakeAPI) CreateTransportRequest(ctx context.Context, in models.TransportRequestInput) (models.TransportRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	return models.TransportRequest{ID: 99}, f.createErr
}

func (f *fakeAPI) UpdateTransportRequest(ctx context.Context, id int64, in models.TransportRequestInput) (models.TransportRequest, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{ID: id, Input: in})
	return models.TransportRequest{ID: id}, f.updateErr
}

func (f *fakeAPI) DeleteTransportRequest(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeAPI) CreateVehicle(ctx context.Context, in models.VehicleInput) (models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehicleCreates = append(f.vehicleCreates, in)
	return models.Vehicle{ID: 50, Name: in.Name, PlateNumber: in.PlateNumber}, nil
}

func (f *fakeAPI) UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vehicleUpdates == nil {
		f.vehicleUpdates = map[int64]models.VehicleInput{}
	}
	f.vehicleUpdates[id] = in
	return models.Vehicle{ID: id, Name: in.Name, PlateNumber: in.PlateNumber}, nil
}

func (f *fakeAPI) DeleteVehicle(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehicleDeletes = append(f.vehicleDeletes, id)
	return nil
}

func (f *fakeAPI) DriverBoard(ctx context.Context, driverID int64, date string) (models.DriverBoard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards++
	return f.board, nil
}

func (f *fakeAPI) StartTrip(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, id)
	return models.TransportRequest{ID: id, Status: models.StatusInProgress}, nil
}

func (f *fakeAPI) ArriveTrip(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.arrives = append(f.arrives, id)
	return models.TransportRequest{ID: id, Status: models.StatusCompleted}, nil
}

func (f *fakeAPI) counts() (creates, updates, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates), len(f.updates), len(f.deletes)
}

// fakeList serves a fixed page and counts fetches.
type fakeList struct {
	mu      sync.Mutex
	records []models.TransportRequest
	calls   int
	params  []domain.PageParams
}

func (f *fakeList) fetch(ctx context.Context, endpoint string, p domain.PageParams) (domain.Page[models.TransportRequest], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.params = append(f.params, p)
	return domain.NewPage(append([]models.TransportRequest(nil), f.records...), len(f.records), p), nil
}

func (f *fakeList) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func vehicleFetch(vs ...models.Vehicle) Fetcher[models.Vehicle] {
	return func(ctx context.Context, endpoint string, p domain.PageParams) (domain.Page[models.Vehicle], error) {
		return domain.NewPage(append([]models.Vehicle(nil), vs...), len(vs), p), nil
	}
}

func int64Ptr(v int64) *int64 { return &v }

func guestRequest() models.TransportRequest {
	return models.TransportRequest{
		ID:                      7,
		RiderType:               "guest",
		PassengerName:           "Michael Johnson",
		PassengerDepartment:     "Acme Corp",
		PassengerEmail:          "michael@acme.test",
		PickupLocation:          "Marriott Clark",
		DropoffLocation:         "NAIA Terminal 3",
		PickupDateTime:          "2025-03-01 16:30:00",
		DropoffDateTime:         "2025-03-01 18:30:00",
		Purpose:                 "Airport transfer",
		Status:                  "pending",
		MoveDriverID:            int64Ptr(3),
		MoveVehicleID:           int64Ptr(9),
		ExternalServiceFlag:     true,
		ExternalServiceProvider: "Grab",
		Notes:                   "Two bags",
		CreatedAt:               time.Date(2025, 3, 1, 6, 5, 0, 0, time.UTC),
	}
}

var manila = time.FixedZone("PHT", 8*3600)

func newLoadedPage(t *testing.T, api *fakeAPI, records ...models.TransportRequest) (*TransportRequestsPage, *fakeList) {
	t.Helper()
	list := &fakeList{records: records}
	p := NewTransportRequestsPage(api, list.fetch, QueryConfig{PageSize: 10}, nil, manila)
	p.Load(context.Background(), domain.PageParams{})
	return p, list
}
