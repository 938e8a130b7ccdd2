package services

import (
	"context"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/repositories"
)

type fakeRequestStore struct {
	records  map[int64]repositories.TransportRequestRecord
	nextID   int64
	created  []repositories.TransportRequestRecord
	updated  []repositories.TransportRequestRecord
	deleted  []int64
	events   []models.TripLog
	lastList domain.PageParams
}

func newFakeRequestStore(recs ...repositories.TransportRequestRecord) *fakeRequestStore {
	f := &fakeRequestStore{records: map[int64]repositories.TransportRequestRecord{}, nextID: 100}
	for _, r := range recs {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeRequestStore) List(ctx context.Context, p domain.PageParams) ([]repositories.TransportRequestRecord, int, error) {
	f.lastList = p
	out := []repositories.TransportRequestRecord{}
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id int64) (repositories.TransportRequestRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return r, domain.NotFoundError{Resource: "transport request", ID: id}
	}
	return r, nil
}

func (f *fakeRequestStore) Create(ctx context.Context, rec repositories.TransportRequestRecord) (int64, error) {
	f.nextID++
	rec.ID = f.nextID
	rec.CreatedAt = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f.records[rec.ID] = rec
	f.created = append(f.created, rec)
	return rec.ID, nil
}

func (f *fakeRequestStore) Update(ctx context.Context, rec repositories.TransportRequestRecord) error {
	if _, ok := f.records[rec.ID]; !ok {
		return domain.NotFoundError{Resource: "transport request", ID: rec.ID}
	}
	f.records[rec.ID] = rec
	f.updated = append(f.updated, rec)
	return nil
}

func (f *fakeRequestStore) Delete(ctx context.Context, id int64) error {
	delete(f.records, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRequestStore) ListForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]repositories.TransportRequestRecord, error) {
	out := []repositories.TransportRequestRecord{}
	for id := int64(0); id <= f.nextID; id++ {
		r, ok := f.records[id]
		if !ok || r.MoveDriverID == nil || *r.MoveDriverID != driverID {
			continue
		}
		if r.PickupAt.Before(from) || !r.PickupAt.Before(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestStore) ApplyTripEvent(ctx context.Context, id int64, from []string, to string, log models.TripLog) error {
	r, ok := f.records[id]
	if !ok {
		return domain.NotFoundError{Resource: "transport request", ID: id}
	}
	for _, s := range from {
		if r.Status == s {
			r.Status = to
			f.records[id] = r
			f.events = append(f.events, log)
			return nil
		}
	}
	return domain.ConflictError{Resource: "transport request", Msg: "bad status " + r.Status}
}

type fakeDrivers map[int64]models.Driver

func (f fakeDrivers) GetByID(ctx context.Context, id int64) (models.Driver, error) {
	d, ok := f[id]
	if !ok {
		return d, domain.NotFoundError{Resource: "driver", ID: id}
	}
	return d, nil
}

func validInput() models.TransportRequestInput {
	return models.TransportRequestInput{
		RiderType:               "guest",
		PassengerName:           "Michael Johnson",
		PassengerDepartment:     "Acme Corp",
		PassengerEmail:          "michael@acme.test",
		PickupLocation:          "Marriott Clark",
		DropoffLocation:         "NAIA Terminal 3",
		PickupDateTime:          "2025-03-01 16:30",
		DropoffDateTime:         "2025-03-01 18:30",
		Purpose:                 "Airport transfer",
		Status:                  "pending",
		MoveDriverID:            "3",
		MoveVehicleID:           "9",
		ExternalServiceFlag:     "false",
		ExternalServiceProvider: "none",
		Notes:                   "Two bags",
	}
}

func int64Ptr(v int64) *int64 { return &v }
