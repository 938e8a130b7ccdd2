package services

import (
	"context"
	"testing"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("PHT", 8*3600)

func TestCreateRejectsEmptyTypedFields(t *testing.T) {
	store := newFakeRequestStore()
	svc := TransportRequestService{Repo: store, Loc: testLoc}

	_, err := svc.Create(context.Background(), models.TransportRequestInput{})
	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.Fields()
	assert.Contains(t, fields, "move_driver_id")
	assert.Contains(t, fields, "move_vehicle_id")
	assert.Contains(t, fields, "external_service_flag")
	assert.Empty(t, store.created)
}

func TestCreateStoresTextVerbatim(t *testing.T) {
	store := newFakeRequestStore()
	svc := TransportRequestService{Repo: store, Loc: testLoc}

	in := validInput()
	in.Notes = " "
	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, " ", store.created[0].Notes)
}

func TestCreateParsesTypedFields(t *testing.T) {
	store := newFakeRequestStore()
	svc := TransportRequestService{Repo: store, Loc: testLoc}

	got, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	rec := store.created[0]
	assert.Equal(t, int64(3), *rec.MoveDriverID)
	assert.Equal(t, int64(9), *rec.MoveVehicleID)
	assert.False(t, rec.ExternalServiceFlag)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC), rec.PickupAt.UTC())

	assert.Equal(t, "2025-03-01 16:30:00", got.PickupDateTime)
	assert.Equal(t, rec.ID, got.ID)
}

func TestCreateRejectsMalformedValues(t *testing.T) {
	svc := TransportRequestService{Repo: newFakeRequestStore(), Loc: testLoc}

	in := validInput()
	in.MoveDriverID = "abc"
	in.ExternalServiceFlag = "maybe"
	in.DropoffDateTime = "2025-03-01 10:00"

	_, err := svc.Create(context.Background(), in)
	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.Fields()
	assert.Contains(t, fields, "move_driver_id")
	assert.Contains(t, fields, "external_service_flag")
	assert.Contains(t, fields, "dropoff_date_time")
}

func TestUpdateReplacesRecord(t *testing.T) {
	store := newFakeRequestStore(repositories.TransportRequestRecord{ID: 7, RiderType: "guest", Status: "pending"})
	svc := TransportRequestService{Repo: store, Loc: testLoc}

	in := validInput()
	in.Status = "approved"
	got, err := svc.Update(context.Background(), 7, in)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
	require.Len(t, store.updated, 1)
	assert.Equal(t, int64(7), store.updated[0].ID)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := TransportRequestService{Repo: newFakeRequestStore(), Loc: testLoc}
	_, err := svc.Update(context.Background(), 42, validInput())
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteInProgressIsConflict(t *testing.T) {
	store := newFakeRequestStore(repositories.TransportRequestRecord{ID: 7, Status: models.StatusInProgress})
	svc := TransportRequestService{Repo: store}

	err := svc.Delete(context.Background(), 7)
	assert.True(t, domain.IsConflict(err))
	assert.Empty(t, store.deleted)

	store.records[8] = repositories.TransportRequestRecord{ID: 8, Status: models.StatusPending}
	require.NoError(t, svc.Delete(context.Background(), 8))
	assert.Equal(t, []int64{8}, store.deleted)
}

func TestListNormalizesParams(t *testing.T) {
	store := newFakeRequestStore(repositories.TransportRequestRecord{ID: 1})
	svc := TransportRequestService{Repo: store, PageSize: 20}

	page, err := svc.List(context.Background(), domain.PageParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.lastList.Page)
	assert.Equal(t, 20, store.lastList.Limit)
	assert.Equal(t, "id", store.lastList.Sort)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Records, 1)
}
