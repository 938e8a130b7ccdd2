package services

import (
	"context"
	"testing"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVehicleStore struct {
	vehicles map[int64]models.Vehicle
	nextID   int64
	lastList domain.PageParams
	deleted  []int64
}

func newFakeVehicleStore(vs ...models.Vehicle) *fakeVehicleStore {
	f := &fakeVehicleStore{vehicles: map[int64]models.Vehicle{}, nextID: 20}
	for _, v := range vs {
		f.vehicles[v.ID] = v
	}
	return f
}

func (f *fakeVehicleStore) List(ctx context.Context, p domain.PageParams) ([]models.Vehicle, int, error) {
	f.lastList = p
	out := []models.Vehicle{}
	for _, v := range f.vehicles {
		out = append(out, v)
	}
	return out, len(out), nil
}

func (f *fakeVehicleStore) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return v, domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	return v, nil
}

func (f *fakeVehicleStore) Create(ctx context.Context, v models.Vehicle) (int64, error) {
	f.nextID++
	v.ID = f.nextID
	f.vehicles[v.ID] = v
	return v.ID, nil
}

func (f *fakeVehicleStore) Update(ctx context.Context, v models.Vehicle) error {
	if _, ok := f.vehicles[v.ID]; !ok {
		return domain.NotFoundError{Resource: "vehicle", ID: v.ID}
	}
	f.vehicles[v.ID] = v
	return nil
}

func (f *fakeVehicleStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.vehicles[id]; !ok {
		return domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	delete(f.vehicles, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func TestVehicleListNormalizesPaging(t *testing.T) {
	store := newFakeVehicleStore(models.Vehicle{ID: 1, Name: "Van 1", PlateNumber: "AAA 111"})
	svc := VehicleService{Repo: store, PageSize: 25}

	page, err := svc.List(context.Background(), domain.PageParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.lastList.Page)
	assert.Equal(t, 25, store.lastList.Limit)
	assert.Equal(t, DefaultSort, store.lastList.Sort)
	assert.Len(t, page.Records, 1)
}

func TestVehicleCreateAndUpdate(t *testing.T) {
	store := newFakeVehicleStore()
	svc := VehicleService{Repo: store}

	v, err := svc.Create(context.Background(), models.VehicleInput{Name: "Van 1", PlateNumber: "AAA 111"})
	require.NoError(t, err)
	assert.Equal(t, int64(21), v.ID)

	v, err = svc.Update(context.Background(), v.ID, models.VehicleInput{Name: "Van 1b", PlateNumber: "AAA 111"})
	require.NoError(t, err)
	assert.Equal(t, "Van 1b", store.vehicles[21].Name)
}

func TestVehicleUpdateAndDeleteRejectBadIDs(t *testing.T) {
	svc := VehicleService{Repo: newFakeVehicleStore()}

	_, err := svc.Update(context.Background(), 0, models.VehicleInput{Name: "x", PlateNumber: "y"})
	var vErr domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "id", vErr.Field)

	err = svc.Delete(context.Background(), 99)
	var nf domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}
