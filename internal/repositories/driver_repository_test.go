package repositories

import (
	"context"
	"testing"

	"fleetmove/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestDriverGetByIDWithVehicle(t *testing.T) {
	db, mock := newMock(t)
	repo := DriverRepository{DB: db}

	mock.ExpectQuery("FROM move_drivers d").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "duty_status", "vid", "vname", "plate"}).
			AddRow(3, "Juan Santos", "0917", "on_duty", 9, "Toyota Innova", "ABC 1234"))

	d, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "Juan Santos", d.Name)
	require.NotNil(t, d.Vehicle)
	require.Equal(t, "ABC 1234", d.Vehicle.PlateNumber)
}

func TestDriverGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := DriverRepository{DB: db}

	mock.ExpectQuery("FROM move_drivers d").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "duty_status", "vid", "vname", "plate"}))

	_, err := repo.GetByID(context.Background(), 3)
	require.True(t, domain.IsNotFound(err))
}
