package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestMigrateAppliesPendingOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS move_schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM move_schema_migrations").WithArgs(names[0]).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS move_vehicles").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO move_schema_migrations").WithArgs(names[0]).
		WillReturnResult(sqlmock.NewResult(1, 1))
	for _, n := range names[1:] {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM move_schema_migrations").WithArgs(n).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	}

	applied, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, []string{names[0]}, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}
