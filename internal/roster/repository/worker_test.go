package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/pkg/database"
	"github.com/rosterforge/roster-engine/pkg/testutil"
)

func TestListAvailable_PopulatesRoleIDsFromJoinTable(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewWorkerRepository(&database.DB{DB: mockDB.DB})

	workerRows := testutil.MockRows("id", "first_name", "last_name", "available", "shifts_per_roster",
		"max_shifts", "enforce_shifts_per_roster", "enforce_one_shift_per_day").
		AddRow("w1", "Ada", "Lovelace", true, 5, false, true, false).
		AddRow("w2", "Bob", "Stone", true, 4, false, true, false)
	mockDB.ExpectQuery(`
		SELECT id, first_name, last_name, available, shifts_per_roster,
		       max_shifts, enforce_shifts_per_roster, enforce_one_shift_per_day
		FROM workers
		WHERE available = true
		ORDER BY created_at, id`).
		WillReturnRows(workerRows)

	roleRows := testutil.MockRows("worker_id", "role_id").
		AddRow("w1", "r1").
		AddRow("w1", "r2").
		AddRow("w2", "r2")
	mockDB.ExpectQuery(`SELECT worker_id, role_id FROM worker_roles`).
		WillReturnRows(roleRows)

	workers, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, workers, 2)

	require.Equal(t, "w1", workers[0].ID)
	require.Equal(t, []string{"r1", "r2"}, workers[0].RoleIDs)
	require.Equal(t, "w2", workers[1].ID)
	require.Equal(t, []string{"r2"}, workers[1].RoleIDs)

	mockDB.ExpectationsWereMet(t)
}

func TestListAvailable_NoWorkersReturnsEmpty(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewWorkerRepository(&database.DB{DB: mockDB.DB})

	workerRows := testutil.MockRows("id", "first_name", "last_name", "available", "shifts_per_roster",
		"max_shifts", "enforce_shifts_per_roster", "enforce_one_shift_per_day")
	mockDB.ExpectQuery(`
		SELECT id, first_name, last_name, available, shifts_per_roster,
		       max_shifts, enforce_shifts_per_roster, enforce_one_shift_per_day
		FROM workers
		WHERE available = true
		ORDER BY created_at, id`).
		WillReturnRows(workerRows)

	mockDB.ExpectQuery(`SELECT worker_id, role_id FROM worker_roles`).
		WillReturnRows(testutil.MockRows("worker_id", "role_id"))

	workers, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Empty(t, workers)
}
