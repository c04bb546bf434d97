package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/pkg/database"
	"github.com/rosterforge/roster-engine/pkg/testutil"
)

func TestBulkInsertAssignments_InsertsOnePerLink(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewTimeSlotRepository(&database.DB{DB: mockDB.DB})

	query := `INSERT INTO timeslot_assignments (timeslot_id, worker_id) VALUES ($1, $2)
		ON CONFLICT (timeslot_id, worker_id) DO NOTHING`
	mockDB.ExpectExec(query).WithArgs("t1", "w1").WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(query).WithArgs("t1", "w2").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.BulkInsertAssignments(context.Background(), []AssignmentLink{
		{TimeSlotID: "t1", WorkerID: "w1"},
		{TimeSlotID: "t1", WorkerID: "w2"},
	})
	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestBulkInsertAssignments_Empty(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewTimeSlotRepository(&database.DB{DB: mockDB.DB})

	err := repo.BulkInsertAssignments(context.Background(), nil)
	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestStaffByTimeSlot_GroupsWorkersByTimeSlot(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewTimeSlotRepository(&database.DB{DB: mockDB.DB})

	rows := testutil.MockRows("timeslot_id", "worker_id").
		AddRow("t1", "w1").
		AddRow("t1", "w2").
		AddRow("t2", "w3")
	mockDB.ExpectQuery(`
		SELECT timeslot_id, worker_id
		FROM timeslot_assignments
		WHERE timeslot_id IN ($1, $2)`).
		WithArgs("t1", "t2").
		WillReturnRows(rows)

	got, err := repo.StaffByTimeSlot(context.Background(), []string{"t1", "t2"})
	require.NoError(t, err)
	require.Equal(t, map[string][]string{
		"t1": {"w1", "w2"},
		"t2": {"w3"},
	}, got)
}

func TestStaffByTimeSlot_EmptyIDsSkipsQuery(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewTimeSlotRepository(&database.DB{DB: mockDB.DB})

	got, err := repo.StaffByTimeSlot(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
	mockDB.ExpectationsWereMet(t)
}

func TestListInRange_OrdersByDateThenShiftType(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewTimeSlotRepository(&database.DB{DB: mockDB.DB})

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)

	rows := testutil.MockRows("id", "date", "shift_id").
		AddRow("ts1", start, "shift-1")
	mockDB.ExpectQuery(`
		SELECT t.id, t.date, t.shift_id
		FROM timeslots t
		JOIN shifts s ON s.id = t.shift_id
		WHERE t.date BETWEEN $1 AND $2
		ORDER BY t.date, s.shift_type, t.id`).
		WithArgs(start, end).
		WillReturnRows(rows)

	slots, err := repo.ListInRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, "ts1", slots[0].ID)
}
