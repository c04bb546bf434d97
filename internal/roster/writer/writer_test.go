package writer

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/internal/roster/modelbuilder"
	"github.com/rosterforge/roster-engine/internal/roster/repository"
	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
	"github.com/rosterforge/roster-engine/internal/roster/solver"
	"github.com/rosterforge/roster-engine/pkg/database"
	"github.com/rosterforge/roster-engine/pkg/testutil"
)

// singleAssignmentModel builds and solves a one-worker, one-timeslot
// model whose skill-mix rule forces the worker to be assigned, giving a
// deterministic single assignment link to commit.
func singleAssignmentModel(t *testing.T) *modelbuilder.Model {
	t.Helper()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	dateKey := snapshot.DateKey(date)
	shiftID, timeSlotID := "shift-1", dateKey+"-shift-1"

	snap := &snapshot.Snapshot{
		N:                     1,
		CurrentStart:          date,
		CurrentEnd:            date,
		Dates:                 []time.Time{date},
		DateDayNum:            map[string]int{dateKey: 1},
		Workers:               []domain.Worker{{ID: "w1", RoleIDs: []string{"r1"}}},
		WorkerNum:             map[string]int{"w1": 0},
		Shifts:                []domain.Shift{{ID: shiftID, ShiftType: "Day"}},
		ShiftNum:              map[string]int{shiftID: 0},
		TimeSlotsByDate:       map[string][]domain.TimeSlot{dateKey: {{ID: timeSlotID, Date: date, ShiftID: shiftID}}},
		TimeSlotIDByDateShift: map[string]map[string]string{dateKey: {shiftID: timeSlotID}},
		PreviousStaff:         map[string][]string{},
		Request:               make([]int32, 1),
		SkillMixRules: map[string][]snapshot.SkillMixRule{
			shiftID: {{RuleID: "rule-1", RoleCounts: map[string]int{"r1": 1}}},
		},
		Sequences: map[string][]snapshot.Sequence{},
	}

	return modelbuilder.Build(snap)
}

func TestCommit_InsertsSolvedAssignmentsAndCountsDistinctLinks(t *testing.T) {
	model := singleAssignmentModel(t)
	driver := solver.NewDriver(10, 1)
	result, err := driver.Solve(model)
	require.NoError(t, err)

	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	db := &database.DB{DB: mockDB.DB}
	timeslots := repository.NewTimeSlotRepository(db)
	w := NewWriter(db, timeslots)

	mockDB.ExpectBegin()
	mockDB.ExpectExec(`INSERT INTO timeslot_assignments (timeslot_id, worker_id) VALUES ($1, $2)
		ON CONFLICT (timeslot_id, worker_id) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectCommit()

	count, err := w.Commit(context.Background(), model, result.Response)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	mockDB.ExpectationsWereMet(t)
}
