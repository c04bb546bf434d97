package reader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
)

func d(i int) time.Time {
	return time.Date(2026, 2, 1+i, 0, 0, 0, 0, time.UTC)
}

func TestBuildRows_LabelsAssignmentsLeaveAndGap(t *testing.T) {
	workers := []domain.Worker{
		{ID: "w1", FirstName: "Ada", LastName: "Lovelace", ShiftsPerRoster: 5, RoleIDs: []string{"r1"}},
		{ID: "w2", FirstName: "Bob", LastName: "Stone", ShiftsPerRoster: 4, RoleIDs: []string{"r2"}},
	}
	roleNames := map[string]string{"r1": "RN", "r2": "JRN"}
	shiftTypes := map[string]string{"s1": "Day", "s2": "Night"}

	dates := []time.Time{d(0), d(1), d(2)}

	slots := []domain.TimeSlot{
		{ID: "t1", Date: d(0), ShiftID: "s1"},
		{ID: "t2", Date: d(2), ShiftID: "s2"},
	}
	staffByTimeSlot := map[string][]string{
		"t1": {"w1"},
		"t2": {"w1", "w2"},
	}
	leaves := []domain.Leave{
		{WorkerID: "w2", Date: d(1), Description: "Annual leave"},
	}

	rows := buildRows(workers, roleNames, shiftTypes, slots, staffByTimeSlot, leaves, dates)
	require.Len(t, rows, 2)

	// sorted by (role, display name): JRN < RN, so Bob Stone first.
	assert.Equal(t, "Stone, Bob", rows[0].DisplayName)
	assert.Equal(t, "JRN ", rows[0].Roles)
	assert.Equal(t, []string{"X", "Annual leave", "Night"}, rows[0].Labels)

	assert.Equal(t, "Lovelace, Ada", rows[1].DisplayName)
	assert.Equal(t, "RN ", rows[1].Roles)
	assert.Equal(t, []string{"Day", "X", "Night"}, rows[1].Labels)
}

func TestBuildRows_MultipleShiftsOnOneDayJoined(t *testing.T) {
	workers := []domain.Worker{{ID: "w1", FirstName: "Ada", LastName: "Lovelace", RoleIDs: nil}}
	shiftTypes := map[string]string{"s1": "Day", "s2": "Night"}
	dates := []time.Time{d(0)}
	slots := []domain.TimeSlot{
		{ID: "t1", Date: d(0), ShiftID: "s1"},
		{ID: "t2", Date: d(0), ShiftID: "s2"},
	}
	staffByTimeSlot := map[string][]string{"t1": {"w1"}, "t2": {"w1"}}

	rows := buildRows(workers, map[string]string{}, shiftTypes, slots, staffByTimeSlot, nil, dates)
	require.Len(t, rows, 1)
	assert.Equal(t, "Day, Night", rows[0].Labels[0])
	assert.Equal(t, " ", rows[0].Roles)
}
