package modelbuilder

import (
	"testing"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
	"github.com/rosterforge/roster-engine/internal/roster/solver"
)

func day(i int) time.Time {
	return time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
}

func solve(t *testing.T, snap *snapshot.Snapshot) (*Model, *cpmodel.CpSolverResponse) {
	t.Helper()
	m := Build(snap)

	driver := solver.NewDriver(10, 1)
	result, err := driver.Solve(m)
	require.NoError(t, err)
	return m, result.Response
}

// newSnapshot builds a minimal self-consistent snapshot for n days with a
// single shift per day and the given workers, all eligible for roleID.
func newSnapshot(n int, roleID string, workers []domain.Worker) *snapshot.Snapshot {
	shiftID := "shift-1"
	dates := make([]time.Time, n)
	dateDayNum := make(map[string]int, n)
	timeSlotsByDate := make(map[string][]domain.TimeSlot)
	timeSlotIDByDateShift := make(map[string]map[string]string)

	for i := 0; i < n; i++ {
		d := day(i)
		dates[i] = d
		key := snapshot.DateKey(d)
		dateDayNum[key] = i + 1
		tsID := key + "-" + shiftID
		timeSlotsByDate[key] = []domain.TimeSlot{{ID: tsID, Date: d, ShiftID: shiftID}}
		timeSlotIDByDateShift[key] = map[string]string{shiftID: tsID}
	}

	workerNum := make(map[string]int, len(workers))
	for i, w := range workers {
		workerNum[w.ID] = i
	}

	return &snapshot.Snapshot{
		StartDate:             dates[0],
		N:                     n,
		CurrentStart:          dates[0],
		CurrentEnd:            dates[n-1],
		Dates:                 dates,
		DateDayNum:            dateDayNum,
		Workers:               workers,
		WorkerNum:             workerNum,
		Shifts:                []domain.Shift{{ID: shiftID, ShiftType: "Day"}},
		ShiftNum:              map[string]int{shiftID: 0},
		TimeSlotsByDate:       timeSlotsByDate,
		TimeSlotIDByDateShift: timeSlotIDByDateShift,
		PreviousStaff:         map[string][]string{},
		Request:               make([]int32, len(workers)*n*1),
		SkillMixRules:         map[string][]snapshot.SkillMixRule{},
		Sequences:             map[string][]snapshot.Sequence{},
	}
}

func TestBuild_NoRulesSolvesWithoutConstraints(t *testing.T) {
	workers := []domain.Worker{{ID: "w1", RoleIDs: []string{"r1"}}}
	snap := newSnapshot(2, "r1", workers)

	_, resp := solve(t, snap)
	status := resp.GetStatus()
	require.Contains(t, []cpmodel.CpSolverStatus{cpmodel.CpSolverStatus_OPTIMAL, cpmodel.CpSolverStatus_FEASIBLE}, status)
}

func TestBuild_SkillMixForcesAssignment(t *testing.T) {
	workers := []domain.Worker{{ID: "w1", RoleIDs: []string{"r1"}}}
	snap := newSnapshot(1, "r1", workers)

	shiftID := "shift-1"
	snap.SkillMixRules[shiftID] = []snapshot.SkillMixRule{
		{RuleID: "rule-1", RoleCounts: map[string]int{"r1": 1}},
	}

	m, resp := solve(t, snap)
	require.Equal(t, cpmodel.CpSolverStatus_OPTIMAL, resp.GetStatus())

	key := PrimaryKey{WorkerID: "w1", RoleID: "r1", TimeSlotID: snapshot.DateKey(day(0)) + "-" + shiftID}
	v, ok := m.PrimaryVar(key)
	require.True(t, ok)
	require.True(t, cpmodel.SolutionBooleanValue(resp, v), "the only eligible worker must be assigned to satisfy the rule's required count")
}

func TestBuild_OneShiftPerDayExcludesSecondRole(t *testing.T) {
	workers := []domain.Worker{{ID: "w1", RoleIDs: []string{"r1", "r2"}, EnforceOneShiftPerDay: true}}
	snap := newSnapshot(1, "r1", workers)

	shiftID := "shift-1"
	snap.SkillMixRules[shiftID] = []snapshot.SkillMixRule{
		{RuleID: "rule-1", RoleCounts: map[string]int{"r1": 1, "r2": 1}},
	}

	_, resp := solve(t, snap)
	require.Equal(t, cpmodel.CpSolverStatus_INFEASIBLE, resp.GetStatus(),
		"a single worker cannot fill two roles on one day when restricted to one shift per day")
}
