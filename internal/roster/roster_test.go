// End-to-end coverage for the acceptance scenarios of spec.md §8, driving
// C3 (model builder) and C4 (solver driver) against hand-built snapshots
// so these scenarios run without a live Postgres instance.
package roster_test

import (
	"testing"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/internal/roster/modelbuilder"
	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
	"github.com/rosterforge/roster-engine/internal/roster/solver"
)

func day(i int) time.Time {
	return time.Date(2026, 2, 1+i, 0, 0, 0, 0, time.UTC)
}

// singleShiftSnapshot builds an n-day horizon with one shift ("early") per
// day, staffed by the given workers (all eligible for role "rn"), and a
// skill-mix rule requiring exactly rnCount RNs per day.
func singleShiftSnapshot(n, rnCount int, workers []domain.Worker) *snapshot.Snapshot {
	shiftID := "early"
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

	snap := &snapshot.Snapshot{
		StartDate:             dates[0],
		N:                     n,
		CurrentStart:          dates[0],
		CurrentEnd:            dates[n-1],
		Dates:                 dates,
		DateDayNum:            dateDayNum,
		Workers:               workers,
		WorkerNum:             workerNum,
		Shifts:                []domain.Shift{{ID: shiftID, ShiftType: "Early"}},
		ShiftNum:              map[string]int{shiftID: 0},
		TimeSlotsByDate:       timeSlotsByDate,
		TimeSlotIDByDateShift: timeSlotIDByDateShift,
		PreviousStaff:         map[string][]string{},
		Request:               make([]int32, len(workers)*n*1),
		SkillMixRules: map[string][]snapshot.SkillMixRule{
			shiftID: {{RuleID: "rule-1", RoleCounts: map[string]int{"rn": rnCount}}},
		},
		Sequences: map[string][]snapshot.Sequence{},
	}
	snap.SetLeaves(nil)
	return snap
}

func solve(t *testing.T, snap *snapshot.Snapshot) *solver.Result {
	t.Helper()
	m := modelbuilder.Build(snap)
	driver := solver.NewDriver(10, 1)
	result, err := driver.Solve(m)
	require.NoError(t, err)
	return result
}

// TestScenario_S2_InfeasibleUnderConflictingShiftsPerRoster mirrors S1's
// sibling infeasible case S2: two RNs with shifts_per_roster 10 and 9 over
// a 10-day horizon where every day's shift needs exactly 2 RNs, leaving no
// way for the second worker to sit out a single day.
func TestScenario_S2_InfeasibleUnderConflictingShiftsPerRoster(t *testing.T) {
	workers := []domain.Worker{
		{ID: "w1", RoleIDs: []string{"rn"}, EnforceShiftsPerRoster: true, ShiftsPerRoster: 10},
		{ID: "w2", RoleIDs: []string{"rn"}, EnforceShiftsPerRoster: true, ShiftsPerRoster: 9},
	}
	snap := singleShiftSnapshot(10, 2, workers)

	result := solve(t, snap)
	require.Equal(t, solver.OutcomeInfeasible, result.Outcome)
	require.Equal(t, cpmodel.CpSolverStatus_INFEASIBLE, result.Response.GetStatus())
}

// TestScenario_S3_InfeasibleWhenTargetExceedsHorizon mirrors S3: a
// shifts_per_roster target (11) that exceeds the number of days in the
// horizon (10) can never be met regardless of staffing.
func TestScenario_S3_InfeasibleWhenTargetExceedsHorizon(t *testing.T) {
	workers := []domain.Worker{
		{ID: "w1", RoleIDs: []string{"rn"}, EnforceShiftsPerRoster: true, ShiftsPerRoster: 10},
		{ID: "w2", RoleIDs: []string{"rn"}, EnforceShiftsPerRoster: true, ShiftsPerRoster: 11},
	}
	snap := singleShiftSnapshot(10, 2, workers)

	result := solve(t, snap)
	require.Equal(t, solver.OutcomeInfeasible, result.Outcome)
}

// TestScenario_S5_LeaveScalingTarget mirrors S5: a worker with
// shifts_per_roster=10 and 5 leave days on a 10-day horizon must be
// assigned exactly floor(0.5*10)=5 shifts, whether max_shifts is false or
// true (ceil equals floor for this input). The shift also carries a
// zero-RN rule so that days the only worker spends on leave stay feasible.
func TestScenario_S5_LeaveScalingTarget(t *testing.T) {
	for _, maxShifts := range []bool{false, true} {
		worker := domain.Worker{
			ID: "w1", RoleIDs: []string{"rn"},
			EnforceShiftsPerRoster: true, ShiftsPerRoster: 10, MaxShifts: maxShifts,
		}
		snap := singleShiftSnapshot(10, 1, []domain.Worker{worker})
		snap.SkillMixRules["early"] = append(snap.SkillMixRules["early"],
			snapshot.SkillMixRule{RuleID: "rule-off", RoleCounts: map[string]int{"rn": 0}})

		var leaves []domain.Leave
		for i := 0; i < 5; i++ {
			leaves = append(leaves, domain.Leave{WorkerID: worker.ID, Date: day(i), Description: "Annual Leave"})
		}
		snap.SetLeaves(leaves)

		m := modelbuilder.Build(snap)
		driver := solver.NewDriver(10, 1)
		result, err := driver.Solve(m)
		require.NoError(t, err)
		require.Equal(t, solver.OutcomeSuccess, result.Outcome)

		total := 0
		for i := 0; i < 10; i++ {
			key := snapshot.DateKey(day(i))
			tsID := snap.TimeSlotIDByDateShift[key]["early"]
			v, ok := m.PrimaryVar(modelbuilder.PrimaryKey{WorkerID: worker.ID, RoleID: "rn", TimeSlotID: tsID})
			require.True(t, ok)
			if cpmodel.SolutionBooleanValue(result.Response, v) {
				total++
			}
		}
		require.Equal(t, 5, total, "max_shifts=%v: floor and ceil both yield T=5 for this input", maxShifts)
	}
}
