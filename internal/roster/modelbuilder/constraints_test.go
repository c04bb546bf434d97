package modelbuilder

import (
	"testing"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
)

var feasibleStatuses = []cpmodel.CpSolverStatus{cpmodel.CpSolverStatus_OPTIMAL, cpmodel.CpSolverStatus_FEASIBLE}

func TestShiftsPerRosterTarget(t *testing.T) {
	cases := []struct {
		name            string
		leaveDays       int
		shiftsPerRoster int
		n               int
		maxShifts       bool
		want            int
	}{
		// S5: shifts_per_roster=10, 5 leave days on N=10 -> floor(0.5*10)=5.
		{"S5 floor", 5, 10, 10, false, 5},
		// S5: the same inputs with max_shifts=true -> ceil(0.5*10)=5, equal to floor here.
		{"S5 ceil equals floor", 5, 10, 10, true, 5},
		// A fractional raw value where floor and ceil genuinely differ:
		// frac=0.7, raw=4.9.
		{"floor rounds down", 3, 7, 10, false, 4},
		{"ceil rounds up", 3, 7, 10, true, 5},
		// Every horizon day on leave collapses the target to zero either way.
		{"all days on leave floors to zero", 10, 8, 10, false, 0},
		{"all days on leave ceils to zero", 10, 8, 10, true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := shiftsPerRosterTarget(tc.leaveDays, tc.shiftsPerRoster, tc.n, tc.maxShifts)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAddShiftsPerRosterAndBalancedHalves(t *testing.T) {
	workers := []domain.Worker{
		{
			ID:                     "w1",
			RoleIDs:                []string{"r1"},
			EnforceShiftsPerRoster: true,
			ShiftsPerRoster:        2,
			MaxShifts:              false,
		},
	}
	snap := newSnapshot(4, "r1", workers)
	// A shift with no skill-mix rules is bounded to 0..0 staff, so give the
	// shift an empty rule and a one-RN rule to let each day be off or on.
	snap.SkillMixRules["shift-1"] = []snapshot.SkillMixRule{
		{RuleID: "rule-off", RoleCounts: map[string]int{"r1": 0}},
		{RuleID: "rule-on", RoleCounts: map[string]int{"r1": 1}},
	}

	m, resp := solve(t, snap)
	require.Contains(t, feasibleStatuses, resp.GetStatus())

	total := 0
	firstHalf := 0
	for i, d := range snap.Dates {
		tsID := snap.TimeSlotIDByDateShift[snapshot.DateKey(d)]["shift-1"]
		v, ok := m.PrimaryVar(PrimaryKey{WorkerID: "w1", RoleID: "r1", TimeSlotID: tsID})
		require.True(t, ok)
		if cpmodel.SolutionBooleanValue(resp, v) {
			total++
			if i < 2 {
				firstHalf++
			}
		}
	}

	require.Equal(t, 2, total, "shifts_per_roster target (floor(1.0*2)=2) must hold exactly")
	require.Equal(t, 1, firstHalf, "the first half of the horizon must carry target/2=1 shifts")
}

func TestAddStaffingBounds_TotalStaysWithinRuleSizeRange(t *testing.T) {
	workers := []domain.Worker{
		{ID: "w1", RoleIDs: []string{"r1"}},
		{ID: "w2", RoleIDs: []string{"r1"}},
	}
	snap := newSnapshot(1, "r1", workers)
	snap.SkillMixRules["shift-1"] = []snapshot.SkillMixRule{
		{RuleID: "rule-small", RoleCounts: map[string]int{"r1": 1}},
		{RuleID: "rule-large", RoleCounts: map[string]int{"r1": 2}},
	}

	m, resp := solve(t, snap)
	require.Contains(t, feasibleStatuses, resp.GetStatus())

	tsID := snap.TimeSlotIDByDateShift[snapshot.DateKey(snap.Dates[0])]["shift-1"]
	total := 0
	for _, w := range workers {
		v, ok := m.PrimaryVar(PrimaryKey{WorkerID: w.ID, RoleID: "r1", TimeSlotID: tsID})
		require.True(t, ok)
		if cpmodel.SolutionBooleanValue(resp, v) {
			total++
		}
	}

	require.GreaterOrEqual(t, total, 1, "staffing bounds: total must be >= the smallest rule's size")
	require.LessOrEqual(t, total, 2, "staffing bounds: total must be <= the largest rule's size")
}
