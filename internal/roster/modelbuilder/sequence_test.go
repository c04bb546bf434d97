package modelbuilder

import (
	"testing"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/stretchr/testify/require"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
)

// noEarlyAfterLateSnapshot builds a one-current-day snapshot preceded by
// one previous day, mirroring S1's "no Early after Late" sequence: a
// worker who worked Late on the previous day must not be assigned Early
// on the current day. workerWithHistory is recorded as having worked
// Late on the previous day and carries the sequence; the other workers
// are unconstrained by it.
func noEarlyAfterLateSnapshot(workerWithHistory string, workers []domain.Worker) *snapshot.Snapshot {
	lateID, earlyID := "late", "early"
	prevDay := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	curDay := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	prevKey, curKey := snapshot.DateKey(prevDay), snapshot.DateKey(curDay)

	workerNum := make(map[string]int, len(workers))
	for i, w := range workers {
		workerNum[w.ID] = i
	}

	seq := snapshot.Sequence{
		SequenceID: "no-early-after-late",
		DayNumbers: map[int]bool{1: true},
		Positions: []snapshot.SequenceStep{
			{Position: 1, ShiftID: &lateID},
			{Position: 2, ShiftID: &earlyID},
		},
	}

	return &snapshot.Snapshot{
		N:             1,
		CurrentStart:  curDay,
		CurrentEnd:    curDay,
		PreviousStart: prevDay,
		PreviousEnd:   prevDay,
		ExtendedStart: prevDay,
		ExtendedEnd:   curDay,
		Dates:         []time.Time{curDay},
		DateDayNum:    map[string]int{curKey: 1},
		Workers:       workers,
		WorkerNum:     workerNum,
		Shifts: []domain.Shift{
			{ID: lateID, ShiftType: "Late"},
			{ID: earlyID, ShiftType: "Early"},
		},
		ShiftNum: map[string]int{lateID: 0, earlyID: 1},
		TimeSlotsByDate: map[string][]domain.TimeSlot{
			curKey: {{ID: "cur-early", Date: curDay, ShiftID: earlyID}},
		},
		TimeSlotIDByDateShift: map[string]map[string]string{
			prevKey: {lateID: "prev-late"},
			curKey:  {earlyID: "cur-early"},
		},
		PreviousStaff: map[string][]string{"prev-late": {workerWithHistory}},
		Request:       make([]int32, len(workers)*1*2),
		SkillMixRules: map[string][]snapshot.SkillMixRule{
			earlyID: {{RuleID: "rule-early", RoleCounts: map[string]int{"r1": 1}}},
		},
		Sequences: map[string][]snapshot.Sequence{workerWithHistory: {seq}},
	}
}

func TestAddShiftSequences_ForbidsEarlyAfterLate_SolverPicksAlternateWorker(t *testing.T) {
	workers := []domain.Worker{
		{ID: "w1", RoleIDs: []string{"r1"}},
		{ID: "w2", RoleIDs: []string{"r1"}},
	}
	snap := noEarlyAfterLateSnapshot("w1", workers)

	m, resp := solve(t, snap)
	require.Equal(t, cpmodel.CpSolverStatus_OPTIMAL, resp.GetStatus())

	w1Early, ok := m.PrimaryVar(PrimaryKey{WorkerID: "w1", RoleID: "r1", TimeSlotID: "cur-early"})
	require.True(t, ok)
	w2Early, ok := m.PrimaryVar(PrimaryKey{WorkerID: "w2", RoleID: "r1", TimeSlotID: "cur-early"})
	require.True(t, ok)

	require.False(t, cpmodel.SolutionBooleanValue(resp, w1Early),
		"w1 worked Late the previous day; the forbidden pattern must keep them off Early today")
	require.True(t, cpmodel.SolutionBooleanValue(resp, w2Early),
		"the skill-mix rule still needs exactly one Early worker, so it must fall to w2")
}

func TestAddShiftSequences_ForbidsEarlyAfterLate_InfeasibleWithNoAlternate(t *testing.T) {
	workers := []domain.Worker{{ID: "w1", RoleIDs: []string{"r1"}}}
	snap := noEarlyAfterLateSnapshot("w1", workers)

	_, resp := solve(t, snap)
	require.Equal(t, cpmodel.CpSolverStatus_INFEASIBLE, resp.GetStatus(),
		"w1 is the only eligible worker and is forbidden from Early after working Late, "+
			"but the skill-mix rule still requires exactly one Early worker")
}
