package modelbuilder

import (
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
)

// addShiftSequences implements §4.2.5: for each worker, each applicable
// sequence, and each anchor date across the extended range, at least one
// position of the forbidden pattern must fail to hold.
//
// Per the design note on sequence formulation, a position is represented
// by an intermediate m[w,d0,q,p] variable rather than encoding the
// pattern as a single big-disjunction constraint: this keeps each
// position's guard independently inspectable and lets positions outside
// a sequence's day set, or with no matching timeslot, be dropped
// individually instead of forcing the whole anchor to be skipped.
func (m *Model) addShiftSequences() {
	extendedDates := extendedRangeDates(m.Snap)

	for _, worker := range m.Snap.Workers {
		for _, seq := range m.Snap.Sequences[worker.ID] {
			for _, d0 := range extendedDates {
				m.addSequenceAnchor(worker.ID, seq, d0)
			}
		}
	}
}

func (m *Model) addSequenceAnchor(workerID string, seq snapshot.Sequence, d0 time.Time) {
	var failVars []cpmodel.BoolVar

	for _, step := range seq.Positions {
		date := d0.AddDate(0, 0, step.Position-1)
		dayNum := cyclicDayNum(m.Snap, date)
		if !seq.DayNumbers[dayNum] {
			continue // outside the sequence's applicable day set: skip entirely
		}

		if step.ShiftID != nil {
			if v, ok := m.workingTerm(workerID, date, *step.ShiftID); ok {
				fail := m.sequenceFailVar(workerID, snapshot.DateKey(d0), seq.SequenceID, step.Position)
				m.Builder.AddEquality(v, cpmodel.NewConstant(0)).OnlyEnforceIf(fail)
				failVars = append(failVars, fail)
			}
			continue
		}

		if v, ok := m.offTerm(workerID, date); ok {
			fail := m.sequenceFailVar(workerID, snapshot.DateKey(d0), seq.SequenceID, step.Position)
			m.Builder.AddGreaterOrEqual(v, cpmodel.NewConstant(1)).OnlyEnforceIf(fail)
			failVars = append(failVars, fail)
		}
	}

	if len(failVars) == 0 {
		return // every position was vacuous for this anchor: nothing to forbid
	}
	m.Builder.AddBoolOr(failVars...)
}

// workingTerm returns the ON[p] sum for (worker, date, shift): a sum of
// live variables in the current range, or the fixed previous-period
// value, and false if no timeslot for that shift exists on date.
func (m *Model) workingTerm(workerID string, date time.Time, shiftID string) (cpmodel.LinearArgument, bool) {
	dateKey := snapshot.DateKey(date)
	if isWithin(date, m.Snap.CurrentStart, m.Snap.CurrentEnd) {
		vars := m.byWorkerDateShift[workerID][dateKey][shiftID]
		if len(vars) == 0 {
			return nil, false
		}
		expr := cpmodel.NewLinearExpr()
		for _, v := range vars {
			expr.Add(v)
		}
		return expr, true
	}

	timeSlotID, ok := m.Snap.TimeSlotIDOn(date, shiftID)
	if !ok {
		return nil, false
	}
	return cpmodel.NewConstant(boolToInt64(contains(m.Snap.PreviousStaff[timeSlotID], workerID))), true
}

// offTerm returns the OFF[p] sum for (worker, date): a sum across every
// timeslot on that date, live or fixed depending on range.
func (m *Model) offTerm(workerID string, date time.Time) (cpmodel.LinearArgument, bool) {
	dateKey := snapshot.DateKey(date)
	if isWithin(date, m.Snap.CurrentStart, m.Snap.CurrentEnd) {
		vars := m.byWorkerDate[workerID][dateKey]
		if len(vars) == 0 {
			return nil, false
		}
		expr := cpmodel.NewLinearExpr()
		for _, v := range vars {
			expr.Add(v)
		}
		return expr, true
	}

	slots := m.Snap.TimeSlotsOn(date)
	if len(slots) == 0 {
		return nil, false
	}
	worked := false
	for _, ts := range slots {
		if contains(m.Snap.PreviousStaff[ts.ID], workerID) {
			worked = true
			break
		}
	}
	return cpmodel.NewConstant(boolToInt64(worked)), true
}

// cyclicDayNum maps any date in the extended range onto a 1..N day
// number by folding it into the horizon window, per §4.2.5.
func cyclicDayNum(snap *snapshot.Snapshot, date time.Time) int {
	delta := int(date.Sub(snap.CurrentStart).Hours() / 24)
	n := snap.N
	return ((delta % n) + n) % n + 1
}

// extendedRangeDates returns every date from PreviousStart to CurrentEnd,
// inclusive, the set of valid sequence anchors.
func extendedRangeDates(snap *snapshot.Snapshot) []time.Time {
	var dates []time.Time
	for d := snap.ExtendedStart; !d.After(snap.ExtendedEnd); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func isWithin(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

func contains(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
