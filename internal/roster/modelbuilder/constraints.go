package modelbuilder

import (
	"math"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
)

// addLeaveExclusion implements §4.2.1: a worker on leave that date cannot
// be assigned under any role to any timeslot on that date.
func (m *Model) addLeaveExclusion() {
	for _, leave := range m.Snap.Leaves {
		dateStr := snapshot.DateKey(leave.Date)
		for _, ts := range m.Snap.TimeSlotsByDate[dateStr] {
			for _, roleID := range workerRoles(m.Snap, leave.WorkerID) {
				key := PrimaryKey{WorkerID: leave.WorkerID, RoleID: roleID, TimeSlotID: ts.ID}
				if v, ok := m.primary[key]; ok {
					m.Builder.AddEquality(v, cpmodel.NewConstant(0))
				}
			}
		}
	}
}

// addOneShiftPerDay implements §4.2.2 for every worker with the policy
// enabled.
func (m *Model) addOneShiftPerDay() {
	for _, worker := range m.Snap.Workers {
		if !worker.EnforceOneShiftPerDay {
			continue
		}
		for _, dateStr := range datesAsKeys(m.Snap) {
			vars := m.byWorkerDate[worker.ID][dateStr]
			if len(vars) == 0 {
				continue
			}
			m.Builder.AddAtMostOne(vars...)
		}
	}
}

// addSkillMixSelection implements §4.2.3: exactly one rule is active per
// current timeslot that has at least one rule.
func (m *Model) addSkillMixSelection() {
	for _, dateStr := range datesAsKeys(m.Snap) {
		for _, ts := range m.Snap.TimeSlotsByDate[dateStr] {
			rules := m.Snap.SkillMixRules[ts.ShiftID]
			if len(rules) == 0 {
				continue
			}
			var lits []cpmodel.BoolVar
			for j := range rules {
				lits = append(lits, m.skillMix[skillMixKey{TimeSlotID: ts.ID, RuleIndex: j}])
			}
			m.Builder.AddExactlyOne(lits...)
		}
	}
}

// addSkillMixEnforcement implements §4.2.4: when rule j is selected for
// timeslot t, the count of workers of each role assigned to t must equal
// that rule's target count for the role (0 for roles the rule omits).
func (m *Model) addSkillMixEnforcement() {
	for _, dateStr := range datesAsKeys(m.Snap) {
		for _, ts := range m.Snap.TimeSlotsByDate[dateStr] {
			rules := m.Snap.SkillMixRules[ts.ShiftID]
			for j, rule := range rules {
				k := m.skillMix[skillMixKey{TimeSlotID: ts.ID, RuleIndex: j}]
				for roleID, count := range rule.RoleCounts {
					expr := cpmodel.NewLinearExpr()
					for _, v := range m.byTimeSlotRole[ts.ID][roleID] {
						expr.Add(v)
					}
					m.Builder.AddEquality(expr, cpmodel.NewConstant(int64(count))).OnlyEnforceIf(k)
				}
				// rule.RoleCounts holds only the roles the rule lists; every
				// other role with variables on this timeslot gets c=0.
				for roleID, vars := range m.byTimeSlotRole[ts.ID] {
					if _, listed := rule.RoleCounts[roleID]; listed {
						continue
					}
					expr := cpmodel.NewLinearExpr()
					for _, v := range vars {
						expr.Add(v)
					}
					m.Builder.AddEquality(expr, cpmodel.NewConstant(0)).OnlyEnforceIf(k)
				}
			}
		}
	}
}

// addStaffingBounds implements §4.2.8: total staff on a timeslot is
// bounded by the smallest and largest rule size of its shift (0,0 when
// the shift has no rules).
func (m *Model) addStaffingBounds() {
	for _, dateStr := range datesAsKeys(m.Snap) {
		for _, ts := range m.Snap.TimeSlotsByDate[dateStr] {
			rules := m.Snap.SkillMixRules[ts.ShiftID]
			min, max := 0, 0
			for i, rule := range rules {
				total := rule.TotalCount()
				if i == 0 || total < min {
					min = total
				}
				if total > max {
					max = total
				}
			}
			vars := m.byTimeSlot[ts.ID]
			if len(vars) == 0 {
				continue
			}
			expr := cpmodel.NewLinearExpr()
			for _, v := range vars {
				expr.Add(v)
			}
			m.Builder.AddGreaterOrEqual(expr, cpmodel.NewConstant(int64(min)))
			m.Builder.AddLessOrEqual(expr, cpmodel.NewConstant(int64(max)))
		}
	}
}

// shiftsPerRosterTarget computes T per §4.2.6.
func shiftsPerRosterTarget(leaveDays, shiftsPerRoster, n int, maxShifts bool) int {
	frac := 1.0 - float64(leaveDays)/float64(n)
	raw := frac * float64(shiftsPerRoster)
	if maxShifts {
		return int(math.Ceil(raw))
	}
	return int(math.Floor(raw))
}

// addShiftsPerRoster implements §4.2.6 for every worker with the policy
// enabled, and returns each worker's target so §4.2.7 can reuse it.
func (m *Model) addShiftsPerRoster() map[string]int {
	targets := make(map[string]int)
	for _, worker := range m.Snap.Workers {
		if !worker.EnforceShiftsPerRoster {
			continue
		}
		leaveDays := countLeaveDays(m.Snap, worker.ID)
		target := shiftsPerRosterTarget(leaveDays, worker.ShiftsPerRoster, m.Snap.N, worker.MaxShifts)
		targets[worker.ID] = target

		expr := cpmodel.NewLinearExpr()
		for _, dateStr := range datesAsKeys(m.Snap) {
			for _, v := range m.byWorkerDate[worker.ID][dateStr] {
				expr.Add(v)
			}
		}
		m.Builder.AddEquality(expr, cpmodel.NewConstant(int64(target)))
	}
	return targets
}

// addBalancedHalves implements §4.2.7: for every enforced worker, the
// first half of non-leave horizon dates sums to T/2 (integer division).
func (m *Model) addBalancedHalves(targets map[string]int) {
	for _, worker := range m.Snap.Workers {
		target, ok := targets[worker.ID]
		if !ok {
			continue
		}

		var workingDates []string
		for _, d := range m.Snap.Dates {
			if _, onLeave := m.Snap.LeaveDescription(worker.ID, d); onLeave {
				continue
			}
			workingDates = append(workingDates, snapshot.DateKey(d))
		}
		if len(workingDates) == 0 {
			continue
		}
		// integer division already yields the smaller half on odd counts
		firstHalf := workingDates[:len(workingDates)/2]

		expr := cpmodel.NewLinearExpr()
		for _, dateStr := range firstHalf {
			for _, v := range m.byWorkerDate[worker.ID][dateStr] {
				expr.Add(v)
			}
		}
		m.Builder.AddEquality(expr, cpmodel.NewConstant(int64(target/2)))
	}
}

// addObjective implements §4.2.9: maximise the signed-preference sum over
// every primary variable.
func (m *Model) addObjective() {
	expr := cpmodel.NewLinearExpr()
	for key, v := range m.primary {
		workerNum, ok := m.Snap.WorkerNum[key.WorkerID]
		if !ok {
			continue
		}
		date, shiftID := m.timeSlotDateShift(key.TimeSlotID)
		dayNum, ok := m.Snap.DayNumOf(date)
		if !ok {
			continue
		}
		shiftNum, ok := m.Snap.ShiftNum[shiftID]
		if !ok {
			continue
		}
		weight := m.Snap.RequestAt(workerNum, dayNum-1, shiftNum)
		if weight != 0 {
			expr.AddTerm(v, int64(weight))
		}
	}
	m.Builder.Maximize(expr)
}

// timeSlotDateShift is a reverse lookup populated while indexing primary
// vars, used by the objective to recover (date, shift) from a timeslot id.
func (m *Model) timeSlotDateShift(timeSlotID string) (time.Time, string) {
	return m.timeSlotDate[timeSlotID], m.timeSlotShift[timeSlotID]
}

func workerRoles(snap *snapshot.Snapshot, workerID string) []string {
	for _, w := range snap.Workers {
		if w.ID == workerID {
			return w.RoleIDs
		}
	}
	return nil
}

func countLeaveDays(snap *snapshot.Snapshot, workerID string) int {
	count := 0
	for _, d := range snap.Dates {
		if _, onLeave := snap.LeaveDescription(workerID, d); onLeave {
			count++
		}
	}
	return count
}
