package modelbuilder

import "github.com/rosterforge/roster-engine/internal/roster/snapshot"

// Build emits the complete CP-SAT model for snap: every primary and
// intermediate variable, every constraint group of §4.2, and the
// objective. The returned Model is read-only from the caller's
// perspective except via CpModel/Primary, which the solver driver and
// writer use to run and interpret the solve.
func Build(snap *snapshot.Snapshot) *Model {
	m := newModel(snap)

	m.indexTimeSlots()
	m.createPrimaryVars()
	m.createSkillMixVars()

	m.addLeaveExclusion()
	m.addOneShiftPerDay()
	m.addSkillMixSelection()
	m.addSkillMixEnforcement()
	m.addShiftSequences()
	targets := m.addShiftsPerRoster()
	m.addBalancedHalves(targets)
	m.addStaffingBounds()
	m.addObjective()

	return m
}
