// Package modelbuilder emits the CP-SAT boolean model for one generation
// run from a loaded snapshot.
package modelbuilder

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
)

// PrimaryKey identifies one primary decision variable x[w,r,d,t]. The day
// is implied by TimeSlotID, which always names a timeslot in the current
// range.
type PrimaryKey struct {
	WorkerID   string
	RoleID     string
	TimeSlotID string
}

// skillMixKey identifies one intermediate rule-selection variable k[t,j].
type skillMixKey struct {
	TimeSlotID string
	RuleIndex  int
}

// sequenceFailKey identifies one intermediate pattern-failure variable
// m[w,d0,q,p].
type sequenceFailKey struct {
	WorkerID     string
	AnchorDate   string
	SequenceID   string
	Position     int
}

// Model holds the CP-SAT builder plus every variable needed by the
// solver driver and the writer to read back a solution.
type Model struct {
	Builder *cpmodel.CpModelBuilder
	Snap    *snapshot.Snapshot

	primary  map[PrimaryKey]cpmodel.BoolVar
	skillMix map[skillMixKey]cpmodel.BoolVar
	seqFail  map[sequenceFailKey]cpmodel.BoolVar

	// byWorkerDate indexes primary vars by (worker, date) across every
	// role and timeslot on that date; used by one-shift-per-day and as
	// the OFF[p] source for null sequence positions.
	byWorkerDate map[string]map[string][]cpmodel.BoolVar

	// byWorkerDateShift indexes primary vars by (worker, date, shift)
	// across roles; the ON[p] source for working sequence positions.
	byWorkerDateShift map[string]map[string]map[string][]cpmodel.BoolVar

	// byTimeSlot indexes every primary var on a timeslot, across workers
	// and roles; used by skill-mix enforcement and staffing bounds.
	byTimeSlot map[string][]cpmodel.BoolVar

	// byTimeSlotRole indexes primary vars on a timeslot restricted to a
	// single role; used by skill-mix enforcement.
	byTimeSlotRole map[string]map[string][]cpmodel.BoolVar

	// timeSlotDate and timeSlotShift recover (date, shift) from a
	// timeslot id; used by the objective.
	timeSlotDate  map[string]time.Time
	timeSlotShift map[string]string
}

// CpModel returns the finished proto model, ready for the solver driver.
func (m *Model) CpModel() (*cpmodel.CpModelProto, error) {
	return m.Builder.Model()
}

// PrimaryVar returns the primary variable for (worker, role, timeslot), if
// one was created.
func (m *Model) PrimaryVar(key PrimaryKey) (cpmodel.BoolVar, bool) {
	v, ok := m.primary[key]
	return v, ok
}

// Primary returns every primary variable, for the writer to scan after
// solving.
func (m *Model) Primary() map[PrimaryKey]cpmodel.BoolVar {
	return m.primary
}

func newModel(snap *snapshot.Snapshot) *Model {
	return &Model{
		Builder:           cpmodel.NewCpModelBuilder(),
		Snap:              snap,
		primary:           make(map[PrimaryKey]cpmodel.BoolVar),
		skillMix:          make(map[skillMixKey]cpmodel.BoolVar),
		seqFail:           make(map[sequenceFailKey]cpmodel.BoolVar),
		byWorkerDate:      make(map[string]map[string][]cpmodel.BoolVar),
		byWorkerDateShift: make(map[string]map[string]map[string][]cpmodel.BoolVar),
		byTimeSlot:        make(map[string][]cpmodel.BoolVar),
		byTimeSlotRole:    make(map[string]map[string][]cpmodel.BoolVar),
		timeSlotDate:      make(map[string]time.Time),
		timeSlotShift:     make(map[string]string),
	}
}

// indexTimeSlots records (date, shift) for every current-range timeslot,
// independent of whether any primary variable was created for it.
func (m *Model) indexTimeSlots() {
	for i, dateStr := range datesAsKeys(m.Snap) {
		for _, ts := range m.Snap.TimeSlotsByDate[dateStr] {
			m.timeSlotDate[ts.ID] = m.Snap.Dates[i]
			m.timeSlotShift[ts.ID] = ts.ShiftID
		}
	}
}

// createPrimaryVars emits x[w,r,d,t] for every available worker, every role
// of that worker, and every timeslot in the current range, then indexes
// them for the constraint builders.
func (m *Model) createPrimaryVars() {
	for _, worker := range m.Snap.Workers {
		for _, dateStr := range datesAsKeys(m.Snap) {
			for _, ts := range m.Snap.TimeSlotsByDate[dateStr] {
				for _, roleID := range worker.RoleIDs {
					key := PrimaryKey{WorkerID: worker.ID, RoleID: roleID, TimeSlotID: ts.ID}
					v := m.Builder.NewBoolVar().WithName(fmt.Sprintf("x_w%s_r%s_t%s", worker.ID, roleID, ts.ID))
					m.primary[key] = v
					m.index(worker.ID, dateStr, ts.ShiftID, ts.ID, roleID, v)
				}
			}
		}
	}
}

// datesAsKeys returns the current range's dates formatted the same way
// Snapshot keys its date-indexed maps.
func datesAsKeys(snap *snapshot.Snapshot) []string {
	keys := make([]string, len(snap.Dates))
	for i, d := range snap.Dates {
		keys[i] = snapshot.DateKey(d)
	}
	return keys
}

func (m *Model) index(workerID, dateKey, shiftID, timeSlotID, roleID string, v cpmodel.BoolVar) {
	if m.byWorkerDate[workerID] == nil {
		m.byWorkerDate[workerID] = make(map[string][]cpmodel.BoolVar)
	}
	m.byWorkerDate[workerID][dateKey] = append(m.byWorkerDate[workerID][dateKey], v)

	if m.byWorkerDateShift[workerID] == nil {
		m.byWorkerDateShift[workerID] = make(map[string]map[string][]cpmodel.BoolVar)
	}
	if m.byWorkerDateShift[workerID][dateKey] == nil {
		m.byWorkerDateShift[workerID][dateKey] = make(map[string][]cpmodel.BoolVar)
	}
	m.byWorkerDateShift[workerID][dateKey][shiftID] = append(m.byWorkerDateShift[workerID][dateKey][shiftID], v)

	m.byTimeSlot[timeSlotID] = append(m.byTimeSlot[timeSlotID], v)

	if m.byTimeSlotRole[timeSlotID] == nil {
		m.byTimeSlotRole[timeSlotID] = make(map[string][]cpmodel.BoolVar)
	}
	m.byTimeSlotRole[timeSlotID][roleID] = append(m.byTimeSlotRole[timeSlotID][roleID], v)
}

// createSkillMixVars emits k[t,j] for every current timeslot with at least
// one skill-mix rule on its shift.
func (m *Model) createSkillMixVars() {
	for _, dateStr := range datesAsKeys(m.Snap) {
		for _, ts := range m.Snap.TimeSlotsByDate[dateStr] {
			rules := m.Snap.SkillMixRules[ts.ShiftID]
			for j := range rules {
				key := skillMixKey{TimeSlotID: ts.ID, RuleIndex: j}
				m.skillMix[key] = m.Builder.NewBoolVar().WithName(fmt.Sprintf("k_t%s_j%d", ts.ID, j))
			}
		}
	}
}

// sequenceFailVar returns (creating if needed) the m[w,d0,q,p] variable.
func (m *Model) sequenceFailVar(workerID, anchorDateKey, sequenceID string, position int) cpmodel.BoolVar {
	key := sequenceFailKey{WorkerID: workerID, AnchorDate: anchorDateKey, SequenceID: sequenceID, Position: position}
	if v, ok := m.seqFail[key]; ok {
		return v
	}
	v := m.Builder.NewBoolVar().WithName(fmt.Sprintf("m_w%s_d%s_q%s_p%d", workerID, anchorDateKey, sequenceID, position))
	m.seqFail[key] = v
	return v
}
