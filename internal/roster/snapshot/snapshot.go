// Package snapshot builds the self-consistent, in-memory view of the
// roster domain that the model builder, solver driver and writer all
// read from. Nothing downstream of the loader touches the entity store
// directly (§4.1).
package snapshot

import (
	"time"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
)

const dateLayout = "2006-01-02"

func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// SkillMixRule is a skill-mix rule as a role->count map. The map holds only
// the roles the rule has rows for; the model builder treats every other
// role as a count of zero.
type SkillMixRule struct {
	RuleID     string
	RoleCounts map[string]int // role id -> required count
}

// TotalCount sums every role's required count for this rule, used by
// §4.2.8's staffing bounds.
func (r SkillMixRule) TotalCount() int {
	total := 0
	for _, c := range r.RoleCounts {
		total += c
	}
	return total
}

// SequenceStep is one position of a ShiftSequence's forbidden pattern.
// ShiftID is nil for a null ("not working") position.
type SequenceStep struct {
	Position int
	ShiftID  *string
}

// Sequence is a ShiftSequence normalised with its applicable Day numbers
// (from its DayGroup) and its ordered positions.
type Sequence struct {
	SequenceID string
	DayNumbers map[int]bool // the DayGroup's day numbers, i.e. D_q
	Positions  []SequenceStep
}

// Snapshot is the complete self-consistent read built by the loader for
// one generation run.
type Snapshot struct {
	StartDate time.Time
	N         int // horizon length, |Day|

	// Date ranges, inclusive.
	CurrentStart, CurrentEnd   time.Time
	PreviousStart, PreviousEnd time.Time
	ExtendedStart, ExtendedEnd time.Time

	Dates       []time.Time    // length N, current range
	DateDayNum  map[string]int // dateKey -> 1-based day number within current range

	Workers   []domain.Worker
	WorkerNum map[string]int // worker id -> dense index

	Shifts   []domain.Shift
	ShiftNum map[string]int // shift id -> dense index

	// TimeSlotsByDate holds every timeslot (current + previous + any in
	// the extended range) grouped by date, sorted by shift_type.
	TimeSlotsByDate map[string][]domain.TimeSlot
	// TimeSlotIDByDateShift is the (date, shift) -> timeslot id lookup.
	TimeSlotIDByDateShift map[string]map[string]string
	// PreviousStaff holds the worker ids currently assigned to each
	// previous-range timeslot, preserved as fixed seed values.
	PreviousStaff map[string][]string // timeslot id -> worker ids

	Leaves       []domain.Leave
	leaveLookup  map[string]map[string]string // worker id -> dateKey -> description

	// Request is the dense worker x day x shift signed-priority matrix
	// R[w][d][s], flattened as w*N*S + d*S + s, d 0-based.
	Request []int32

	// SkillMixRules is keyed by shift id; rules preserve load order so
	// §4.2.3's "exactly one rule" indexing j is stable.
	SkillMixRules map[string][]SkillMixRule

	// Sequences is keyed by worker id.
	Sequences map[string][]Sequence

	// MisconfiguredReasons accumulates referential problems the loader
	// detects (e.g. a shift or sequence without a DayGroup) so the
	// orchestrator can fail the job with MISCONFIGURED before ever
	// invoking the model builder.
	MisconfiguredReasons []string
}

// SetLeaves records leave days and builds the (worker, date) -> description
// lookup LeaveDescription reads from. Exported so callers that assemble a
// Snapshot without going through the loader (tests, fixtures) can still
// produce a self-consistent one.
func (s *Snapshot) SetLeaves(leaves []domain.Leave) {
	s.Leaves = leaves
	s.leaveLookup = make(map[string]map[string]string)
	for _, lv := range leaves {
		if s.leaveLookup[lv.WorkerID] == nil {
			s.leaveLookup[lv.WorkerID] = make(map[string]string)
		}
		s.leaveLookup[lv.WorkerID][DateKey(lv.Date)] = lv.Description
	}
}

// ShiftNumOf returns the dense index of shift id.
func (s *Snapshot) ShiftNumOf(shiftID string) (int, bool) {
	n, ok := s.ShiftNum[shiftID]
	return n, ok
}

// DayNumOf returns the 1-based day number of date within the current
// range, or 0, false if date falls outside it.
func (s *Snapshot) DayNumOf(date time.Time) (int, bool) {
	n, ok := s.DateDayNum[DateKey(date)]
	return n, ok
}

// LeaveDescription returns the leave description for (workerID, date) and
// whether a leave exists.
func (s *Snapshot) LeaveDescription(workerID string, date time.Time) (string, bool) {
	byDate, ok := s.leaveLookup[workerID]
	if !ok {
		return "", false
	}
	desc, ok := byDate[DateKey(date)]
	return desc, ok
}

// RequestIndex computes the flat index into Request for (workerNum,
// dayNum 0-based, shiftNum).
func (s *Snapshot) RequestIndex(workerNum, dayNum0, shiftNum int) int {
	return workerNum*s.N*len(s.Shifts) + dayNum0*len(s.Shifts) + shiftNum
}

// RequestAt returns R[workerNum][dayNum0][shiftNum].
func (s *Snapshot) RequestAt(workerNum, dayNum0, shiftNum int) int32 {
	return s.Request[s.RequestIndex(workerNum, dayNum0, shiftNum)]
}

// TimeSlotsOn returns the timeslots on date, sorted by shift_type.
func (s *Snapshot) TimeSlotsOn(date time.Time) []domain.TimeSlot {
	return s.TimeSlotsByDate[DateKey(date)]
}

// TimeSlotIDOn returns the timeslot id for (date, shift), if one exists.
func (s *Snapshot) TimeSlotIDOn(date time.Time, shiftID string) (string, bool) {
	byShift, ok := s.TimeSlotIDByDateShift[DateKey(date)]
	if !ok {
		return "", false
	}
	id, ok := byShift[shiftID]
	return id, ok
}
