// Package domain holds the roster entity model: workers, roles, shifts,
// day groups, skill-mix and sequence rules, and the timeslots and links
// a generation run produces. Ownership of these entities is the entity
// store (internal/roster/repository); every other package treats them
// as read-only values loaded through a Snapshot.
package domain

import "time"

// Worker is a staff member eligible for rostering.
type Worker struct {
	ID                     string `db:"id"`
	FirstName              string `db:"first_name"`
	LastName               string `db:"last_name"`
	Available              bool   `db:"available"`
	ShiftsPerRoster        int    `db:"shifts_per_roster"`
	MaxShifts              bool   `db:"max_shifts"`
	EnforceShiftsPerRoster bool   `db:"enforce_shifts_per_roster"`
	EnforceOneShiftPerDay  bool   `db:"enforce_one_shift_per_day"`

	// RoleIDs is populated by the repository from worker_roles; it is not
	// a column on the workers table.
	RoleIDs []string `db:"-"`
}

// DisplayName renders "Last, First" as used by CSV export (§6).
func (w Worker) DisplayName() string {
	return w.LastName + ", " + w.FirstName
}

// Role is a named staff category (e.g. RN, SRN, JRN).
type Role struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// Day is an abstract 1-based position within a roster period.
type Day struct {
	ID     string `db:"id"`
	Number int    `db:"number"`
}

// DayGroup is a named subset of Day numbers that shifts and sequences
// are scoped to.
type DayGroup struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// DayGroupDay is a (group, day) membership row.
type DayGroupDay struct {
	DayGroupID string `db:"day_group_id"`
	DayID      string `db:"day_id"`
}

// Shift is a labeled unit of work available on the days of a DayGroup.
type Shift struct {
	ID         string `db:"id"`
	ShiftType  string `db:"shift_type"`
	DayGroupID string `db:"day_group_id"`
}

// SkillMixRule is one alternative staffing requirement for a Shift.
type SkillMixRule struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	ShiftID string `db:"shift_id"`
}

// SkillMixRuleRole is a Role -> required-count row of a SkillMixRule.
type SkillMixRuleRole struct {
	RuleID string `db:"rule_id"`
	RoleID string `db:"role_id"`
	Count  int    `db:"count"`
}

// ShiftSequence is a forbidden-pattern rule scoped to a DayGroup and a
// set of applicable workers.
type ShiftSequence struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	DayGroupID  string  `db:"day_group_id"`
	Description *string `db:"description"`

	// WorkerIDs is populated from shift_sequence_workers.
	WorkerIDs []string `db:"-"`
}

// ShiftSequenceShift is one position of a ShiftSequence's pattern.
// ShiftID is nil for a null ("not working") position.
type ShiftSequenceShift struct {
	SequenceID string  `db:"sequence_id"`
	Position   int     `db:"position"`
	ShiftID    *string `db:"shift_id"`
}

// TimeSlot is a concrete (date, shift) pair eligible for assignments.
type TimeSlot struct {
	ID      string    `db:"id"`
	Date    time.Time `db:"date"`
	ShiftID string    `db:"shift_id"`
}

// StaffRequest records a worker's signed preference for a (date, shift).
type StaffRequest struct {
	WorkerID string    `db:"worker_id"`
	Date     time.Time `db:"date"`
	ShiftID  string    `db:"shift_id"`
	Like     bool      `db:"like"`
	Priority int       `db:"priority"`
}

// SignedPriority returns +Priority when liked, -Priority when disliked.
func (r StaffRequest) SignedPriority() int {
	if r.Like {
		return r.Priority
	}
	return -r.Priority
}

// Leave records a worker's unavailability on a date.
type Leave struct {
	WorkerID    string    `db:"worker_id"`
	Date        time.Time `db:"date"`
	Description string    `db:"description"`
}

// RosterSettings is a singleton of display labels consumed read-only by
// the out-of-core rendering layer; the generator never branches on it.
type RosterSettings struct {
	ID              string  `db:"id"`
	RosterPublishDay *string `db:"roster_publish_day"`
}
