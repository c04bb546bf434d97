package testutil

import (
	"fmt"

	"github.com/google/uuid"
)

// WorkerFixture represents test worker data.
type WorkerFixture struct {
	ID                     string
	FirstName              string
	LastName               string
	Available              bool
	ShiftsPerRoster        int
	MaxShifts              bool
	EnforceShiftsPerRoster bool
	EnforceOneShiftPerDay  bool
	RoleIDs                []string
}

// RoleFixture represents test role data.
type RoleFixture struct {
	ID   string
	Name string
}

// ShiftFixture represents test shift data.
type ShiftFixture struct {
	ID         string
	ShiftType  string
	DayGroupID string
}

// DayGroupFixture represents test day group data.
type DayGroupFixture struct {
	ID   string
	Name string
}

// FixtureFactory creates test fixtures with sensible defaults.
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory.
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values.
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Worker creates a worker fixture with defaults.
func (f *FixtureFactory) Worker(opts ...func(*WorkerFixture)) WorkerFixture {
	seq := f.nextSeq()

	w := WorkerFixture{
		ID:              uuid.New().String(),
		FirstName:       fmt.Sprintf("Worker%d", seq),
		LastName:        "Test",
		Available:       true,
		ShiftsPerRoster: 10,
		MaxShifts:       false,
	}

	for _, opt := range opts {
		opt(&w)
	}

	return w
}

// WithWorkerName sets the worker's first and last name.
func WithWorkerName(first, last string) func(*WorkerFixture) {
	return func(w *WorkerFixture) {
		w.FirstName = first
		w.LastName = last
	}
}

// WithAvailable sets the worker's availability.
func WithAvailable(available bool) func(*WorkerFixture) {
	return func(w *WorkerFixture) {
		w.Available = available
	}
}

// WithShiftsPerRoster sets the worker's target shift count.
func WithShiftsPerRoster(n int) func(*WorkerFixture) {
	return func(w *WorkerFixture) {
		w.ShiftsPerRoster = n
		w.EnforceShiftsPerRoster = true
	}
}

// WithRoles sets the worker's role ids.
func WithRoles(roleIDs ...string) func(*WorkerFixture) {
	return func(w *WorkerFixture) {
		w.RoleIDs = roleIDs
	}
}

// Role creates a role fixture with defaults.
func (f *FixtureFactory) Role(opts ...func(*RoleFixture)) RoleFixture {
	seq := f.nextSeq()

	r := RoleFixture{
		ID:   uuid.New().String(),
		Name: fmt.Sprintf("role_%d", seq),
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r
}

// Shift creates a shift fixture with defaults.
func (f *FixtureFactory) Shift(dayGroupID string, opts ...func(*ShiftFixture)) ShiftFixture {
	seq := f.nextSeq()

	s := ShiftFixture{
		ID:         uuid.New().String(),
		ShiftType:  fmt.Sprintf("Shift%d", seq),
		DayGroupID: dayGroupID,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// DayGroup creates a day group fixture with defaults.
func (f *FixtureFactory) DayGroup(opts ...func(*DayGroupFixture)) DayGroupFixture {
	seq := f.nextSeq()

	g := DayGroupFixture{
		ID:   uuid.New().String(),
		Name: fmt.Sprintf("group_%d", seq),
	}

	for _, opt := range opts {
		opt(&g)
	}

	return g
}
