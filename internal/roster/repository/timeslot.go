package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/pkg/database"
)

// TimeSlotRepository persists and queries TimeSlot entities and their
// worker assignment links.
type TimeSlotRepository struct {
	db *database.DB
}

// NewTimeSlotRepository creates a new timeslot repository.
func NewTimeSlotRepository(db *database.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListInRange returns every timeslot whose date falls in [start, end]
// (inclusive), ordered by date then shift_type, per §4.1's
// timeslots_by_date grouping.
func (r *TimeSlotRepository) ListInRange(ctx context.Context, start, end time.Time) ([]domain.TimeSlot, error) {
	var slots []domain.TimeSlot
	query := `
		SELECT t.id, t.date, t.shift_id
		FROM timeslots t
		JOIN shifts s ON s.id = t.shift_id
		WHERE t.date BETWEEN $1 AND $2
		ORDER BY t.date, s.shift_type, t.id`
	if err := r.db.SelectContext(ctx, &slots, query, start, end); err != nil {
		return nil, err
	}
	return slots, nil
}

// StaffByTimeSlot returns the set of worker ids currently assigned to
// each of the given timeslot ids (used to seed previous-period anchors).
func (r *TimeSlotRepository) StaffByTimeSlot(ctx context.Context, timeslotIDs []string) (map[string][]string, error) {
	if len(timeslotIDs) == 0 {
		return map[string][]string{}, nil
	}

	var rows []struct {
		TimeSlotID string `db:"timeslot_id"`
		WorkerID   string `db:"worker_id"`
	}
	query, args := inClause(`
		SELECT timeslot_id, worker_id
		FROM timeslot_assignments
		WHERE timeslot_id IN (?)`, timeslotIDs)
	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	byTimeSlot := make(map[string][]string, len(timeslotIDs))
	for _, row := range rows {
		byTimeSlot[row.TimeSlotID] = append(byTimeSlot[row.TimeSlotID], row.WorkerID)
	}
	return byTimeSlot, nil
}

// DeleteInRange deletes every timeslot (and, via ON DELETE CASCADE, its
// assignment links) whose date falls in [start, end]. Called at the
// start of a generation run before CreateForHorizon, per §3's lifecycle
// rule that TimeSlots are recreated fresh each run.
func (r *TimeSlotRepository) DeleteInRange(ctx context.Context, start, end time.Time) error {
	query := `DELETE FROM timeslots WHERE date BETWEEN $1 AND $2`
	_, err := r.db.ExecContext(ctx, query, start, end)
	return err
}

// CreateForHorizon inserts the given timeslots, one row each, assigning a
// new id in place to any slot whose ID is empty. It does not filter the
// slots; the caller passes only (date, shift) pairs where the shift is
// active on that date.
func (r *TimeSlotRepository) CreateForHorizon(ctx context.Context, slots []domain.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO timeslots (id, date, shift_id) VALUES ($1, $2, $3)`
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.New().String()
		}
		if _, err := r.db.ExecContext(ctx, query, slots[i].ID, slots[i].Date, slots[i].ShiftID); err != nil {
			return err
		}
	}
	return nil
}

// AssignmentLink is one solved (timeslot, worker) pair to persist.
type AssignmentLink struct {
	TimeSlotID string
	WorkerID   string
}

// BulkInsertAssignments inserts every link with one INSERT statement per
// link, ignoring rows that already exist (ON CONFLICT DO NOTHING). The
// whole call runs inside the transaction the caller
// opened via database.DB.WithTx, so a mid-batch failure leaves no
// partial horizon assignments (testable property 9).
func (r *TimeSlotRepository) BulkInsertAssignments(ctx context.Context, links []AssignmentLink) error {
	if len(links) == 0 {
		return nil
	}

	query := `INSERT INTO timeslot_assignments (timeslot_id, worker_id) VALUES ($1, $2)
		ON CONFLICT (timeslot_id, worker_id) DO NOTHING`
	for _, link := range links {
		if _, err := r.db.ExecContext(ctx, query, link.TimeSlotID, link.WorkerID); err != nil {
			return err
		}
	}
	return nil
}

// StaffRequestRepository queries StaffRequest rows.
type StaffRequestRepository struct {
	db *database.DB
}

// NewStaffRequestRepository creates a new staff request repository.
func NewStaffRequestRepository(db *database.DB) *StaffRequestRepository {
	return &StaffRequestRepository{db: db}
}

// ListInRange returns every staff request whose date falls in [start, end].
func (r *StaffRequestRepository) ListInRange(ctx context.Context, start, end time.Time) ([]domain.StaffRequest, error) {
	var requests []domain.StaffRequest
	query := `
		SELECT worker_id, date, shift_id, "like", priority
		FROM staff_requests
		WHERE date BETWEEN $1 AND $2`
	if err := r.db.SelectContext(ctx, &requests, query, start, end); err != nil {
		return nil, err
	}
	return requests, nil
}

// LeaveRepository queries Leave rows.
type LeaveRepository struct {
	db *database.DB
}

// NewLeaveRepository creates a new leave repository.
func NewLeaveRepository(db *database.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// ListInRange returns every leave whose date falls in [start, end].
func (r *LeaveRepository) ListInRange(ctx context.Context, start, end time.Time) ([]domain.Leave, error) {
	var leaves []domain.Leave
	query := `
		SELECT worker_id, date, description
		FROM leaves
		WHERE date BETWEEN $1 AND $2`
	if err := r.db.SelectContext(ctx, &leaves, query, start, end); err != nil {
		return nil, err
	}
	return leaves, nil
}
