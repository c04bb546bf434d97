package repository

import (
	"context"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/pkg/database"
)

// ShiftRepository persists and queries Shift, Day and DayGroup entities.
type ShiftRepository struct {
	db *database.DB
}

// NewShiftRepository creates a new shift repository.
func NewShiftRepository(db *database.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// ListSortedByType returns every shift ordered by shift_type, suitable for
// assigning dense shift_num indices.
func (r *ShiftRepository) ListSortedByType(ctx context.Context) ([]domain.Shift, error) {
	var shifts []domain.Shift
	query := `SELECT id, shift_type, day_group_id FROM shifts ORDER BY shift_type, id`
	if err := r.db.SelectContext(ctx, &shifts, query); err != nil {
		return nil, err
	}
	return shifts, nil
}

// ListDays returns every Day ordered by number.
func (r *ShiftRepository) ListDays(ctx context.Context) ([]domain.Day, error) {
	var days []domain.Day
	query := `SELECT id, number FROM days ORDER BY number`
	if err := r.db.SelectContext(ctx, &days, query); err != nil {
		return nil, err
	}
	return days, nil
}

// DayGroupDayNumbers returns, for every day group, the set of Day numbers
// it contains.
func (r *ShiftRepository) DayGroupDayNumbers(ctx context.Context) (map[string]map[int]bool, error) {
	var rows []struct {
		DayGroupID string `db:"day_group_id"`
		Number     int    `db:"number"`
	}
	query := `
		SELECT dgd.day_group_id AS day_group_id, d.number AS number
		FROM day_group_days dgd
		JOIN days d ON d.id = dgd.day_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	byGroup := make(map[string]map[int]bool)
	for _, row := range rows {
		if byGroup[row.DayGroupID] == nil {
			byGroup[row.DayGroupID] = make(map[int]bool)
		}
		byGroup[row.DayGroupID][row.Number] = true
	}
	return byGroup, nil
}

// DayGroupExists reports whether a day group id is present in the store.
// No component of this repository calls it.
func (r *ShiftRepository) DayGroupExists(ctx context.Context, dayGroupID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM day_groups WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, dayGroupID); err != nil {
		return false, err
	}
	return exists, nil
}
