package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/rosterforge/roster-engine/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "shift_start_before_end"):
		return errors.Validation(map[string]string{
			"end_time": "must be after start_time",
		})

	case strings.Contains(constraint, "skill_mix_rule_count_valid"):
		return errors.Validation(map[string]string{
			"required_count": "must be a non-negative integer not exceeding the rule's role pool",
		})

	case strings.Contains(constraint, "leave_start_before_end"):
		return errors.Validation(map[string]string{
			"end_date": "must not be before start_date",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "timeslot_worker"):
		return "this worker is already assigned to this timeslot"
	case strings.Contains(constraint, "day_group_day"):
		return "this day is already a member of the day group"
	case strings.Contains(constraint, "shift_sequence_shift"):
		return "this shift is already part of the sequence at that position"
	default:
		return "a record with these values already exists"
	}
}
