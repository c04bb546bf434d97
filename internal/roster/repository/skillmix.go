package repository

import (
	"context"

	"github.com/rosterforge/roster-engine/pkg/database"
)

// SkillMixRepository queries SkillMixRule and SkillMixRuleRole rows.
type SkillMixRepository struct {
	db *database.DB
}

// NewSkillMixRepository creates a new skill-mix repository.
func NewSkillMixRepository(db *database.DB) *SkillMixRepository {
	return &SkillMixRepository{db: db}
}

// RuleRow is a flattened skill-mix rule row joined with its role counts.
type RuleRow struct {
	RuleID  string `db:"rule_id"`
	ShiftID string `db:"shift_id"`
	RoleID  string `db:"role_id"`
	Count   int    `db:"count"`
}

// ListRuleRows returns every (rule, shift, role, count) row, ordered by
// shift then rule so callers can group rules in load order.
func (r *SkillMixRepository) ListRuleRows(ctx context.Context) ([]RuleRow, error) {
	var rows []RuleRow
	query := `
		SELECT smr.id AS rule_id, smr.shift_id AS shift_id,
		       smrr.role_id AS role_id, smrr.count AS count
		FROM skill_mix_rules smr
		JOIN skill_mix_rule_roles smrr ON smrr.rule_id = smr.id
		ORDER BY smr.shift_id, smr.id, smrr.role_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// EmptyRule identifies a skill-mix rule with no role rows at all (every
// role implicitly zero, i.e. "0 staff" under this rule).
type EmptyRule struct {
	RuleID  string `db:"id"`
	ShiftID string `db:"shift_id"`
}

// RuleIDsWithoutRoles returns rules that carry no role rows. These still
// participate in §4.2.3/§4.2.4 with an empty role set.
func (r *SkillMixRepository) RuleIDsWithoutRoles(ctx context.Context) ([]EmptyRule, error) {
	var rows []EmptyRule
	query := `
		SELECT smr.id AS id, smr.shift_id AS shift_id
		FROM skill_mix_rules smr
		LEFT JOIN skill_mix_rule_roles smrr ON smrr.rule_id = smr.id
		WHERE smrr.rule_id IS NULL`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}
