package repository

import (
	"context"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/pkg/database"
)

// SequenceRepository queries ShiftSequence and ShiftSequenceShift rows.
type SequenceRepository struct {
	db *database.DB
}

// NewSequenceRepository creates a new sequence repository.
func NewSequenceRepository(db *database.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// ListAll returns every shift sequence with its applicable worker ids
// populated from shift_sequence_workers.
func (r *SequenceRepository) ListAll(ctx context.Context) ([]domain.ShiftSequence, error) {
	var sequences []domain.ShiftSequence
	query := `SELECT id, name, day_group_id, description FROM shift_sequences ORDER BY name, id`
	if err := r.db.SelectContext(ctx, &sequences, query); err != nil {
		return nil, err
	}

	workerIDs, err := r.workerIDsBySequence(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sequences {
		sequences[i].WorkerIDs = workerIDs[sequences[i].ID]
	}

	return sequences, nil
}

func (r *SequenceRepository) workerIDsBySequence(ctx context.Context) (map[string][]string, error) {
	var rows []struct {
		SequenceID string `db:"sequence_id"`
		WorkerID   string `db:"worker_id"`
	}
	query := `SELECT sequence_id, worker_id FROM shift_sequence_workers`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	byWorker := make(map[string][]string, len(rows))
	for _, row := range rows {
		byWorker[row.SequenceID] = append(byWorker[row.SequenceID], row.WorkerID)
	}
	return byWorker, nil
}

// ListPositions returns every position row of every sequence, ordered by
// sequence then position ascending (load order, per Design Note "Ordered
// map with list values").
func (r *SequenceRepository) ListPositions(ctx context.Context) ([]domain.ShiftSequenceShift, error) {
	var positions []domain.ShiftSequenceShift
	query := `
		SELECT sequence_id, position, shift_id
		FROM shift_sequence_shifts
		ORDER BY sequence_id, position`
	if err := r.db.SelectContext(ctx, &positions, query); err != nil {
		return nil, err
	}
	return positions, nil
}
