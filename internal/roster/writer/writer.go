// Package writer translates a solved model back into persisted
// timeslot<->worker assignment links.
package writer

import (
	"context"
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/rosterforge/roster-engine/internal/roster/modelbuilder"
	"github.com/rosterforge/roster-engine/internal/roster/repository"
	"github.com/rosterforge/roster-engine/pkg/database"
)

// Writer persists a solved model's assignments.
type Writer struct {
	db        *database.DB
	timeslots *repository.TimeSlotRepository
}

// NewWriter creates a roster writer.
func NewWriter(db *database.DB, timeslots *repository.TimeSlotRepository) *Writer {
	return &Writer{db: db, timeslots: timeslots}
}

// Commit scans every primary variable of m, collects the (timeslot,
// worker) pairs solved to 1, and bulk-inserts them in a single
// transaction per §4.4. Every primary variable already belongs to the
// current range by construction, so no date filtering is needed here.
// It returns the number of distinct assignment links committed.
func (w *Writer) Commit(ctx context.Context, m *modelbuilder.Model, response *cpmodel.CpSolverResponse) (int, error) {
	seen := make(map[repository.AssignmentLink]bool)
	var links []repository.AssignmentLink

	for key, v := range m.Primary() {
		if !cpmodel.SolutionBooleanValue(response, v) {
			continue
		}
		link := repository.AssignmentLink{TimeSlotID: key.TimeSlotID, WorkerID: key.WorkerID}
		if seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}

	err := w.db.WithTx(ctx, func(ctx context.Context) error {
		if err := w.timeslots.BulkInsertAssignments(ctx, links); err != nil {
			return fmt.Errorf("bulk insert assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(links), nil
}
