package repository

import (
	"context"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/pkg/database"
)

// WorkerRepository persists and queries Worker entities.
type WorkerRepository struct {
	db *database.DB
}

// NewWorkerRepository creates a new worker repository.
func NewWorkerRepository(db *database.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// ListAvailable returns every worker with available=true, in a stable
// insertion order suitable for assigning dense worker_num indices.
func (r *WorkerRepository) ListAvailable(ctx context.Context) ([]domain.Worker, error) {
	var workers []domain.Worker
	query := `
		SELECT id, first_name, last_name, available, shifts_per_roster,
		       max_shifts, enforce_shifts_per_roster, enforce_one_shift_per_day
		FROM workers
		WHERE available = true
		ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &workers, query); err != nil {
		return nil, err
	}

	roleIDs, err := r.roleIDsByWorker(ctx)
	if err != nil {
		return nil, err
	}
	for i := range workers {
		workers[i].RoleIDs = roleIDs[workers[i].ID]
	}

	return workers, nil
}

// roleIDsByWorker loads the full worker_roles join table keyed by worker id.
func (r *WorkerRepository) roleIDsByWorker(ctx context.Context) (map[string][]string, error) {
	var rows []struct {
		WorkerID string `db:"worker_id"`
		RoleID   string `db:"role_id"`
	}
	query := `SELECT worker_id, role_id FROM worker_roles`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	byWorker := make(map[string][]string, len(rows))
	for _, row := range rows {
		byWorker[row.WorkerID] = append(byWorker[row.WorkerID], row.RoleID)
	}
	return byWorker, nil
}

// RoleRepository persists and queries Role entities.
type RoleRepository struct {
	db *database.DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *database.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// ListAll returns every role.
func (r *RoleRepository) ListAll(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	query := `SELECT id, name FROM roles ORDER BY name`
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, err
	}
	return roles, nil
}
