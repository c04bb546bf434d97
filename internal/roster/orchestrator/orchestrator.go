// Package orchestrator runs a roster generation request on a background
// worker, reports status, and caps concurrent runs per session, per §4.5.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/rosterforge/roster-engine/internal/roster/events"
	"github.com/rosterforge/roster-engine/internal/roster/modelbuilder"
	"github.com/rosterforge/roster-engine/internal/roster/snapshot"
	"github.com/rosterforge/roster-engine/internal/roster/solver"
	"github.com/rosterforge/roster-engine/internal/roster/writer"
	apperrors "github.com/rosterforge/roster-engine/pkg/errors"
	"github.com/rosterforge/roster-engine/pkg/logger"
)

// Config holds the orchestrator's recognised options (§4.5/§6).
type Config struct {
	SolverTimeBudgetSeconds int
	MaxConcurrentPerSession int
	SolverWorkers           int
}

// Orchestrator owns the in-memory job table and enforces the
// per-session concurrency cap. Jobs run on the process's default
// goroutine scheduler; each is a single synchronous computation once
// started, per §5's "generator body does not suspend" rule.
type Orchestrator struct {
	cfg      Config
	loader   *snapshot.Loader
	writer   *writer.Writer
	events   *events.RosterEventPublisher
	logger   *logger.Logger

	mu           sync.Mutex
	jobs         map[string]*Job
	activeBySession map[string]string // session id -> in-flight job id
}

// New creates a job orchestrator.
func New(cfg Config, loader *snapshot.Loader, w *writer.Writer, publisher *events.RosterEventPublisher, log *logger.Logger) *Orchestrator {
	if cfg.MaxConcurrentPerSession <= 0 {
		cfg.MaxConcurrentPerSession = 1
	}
	if cfg.SolverTimeBudgetSeconds <= 0 {
		cfg.SolverTimeBudgetSeconds = 120
	}
	return &Orchestrator{
		cfg:             cfg,
		loader:          loader,
		writer:          w,
		events:          publisher,
		logger:          log,
		jobs:            make(map[string]*Job),
		activeBySession: make(map[string]string),
	}
}

// Submit creates a background job for (sessionID, startDate) and returns
// its id immediately. It rejects the submission with a Conflict AppError
// if the session already has max_concurrent_per_session jobs submitted or
// processing.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, startDate time.Time, horizonDays int) (string, error) {
	o.mu.Lock()
	inFlight := 0
	for _, existing := range o.jobs {
		if existing.SessionID == sessionID && (existing.Status == StatusSubmitted || existing.Status == StatusProcessing) {
			inFlight++
		}
	}
	if inFlight >= o.cfg.MaxConcurrentPerSession {
		o.mu.Unlock()
		return "", apperrors.Conflict("a roster generation job is already in progress for this session")
	}

	job := &Job{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		StartDate: startDate,
		Status:    StatusSubmitted,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	o.jobs[job.ID] = job
	o.activeBySession[sessionID] = job.ID
	o.mu.Unlock()

	go o.run(job, horizonDays)

	return job.ID, nil
}

// Status returns the current status of jobID.
func (o *Orchestrator) Status(jobID string) (*Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	job, ok := o.jobs[jobID]
	if !ok {
		return nil, apperrors.NotFound("job")
	}
	// return a copy: callers must not mutate orchestrator state
	copyJob := *job
	return &copyJob, nil
}

func (o *Orchestrator) run(job *Job, horizonDays int) {
	o.setStatus(job.ID, StatusProcessing, "", "")

	ctx := context.Background()
	count, err := o.generate(ctx, job, horizonDays)
	if err != nil {
		kind, message := classifyFailure(err)
		o.logger.Error().Err(err).Str("job_id", job.ID).Str("kind", string(kind)).Msg("roster generation failed")
		o.setStatus(job.ID, StatusFailed, kind, message)
		o.events.PublishRosterFailed(ctx, job.ID, job.StartDate, string(kind), message)
		return
	}

	o.logger.Info().Str("job_id", job.ID).Int("assignment_count", count).Msg("roster generation succeeded")
	o.setAssignmentCount(job.ID, count)
	o.setStatus(job.ID, StatusSucceeded, "", "")
	o.events.PublishRosterGenerated(ctx, job.ID, job.StartDate, horizonDays, count)
}

// generate runs C1(write)->C2->C3->C4->C5 synchronously, returning the
// number of assignments committed.
func (o *Orchestrator) generate(ctx context.Context, job *Job, horizonDays int) (int, error) {
	if err := o.loader.RecreateHorizon(ctx, job.StartDate, horizonDays); err != nil {
		return 0, fmt.Errorf("recreate horizon timeslots: %w", err)
	}

	snap, err := o.loader.Load(ctx, job.StartDate, horizonDays)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}
	if len(snap.MisconfiguredReasons) > 0 {
		return 0, apperrors.Misconfigured(misconfiguredMessage(snap.MisconfiguredReasons))
	}

	// The snapshot fingerprint is logged at debug level (it is not stored
	// on the job), as a signal of what was actually solved, useful for
	// diagnosing a re-run that produced a different result from an
	// apparently identical request.
	if fp, err := hashstructure.Hash(snap, hashstructure.FormatV2, nil); err == nil {
		o.logger.Debug().Str("job_id", job.ID).Uint64("snapshot_fingerprint", fp).Msg("snapshot loaded")
	}

	model := modelbuilder.Build(snap)

	driver := solver.NewDriver(float64(o.cfg.SolverTimeBudgetSeconds), int32(o.cfg.SolverWorkers))
	result, err := driver.Solve(model)
	if err != nil {
		return 0, apperrors.Wrap(err, "INTERNAL", "solver failed", 500)
	}

	switch result.Outcome {
	case solver.OutcomeInfeasible:
		return 0, apperrors.Infeasible("no feasible roster exists for the given constraints")
	case solver.OutcomeNotSolved:
		return 0, apperrors.NotSolved("the solver did not reach a decision within the time budget")
	}

	count, err := o.writer.Commit(ctx, model, result.Response)
	if err != nil {
		return 0, fmt.Errorf("commit roster: %w", err)
	}
	return count, nil
}

func (o *Orchestrator) setStatus(jobID string, status Status, kind FailureKind, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	job, ok := o.jobs[jobID]
	if !ok {
		return
	}
	job.Status = status
	job.Kind = kind
	job.Message = message
	job.UpdatedAt = time.Now()

	if status == StatusSucceeded || status == StatusFailed {
		if o.activeBySession[job.SessionID] == jobID {
			delete(o.activeBySession, job.SessionID)
		}
	}
}

func (o *Orchestrator) setAssignmentCount(jobID string, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if job, ok := o.jobs[jobID]; ok {
		job.AssignmentCount = count
	}
}
