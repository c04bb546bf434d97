package events

import (
	"context"
	"time"

	"github.com/rosterforge/roster-engine/pkg/logger"
	"github.com/rosterforge/roster-engine/pkg/messaging"
)

// RosterEventPublisher publishes roster generation outcomes onto the
// roster.events exchange so downstream consumers (rostering UIs, audit
// sinks) can react without polling the job status endpoint.
type RosterEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewRosterEventPublisher creates a new roster event publisher
func NewRosterEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*RosterEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeRosterEvents, "roster-service", log)
	if err != nil {
		return nil, err
	}

	return &RosterEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishRosterGenerated publishes a roster.generated event for a
// successfully completed generation job.
func (p *RosterEventPublisher) PublishRosterGenerated(ctx context.Context, jobID string, startDate time.Time, horizonDays, assignmentCount int) {
	data := messaging.RosterGeneratedEvent{
		JobID:           jobID,
		StartDate:       startDate,
		HorizonDays:     horizonDays,
		AssignmentCount: assignmentCount,
	}

	if err := p.publisher.Publish(ctx, messaging.EventRosterGenerated, data); err != nil {
		p.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to publish roster generated event")
	}
}

// PublishRosterFailed publishes a roster.failed event for a job that ended
// in any failure kind: INFEASIBLE, NOT_SOLVED, MISCONFIGURED or INTERNAL.
func (p *RosterEventPublisher) PublishRosterFailed(ctx context.Context, jobID string, startDate time.Time, kind, message string) {
	data := messaging.RosterFailedEvent{
		JobID:     jobID,
		StartDate: startDate,
		Kind:      kind,
		Message:   message,
	}

	if err := p.publisher.Publish(ctx, messaging.EventRosterFailed, data); err != nil {
		p.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to publish roster failed event")
	}
}
