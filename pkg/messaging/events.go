package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types published by the roster engine.
const (
	EventRosterGenerated = "roster.generated"
	EventRosterFailed    = "roster.failed"
)

// Exchange names
const (
	ExchangeRosterEvents = "roster.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// RosterGeneratedEvent is published when a generation job succeeds.
type RosterGeneratedEvent struct {
	JobID           string    `json:"job_id"`
	StartDate       time.Time `json:"start_date"`
	HorizonDays     int       `json:"horizon_days"`
	AssignmentCount int       `json:"assignment_count"`
}

// RosterFailedEvent is published when a generation job fails.
type RosterFailedEvent struct {
	JobID     string    `json:"job_id"`
	StartDate time.Time `json:"start_date"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}
