package entities

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// MigrationEventType represents the type of migration event
type MigrationEventType string

const (
	MigrationEventRunStarted       MigrationEventType = "run_started"
	MigrationEventRunFinished      MigrationEventType = "run_finished"
	MigrationEventDocumentMigrated MigrationEventType = "document_migrated"
	MigrationEventDocumentSkipped  MigrationEventType = "document_skipped"
	MigrationEventDocumentFailed   MigrationEventType = "document_failed"
)

// MigrationEvent is a progress notification emitted while a migration runs
type MigrationEvent struct {
	ID        string             `json:"id"`
	RunID     string             `json:"run_id,omitempty"`
	EventType MigrationEventType `json:"event_type"`
	Timestamp time.Time          `json:"timestamp"`
	SourceID  string             `json:"source_id,omitempty"`
	TargetID  string             `json:"target_id,omitempty"`
	Message   string             `json:"message,omitempty"`
	Summary   *MigrationSummary  `json:"summary,omitempty"`
}

// NewMigrationEvent creates a new migration event
func NewMigrationEvent(runID string, eventType MigrationEventType) *MigrationEvent {
	return &MigrationEvent{
		ID:        ulid.Make().String(),
		RunID:     runID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// NewOutcomeEvent maps a single-document outcome to its event. Dry runs produce no event.
func NewOutcomeEvent(runID string, outcome *MigrationOutcome) *MigrationEvent {
	var eventType MigrationEventType
	switch outcome.Status {
	case OutcomeMigrated:
		eventType = MigrationEventDocumentMigrated
	case OutcomeSkipped:
		eventType = MigrationEventDocumentSkipped
	case OutcomeFailed:
		eventType = MigrationEventDocumentFailed
	default:
		return nil
	}

	event := NewMigrationEvent(runID, eventType)
	event.SourceID = outcome.SourceID
	event.TargetID = outcome.TargetID
	event.Message = outcome.Message
	return event
}
