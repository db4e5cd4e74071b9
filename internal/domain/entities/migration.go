package entities

import "time"

// MigrationStatus is the ledger state of one source document
type MigrationStatus string

const (
	MigrationPending    MigrationStatus = "pending"
	MigrationInProgress MigrationStatus = "in_progress"
	MigrationSuccess    MigrationStatus = "success"
	MigrationFailed     MigrationStatus = "failed"
)

// IsTerminal reports whether s is success or failed
func (s MigrationStatus) IsTerminal() bool {
	return s == MigrationSuccess || s == MigrationFailed
}

// MigrationMetadata is the free-form blob stored with a ledger record
type MigrationMetadata struct {
	RunID              string   `json:"run_id,omitempty"`
	IngredientCount    int      `json:"ingredient_count"`
	InstructionCount   int      `json:"instruction_count"`
	DroppedIngredients int      `json:"dropped_ingredients,omitempty"`
	AIEnriched         bool     `json:"ai_enriched"`
	EnrichmentReason   string   `json:"enrichment_reason,omitempty"`
	AgeGroup           AgeGroup `json:"age_group,omitempty"`
	PlaceholderCount   int      `json:"placeholder_count,omitempty"`
}

// MigrationRecord is the single ledger row kept per source document
type MigrationRecord struct {
	ID           string             `json:"id" db:"id"`
	SourceID     string             `json:"source_id" db:"source_id"`
	TargetID     string             `json:"target_id,omitempty" db:"target_id"`
	Status       MigrationStatus    `json:"status" db:"status"`
	Attempts     int                `json:"attempts" db:"attempts"`
	StartedAt    *time.Time         `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage string             `json:"error_message,omitempty" db:"error_message"`
	Metadata     *MigrationMetadata `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}

// OutcomeStatus describes what a single MigrateOne call did
type OutcomeStatus string

const (
	OutcomeMigrated OutcomeStatus = "migrated"
	OutcomeSkipped  OutcomeStatus = "skipped"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeDryRun   OutcomeStatus = "dry_run"
)

// MigrationOutcome is returned for every single-document migration
type MigrationOutcome struct {
	SourceID string             `json:"source_id"`
	TargetID string             `json:"target_id,omitempty"`
	Status   OutcomeStatus      `json:"status"`
	Message  string             `json:"message,omitempty"`
	Metadata *MigrationMetadata `json:"metadata,omitempty"`
	Recipe   *Recipe            `json:"recipe,omitempty"`
}

// MigrationError is one failed document in a summary
type MigrationError struct {
	SourceID string `json:"source_id"`
	Message  string `json:"message"`
}

// MigrationSummary aggregates a batch or full-corpus run
type MigrationSummary struct {
	RunID        string           `json:"run_id"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	SkippedCount int              `json:"skipped_count"`
	Errors       []MigrationError `json:"errors"`
	Cancelled    bool             `json:"cancelled,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
}

// Record folds a single outcome into the summary
func (s *MigrationSummary) Record(outcome *MigrationOutcome, err error) {
	switch {
	case err != nil:
		s.FailedCount++
		sourceID := ""
		if outcome != nil {
			sourceID = outcome.SourceID
		}
		s.Errors = append(s.Errors, MigrationError{SourceID: sourceID, Message: err.Error()})
	case outcome == nil:
	case outcome.Status == OutcomeSkipped:
		s.SkippedCount++
	case outcome.Status == OutcomeFailed:
		s.FailedCount++
		s.Errors = append(s.Errors, MigrationError{SourceID: outcome.SourceID, Message: outcome.Message})
	default:
		s.SuccessCount++
	}
}

// MigrationStatusReport is the progress view over the whole ledger
type MigrationStatusReport struct {
	Counts    map[MigrationStatus]int `json:"counts"`
	Total     int                     `json:"total"`
	Remaining int                     `json:"remaining"`
}
