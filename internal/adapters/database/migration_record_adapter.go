package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

// MigrationRecordAdapter implements MigrationRecordRepository.
// Every transition is a conditional UPDATE keyed by source_id; source_id is UNIQUE.
type MigrationRecordAdapter struct {
	client Client
	db     *goqu.Database
}

// NewMigrationRecordAdapter creates a new ledger adapter
func NewMigrationRecordAdapter(client Client) repositories.MigrationRecordRepository {
	return &MigrationRecordAdapter{
		client: client,
		db:     newGoqu(client),
	}
}

var migrationColumns = []interface{}{
	"id", "source_id", "target_id", "status", "attempts", "started_at", "completed_at",
	"error_message", "metadata", "created_at", "updated_at",
}

// InsertIfAbsent creates a pending record unless one exists for sourceID
func (a *MigrationRecordAdapter) InsertIfAbsent(ctx context.Context, sourceID string) error {
	now := time.Now().UTC()
	query, args, err := a.db.Insert(migrationRecordsTable).Prepared(true).
		Rows(goqu.Record{
			"id":         uuid.New().String(),
			"source_id":  sourceID,
			"status":     string(entities.MigrationPending),
			"attempts":   0,
			"created_at": now,
			"updated_at": now,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build ledger insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewPersistenceError("failed to create migration record", err)
	}
	return nil
}

// MarkInProgress starts a new attempt unless the record is already a success
func (a *MigrationRecordAdapter) MarkInProgress(ctx context.Context, sourceID string, startedAt time.Time) (bool, error) {
	query, args, err := a.db.Update(migrationRecordsTable).Prepared(true).
		Set(goqu.Record{
			"status":        string(entities.MigrationInProgress),
			"attempts":      goqu.L("attempts + 1"),
			"started_at":    startedAt.UTC(),
			"completed_at":  nil,
			"error_message": "",
			"updated_at":    time.Now().UTC(),
		}).
		Where(
			goqu.C("source_id").Eq(sourceID),
			goqu.C("status").Neq(string(entities.MigrationSuccess)),
		).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build ledger update", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewPersistenceError("failed to start migration record", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read ledger update result", err)
	}
	return n == 1, nil
}

// Complete applies the terminal transition to an open record
func (a *MigrationRecordAdapter) Complete(ctx context.Context, record *entities.MigrationRecord) error {
	if !record.Status.IsTerminal() {
		return apperrors.NewValidationError(fmt.Sprintf("status %s is not terminal", record.Status))
	}

	completedAt := time.Now().UTC()
	if record.CompletedAt != nil {
		completedAt = record.CompletedAt.UTC()
	}
	metadata := ""
	if record.Metadata != nil {
		metadata = encodeJSON(record.Metadata)
	}

	query, args, err := a.db.Update(migrationRecordsTable).Prepared(true).
		Set(goqu.Record{
			"status":        string(record.Status),
			"target_id":     record.TargetID,
			"error_message": record.ErrorMessage,
			"metadata":      metadata,
			"completed_at":  completedAt,
			"updated_at":    time.Now().UTC(),
		}).
		Where(
			goqu.C("source_id").Eq(record.SourceID),
			goqu.C("status").In(string(entities.MigrationPending), string(entities.MigrationInProgress)),
		).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build ledger update", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewPersistenceError("failed to complete migration record", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("migration record for %s is not open", record.SourceID))
	}
	return nil
}

// GetBySourceID returns the ledger record for a source post
func (a *MigrationRecordAdapter) GetBySourceID(ctx context.Context, sourceID string) (*entities.MigrationRecord, error) {
	query, args, err := a.db.From(migrationRecordsTable).Prepared(true).
		Select(migrationColumns...).
		Where(goqu.Ex{"source_id": sourceID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ledger query", err)
	}

	record, err := scanMigrationRecord(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no migration record for %s", sourceID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get migration record", err)
	}
	return record, nil
}

// CountByStatus aggregates the ledger per status
func (a *MigrationRecordAdapter) CountByStatus(ctx context.Context) (map[entities.MigrationStatus]int, error) {
	query, args, err := a.db.From(migrationRecordsTable).Prepared(true).
		Select(goqu.C("status"), goqu.COUNT("*")).
		GroupBy(goqu.C("status")).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ledger count", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count migration records", err)
	}
	defer rows.Close()

	counts := map[entities.MigrationStatus]int{
		entities.MigrationPending:    0,
		entities.MigrationInProgress: 0,
		entities.MigrationSuccess:    0,
		entities.MigrationFailed:     0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, apperrors.NewInternalError("failed to scan ledger count", err)
		}
		counts[entities.MigrationStatus(status)] = n
	}
	return counts, rows.Err()
}

// ListByStatus pages through records with the given status, most recently updated first
func (a *MigrationRecordAdapter) ListByStatus(ctx context.Context, status entities.MigrationStatus, limit, offset int) ([]*entities.MigrationRecord, error) {
	ds := a.db.From(migrationRecordsTable).Prepared(true).
		Select(migrationColumns...).
		Where(goqu.Ex{"status": string(status)}).
		Order(goqu.C("updated_at").Desc(), goqu.C("source_id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ledger list", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list migration records", err)
	}
	defer rows.Close()

	records := []*entities.MigrationRecord{}
	for rows.Next() {
		record, err := scanMigrationRecord(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan migration record", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanMigrationRecord(row rowScanner) (*entities.MigrationRecord, error) {
	r := &entities.MigrationRecord{}
	var status, metadata string
	var startedAt, completedAt sql.NullTime

	err := row.Scan(
		&r.ID,
		&r.SourceID,
		&r.TargetID,
		&status,
		&r.Attempts,
		&startedAt,
		&completedAt,
		&r.ErrorMessage,
		&metadata,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status = entities.MigrationStatus(status)
	if startedAt.Valid {
		t := startedAt.Time
		r.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	if metadata != "" {
		r.Metadata = &entities.MigrationMetadata{}
		decodeJSON(metadata, r.Metadata)
	}
	return r, nil
}
