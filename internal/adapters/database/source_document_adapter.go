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

// SourceDocumentAdapter implements SourceDocumentRepository
type SourceDocumentAdapter struct {
	client Client
	db     *goqu.Database
}

// NewSourceDocumentAdapter creates a new source document adapter
func NewSourceDocumentAdapter(client Client) repositories.SourceDocumentRepository {
	return &SourceDocumentAdapter{
		client: client,
		db:     newGoqu(client),
	}
}

var sourceColumns = []interface{}{
	"id", "title", "content", "excerpt", "author_id", "featured_media_id",
	"status", "migrated_recipe_id", "created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSourceDocument(row rowScanner) (*entities.SourceDocument, error) {
	doc := &entities.SourceDocument{}
	var status string
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.Excerpt,
		&doc.AuthorID,
		&doc.FeaturedMediaID,
		&status,
		&doc.MigratedRecipeID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = entities.SourceStatus(status)
	return doc, nil
}

// Create imports a legacy post
func (a *SourceDocumentAdapter) Create(ctx context.Context, doc *entities.SourceDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.Status == "" {
		doc.Status = entities.SourceStatusPublish
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	query, args, err := a.db.Insert(sourceDocumentsTable).Prepared(true).Rows(goqu.Record{
		"id":                 doc.ID,
		"title":              doc.Title,
		"content":            doc.Content,
		"excerpt":            doc.Excerpt,
		"author_id":          doc.AuthorID,
		"featured_media_id":  doc.FeaturedMediaID,
		"status":             string(doc.Status),
		"migrated_recipe_id": doc.MigratedRecipeID,
		"created_at":         doc.CreatedAt,
		"updated_at":         doc.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build source document insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewPersistenceError("failed to create source document", err)
	}
	return nil
}

// GetByID retrieves a legacy post by ID
func (a *SourceDocumentAdapter) GetByID(ctx context.Context, id string) (*entities.SourceDocument, error) {
	query, args, err := a.db.From(sourceDocumentsTable).Prepared(true).
		Select(sourceColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build source document query", err)
	}

	doc, err := scanSourceDocument(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("source document %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get source document", err)
	}
	return doc, nil
}

// GetByIDs retrieves several posts in one query. Missing IDs are omitted.
func (a *SourceDocumentAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.SourceDocument, error) {
	if len(ids) == 0 {
		return []*entities.SourceDocument{}, nil
	}

	query, args, err := a.db.From(sourceDocumentsTable).Prepared(true).
		Select(sourceColumns...).
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build source documents query", err)
	}
	return a.queryDocuments(ctx, query, args)
}

// ListUnmigrated returns posts without a successful ledger record, least attempts first
func (a *SourceDocumentAdapter) ListUnmigrated(ctx context.Context, limit int) ([]*entities.SourceDocument, error) {
	cols := make([]interface{}, 0, len(sourceColumns))
	for _, c := range sourceColumns {
		cols = append(cols, goqu.I("s."+c.(string)))
	}

	ds := a.db.From(goqu.T(sourceDocumentsTable).As("s")).Prepared(true).
		LeftJoin(goqu.T(migrationRecordsTable).As("m"), goqu.On(goqu.I("m.source_id").Eq(goqu.I("s.id")))).
		Select(cols...).
		Where(
			goqu.I("s.status").Neq(string(entities.SourceStatusDraft)),
			goqu.Or(
				goqu.I("m.status").IsNull(),
				goqu.I("m.status").Neq(string(entities.MigrationSuccess)),
			),
		).
		Order(
			goqu.COALESCE(goqu.I("m.attempts"), 0).Asc(),
			goqu.I("s.created_at").Asc(),
			goqu.I("s.id").Asc(),
		)
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build unmigrated query", err)
	}
	return a.queryDocuments(ctx, query, args)
}

// ListIDs pages through migratable post IDs in ascending order
func (a *SourceDocumentAdapter) ListIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	ds := a.db.From(sourceDocumentsTable).Prepared(true).
		Select("id").
		Where(goqu.C("status").Neq(string(entities.SourceStatusDraft))).
		Order(goqu.C("id").Asc())
	if afterID != "" {
		ds = ds.Where(goqu.C("id").Gt(afterID))
	}
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build id query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list source ids", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan source id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of migratable posts
func (a *SourceDocumentAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.From(sourceDocumentsTable).Prepared(true).
		Select(goqu.COUNT("*")).
		Where(goqu.C("status").Neq(string(entities.SourceStatusDraft))).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count source documents", err)
	}
	return count, nil
}

// SetMigratedRecipe stores the back-reference to the produced recipe
func (a *SourceDocumentAdapter) SetMigratedRecipe(ctx context.Context, id, recipeID string) error {
	return a.update(ctx, id, goqu.Record{"migrated_recipe_id": recipeID}, "failed to link source document")
}

// Retire flips the post's lifecycle status to retired
func (a *SourceDocumentAdapter) Retire(ctx context.Context, id string) error {
	return a.update(ctx, id, goqu.Record{"status": string(entities.SourceStatusRetired)}, "failed to retire source document")
}

func (a *SourceDocumentAdapter) update(ctx context.Context, id string, rec goqu.Record, msg string) error {
	rec["updated_at"] = time.Now().UTC()
	query, args, err := a.db.Update(sourceDocumentsTable).Prepared(true).
		Set(rec).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build source document update", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewPersistenceError(msg, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("source document %s not found", id))
	}
	return nil
}

func (a *SourceDocumentAdapter) queryDocuments(ctx context.Context, query string, args []interface{}) ([]*entities.SourceDocument, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query source documents", err)
	}
	defer rows.Close()

	docs := []*entities.SourceDocument{}
	for rows.Next() {
		doc, err := scanSourceDocument(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan source document", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate source documents", err)
	}
	return docs, nil
}
