package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

// TaxonomyAdapter implements TaxonomyRepository
type TaxonomyAdapter struct {
	client Client
	db     *goqu.Database
}

// NewTaxonomyAdapter creates a new taxonomy adapter
func NewTaxonomyAdapter(client Client) repositories.TaxonomyRepository {
	return &TaxonomyAdapter{
		client: client,
		db:     newGoqu(client),
	}
}

// ListByTaxonomy returns every term of a taxonomy ordered by name
func (a *TaxonomyAdapter) ListByTaxonomy(ctx context.Context, taxonomy entities.Taxonomy) ([]*entities.TaxonomyTerm, error) {
	query, args, err := a.db.From(taxonomyTermsTable).Prepared(true).
		Select("id", "taxonomy", "name", "slug").
		Where(goqu.Ex{"taxonomy": string(taxonomy)}).
		Order(goqu.C("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build taxonomy query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list taxonomy terms", err)
	}
	defer rows.Close()

	terms := []*entities.TaxonomyTerm{}
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan taxonomy term", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// EnsureTerm returns the term whose slug matches name, creating it if absent
func (a *TaxonomyAdapter) EnsureTerm(ctx context.Context, taxonomy entities.Taxonomy, name string) (*entities.TaxonomyTerm, error) {
	name = strings.TrimSpace(name)
	slug := utils.Slugify(name)
	if slug == "" {
		return nil, apperrors.NewValidationError("taxonomy term name is required")
	}

	query, args, err := a.db.Insert(taxonomyTermsTable).Prepared(true).
		Rows(goqu.Record{
			"id":       uuid.New().String(),
			"taxonomy": string(taxonomy),
			"name":     name,
			"slug":     slug,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build taxonomy insert", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewPersistenceError("failed to create taxonomy term", err)
	}

	query, args, err = a.db.From(taxonomyTermsTable).Prepared(true).
		Select("id", "taxonomy", "name", "slug").
		Where(goqu.Ex{"taxonomy": string(taxonomy), "slug": slug}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build taxonomy query", err)
	}

	term, err := scanTerm(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewPersistenceError("taxonomy term vanished after insert", err)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get taxonomy term", err)
	}
	return term, nil
}

func scanTerm(row rowScanner) (*entities.TaxonomyTerm, error) {
	term := &entities.TaxonomyTerm{}
	var taxonomy string
	if err := row.Scan(&term.ID, &taxonomy, &term.Name, &term.Slug); err != nil {
		return nil, err
	}
	term.Taxonomy = entities.Taxonomy(taxonomy)
	return term, nil
}
