package services

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

// LegacyPost is one entry of a legacy blog export
type LegacyPost struct {
	ID              string    `json:"id" validate:"required,max=64"`
	Title           string    `json:"title" validate:"required,max=500"`
	Content         string    `json:"content" validate:"required"`
	Excerpt         string    `json:"excerpt"`
	AuthorID        string    `json:"author_id"`
	FeaturedMediaID string    `json:"featured_media_id"`
	Status          string    `json:"status" validate:"omitempty,oneof=publish draft retired"`
	CreatedAt       time.Time `json:"created_at"`
}

// ImportResult counts what an import did
type ImportResult struct {
	Imported int      `json:"imported"`
	Existing int      `json:"existing"`
	Invalid  int      `json:"invalid"`
	Errors   []string `json:"errors,omitempty"`
}

// SourceImporter loads legacy posts into the source store. Posts already present are left untouched.
type SourceImporter struct {
	sources  repositories.SourceDocumentRepository
	validate *validator.Validate
}

// NewSourceImporter creates an importer
func NewSourceImporter(sources repositories.SourceDocumentRepository) *SourceImporter {
	return &SourceImporter{sources: sources, validate: validator.New()}
}

// ImportJSON reads a JSON array of LegacyPost from r
func (i *SourceImporter) ImportJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var posts []LegacyPost
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, apperrors.NewValidationError("invalid post export: " + err.Error())
	}
	return i.Import(ctx, posts)
}

// Import stores each valid post that does not exist yet. Invalid posts are counted and skipped;
// a store failure aborts the import.
func (i *SourceImporter) Import(ctx context.Context, posts []LegacyPost) (*ImportResult, error) {
	logger := observability.LoggerFromContext(ctx)
	result := &ImportResult{}

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		post.ID = strings.TrimSpace(post.ID)
		if err := i.validate.Struct(post); err != nil {
			result.Invalid++
			result.Errors = append(result.Errors, post.ID+": "+err.Error())
			logger.Warn().Err(err).Str("source_id", post.ID).Msg("Skipping invalid legacy post")
			continue
		}

		_, err := i.sources.GetByID(ctx, post.ID)
		if err == nil {
			result.Existing++
			continue
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return result, err
		}

		doc := &entities.SourceDocument{
			ID:              post.ID,
			Title:           strings.TrimSpace(post.Title),
			Content:         post.Content,
			Excerpt:         post.Excerpt,
			AuthorID:        post.AuthorID,
			FeaturedMediaID: post.FeaturedMediaID,
			Status:          entities.SourceStatus(post.Status),
			CreatedAt:       post.CreatedAt,
		}
		if err := i.sources.Create(ctx, doc); err != nil {
			return result, err
		}
		result.Imported++
	}

	logger.Info().
		Int("imported", result.Imported).
		Int("existing", result.Existing).
		Int("invalid", result.Invalid).
		Msg("Legacy post import finished")
	return result, nil
}
